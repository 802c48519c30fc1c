package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	httpmiddleware "github.com/gestaosaude/distrito/internal/http/middleware"
	"github.com/gestaosaude/distrito/internal/util"
)

// ServiceProvider é o contrato consumido pelos handlers de perfil.
type ServiceProvider interface {
	Get(ctx context.Context, userID uuid.UUID) (Perfil, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (Perfil, error)
}

// Handler expõe os endpoints de perfil.
type Handler struct {
	service ServiceProvider
}

func NewHandler(service ServiceProvider) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.getProfile)
	r.Patch("/profile", h.patchProfile)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID := httpmiddleware.GetUserID(r.Context())

	perfil, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Perfil não encontrado para este usuário.", "")
			return
		}
		log.Error().Err(err).Msg("falha ao buscar perfil do usuário")
		writeError(w, http.StatusInternalServerError, "Erro ao buscar perfil do usuário", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, perfil)
}

// patchPayload aceita o corpo completo do formulário, mas só os campos
// de UpdateInput chegam ao banco. Cargo é definido pelo administrador;
// id, e-mail e timestamps são sempre do servidor.
type patchPayload struct {
	NomeCompleto    *string `json:"nome_completo"`
	CPF             *string `json:"cpf"`
	Cargo           *string `json:"cargo"`
	UnidadeSaude    *string `json:"unidade_saude"`
	Equipe          *string `json:"equipe"`
	Microarea       *string `json:"microarea"`
	ContatoTelefone *string `json:"contato_telefone"`
	DataAdmissao    *string `json:"data_admissao"`
	Email           *string `json:"email"`
	ID              *string `json:"id"`
	UpdatedAt       *string `json:"updated_at"`
}

func (h *Handler) patchProfile(w http.ResponseWriter, r *http.Request) {
	userID := httpmiddleware.GetUserID(r.Context())

	var payload patchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Formato JSON inválido no corpo da requisição", "")
		return
	}

	input := UpdateInput{
		NomeCompleto:    payload.NomeCompleto,
		CPF:             payload.CPF,
		UnidadeSaude:    payload.UnidadeSaude,
		Equipe:          payload.Equipe,
		Microarea:       payload.Microarea,
		ContatoTelefone: payload.ContatoTelefone,
	}

	if payload.DataAdmissao != nil && *payload.DataAdmissao != "" {
		admissao, err := util.ParseDate(*payload.DataAdmissao)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Data de admissão inválida", "")
			return
		}
		input.DataAdmissao = &admissao
	}

	perfil, err := h.service.Update(r.Context(), userID, input)
	if err != nil {
		log.Error().Err(err).Msg("falha ao atualizar perfil do usuário")
		writeError(w, http.StatusInternalServerError, "Erro ao atualizar perfil do usuário", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, perfil)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"error": message}
	if details != "" {
		body["details"] = details
	}
	_ = json.NewEncoder(w).Encode(body)
}

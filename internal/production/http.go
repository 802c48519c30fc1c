package production

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	httpmiddleware "github.com/gestaosaude/distrito/internal/http/middleware"
	"github.com/gestaosaude/distrito/internal/profile"
)

// ServiceProvider é o contrato consumido pelos handlers de produção.
type ServiceProvider interface {
	List(ctx context.Context, userID uuid.UUID) ([]Registro, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (Registro, error)
}

// Handler expõe os endpoints de produção semanal.
type Handler struct {
	service ServiceProvider
}

func NewHandler(service ServiceProvider) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/production", h.listProduction)
	r.Post("/production", h.createProduction)
}

func (h *Handler) listProduction(w http.ResponseWriter, r *http.Request) {
	userID := httpmiddleware.GetUserID(r.Context())

	registros, err := h.service.List(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, profile.ErrForbidden):
			writeError(w, http.StatusForbidden, "Acesso não autorizado para este tipo de usuário.", "")
		case errors.Is(err, ErrPerfilGate):
			log.Error().Err(err).Msg("falha ao carregar perfil para listar produção")
			writeError(w, http.StatusInternalServerError, ErrPerfilGate.Error(), err.Error())
		default:
			log.Error().Err(err).Msg("falha ao listar registros de produção")
			writeError(w, http.StatusInternalServerError, "Erro ao buscar registros de produção", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, registros)
}

func (h *Handler) createProduction(w http.ResponseWriter, r *http.Request) {
	userID := httpmiddleware.GetUserID(r.Context())

	var input CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Formato JSON inválido no corpo da requisição", "")
		return
	}

	registro, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, profile.ErrForbidden):
			writeError(w, http.StatusForbidden, "Acesso não autorizado para registrar produção.", "")
		case errors.Is(err, ErrPerfilGate):
			log.Error().Err(err).Msg("falha ao carregar perfil para registrar produção")
			writeError(w, http.StatusInternalServerError, ErrPerfilGate.Error(), err.Error())
		case errors.Is(err, ErrStoreForbidden):
			writeError(w, http.StatusForbidden, "Erro de permissão ao registrar produção. Verifique seu tipo de usuário.", err.Error())
		case errors.Is(err, ErrSemanaObrigatoria), errors.Is(err, ErrSemanaInvalida):
			writeError(w, http.StatusBadRequest, err.Error(), "")
		default:
			log.Error().Err(err).Msg("falha ao registrar produção semanal")
			writeError(w, http.StatusInternalServerError, "Erro ao registrar produção semanal", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, registro)
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

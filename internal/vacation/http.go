package vacation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	httpmiddleware "github.com/gestaosaude/distrito/internal/http/middleware"
)

// ServiceProvider é o contrato consumido pelos handlers de férias.
type ServiceProvider interface {
	List(ctx context.Context, userID uuid.UUID) ([]Solicitacao, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (Solicitacao, error)
}

// Handler expõe os endpoints de férias.
type Handler struct {
	service ServiceProvider
}

func NewHandler(service ServiceProvider) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/vacations", h.listVacations)
	r.Post("/vacations", h.createVacation)
}

func (h *Handler) listVacations(w http.ResponseWriter, r *http.Request) {
	userID := httpmiddleware.GetUserID(r.Context())

	solicitacoes, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("falha ao listar solicitações de férias")
		writeError(w, http.StatusInternalServerError, "Erro ao buscar histórico de férias", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, solicitacoes)
}

func (h *Handler) createVacation(w http.ResponseWriter, r *http.Request) {
	userID := httpmiddleware.GetUserID(r.Context())

	var input CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Formato JSON inválido no corpo da requisição", "")
		return
	}

	solicitacao, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrCamposObrigatorios),
			errors.Is(err, ErrDatasInvalidas),
			errors.Is(err, ErrPeriodoInvalido),
			errors.Is(err, ErrModalidadeInvalida):
			writeError(w, http.StatusBadRequest, err.Error(), "")
		default:
			log.Error().Err(err).Msg("falha ao registrar solicitação de férias")
			writeError(w, http.StatusInternalServerError, "Erro ao registrar solicitação de férias", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, solicitacao)
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

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gestaosaude/distrito/internal/auth"
	httpmiddleware "github.com/gestaosaude/distrito/internal/http/middleware"
	"github.com/gestaosaude/distrito/internal/util"
)

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Formato JSON inválido no corpo da requisição", "")
		return
	}

	token, err := h.auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			WriteError(w, http.StatusUnauthorized, "Credenciais inválidas", "")
			return
		}
		log.Error().Err(err).Msg("falha ao autenticar usuário")
		WriteError(w, http.StatusInternalServerError, "Erro ao autenticar usuário", err.Error())
		return
	}

	httpmiddleware.SetSessionCookie(w, h.cookie, token)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Login realizado com sucesso"})
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Formato JSON inválido no corpo da requisição", "")
		return
	}

	if err := h.auth.Signup(r.Context(), payload.Email, payload.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailEmUso):
			WriteError(w, http.StatusConflict, "E-mail já cadastrado", "")
		case util.IsValidation(err):
			WriteError(w, http.StatusBadRequest, err.Error(), "")
		default:
			log.Error().Err(err).Msg("falha ao cadastrar usuário")
			WriteError(w, http.StatusInternalServerError, "Erro ao cadastrar usuário", err.Error())
		}
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"message": "Cadastro realizado com sucesso"})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sessionID := httpmiddleware.GetSessionID(r.Context())

	if err := h.auth.Logout(r.Context(), sessionID); err != nil {
		log.Error().Err(err).Msg("falha ao encerrar sessão")
		WriteError(w, http.StatusInternalServerError, "Erro ao encerrar sessão", err.Error())
		return
	}

	httpmiddleware.ClearSessionCookie(w, h.cookie)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Sessão encerrada"})
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gestaosaude/distrito/internal/auth"
)

type contextKey string

const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeySessionID contextKey = "session_id"
)

// SessionResolver traduz o token do cookie em sessão válida.
type SessionResolver interface {
	Resolve(ctx context.Context, rawToken string) (auth.ResolvedSession, error)
}

// CookieSettings parametriza o cookie de sessão gerido pelo backend
// de autenticação.
type CookieSettings struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// SetSessionCookie grava o token no cookie HTTP-only.
func SetSessionCookie(w http.ResponseWriter, settings CookieSettings, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     settings.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(settings.TTL / time.Second),
		HttpOnly: true,
		Secure:   settings.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expira o cookie de sessão.
func ClearSessionCookie(w http.ResponseWriter, settings CookieSettings) {
	http.SetCookie(w, &http.Cookie{
		Name:     settings.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   settings.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Session resolve o cookie de autenticação e injeta usuário e sessão
// no contexto. Qualquer falha de resolução encerra em 401.
func Session(resolver SessionResolver, settings CookieSettings) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var rawToken string
			if cookie, err := r.Cookie(settings.Name); err == nil {
				rawToken = cookie.Value
			}

			resolved, err := resolver.Resolve(r.Context(), rawToken)
			if err != nil {
				writeSessionError(w)
				return
			}

			// Regravar o cookie é efeito colateral da leitura: se não
			// der, a requisição segue com o token antigo.
			if resolved.RefreshedToken != "" {
				SetSessionCookie(w, settings, resolved.RefreshedToken)
			}

			ctx := WithSession(r.Context(), resolved.UserID, resolved.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSession injeta usuário e sessão no contexto.
func WithSession(ctx context.Context, userID uuid.UUID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserID, userID)
	return context.WithValue(ctx, ContextKeySessionID, sessionID)
}

// GetUserID recupera o usuário autenticado do contexto.
func GetUserID(ctx context.Context) uuid.UUID {
	val, _ := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return val
}

// GetSessionID recupera o identificador da sessão do contexto.
func GetSessionID(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeySessionID).(string)
	return val
}

func writeSessionError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": "Usuário não autenticado",
	})
}

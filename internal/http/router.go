package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gestaosaude/distrito/internal/auth"
	"github.com/gestaosaude/distrito/internal/config"
	httpmiddleware "github.com/gestaosaude/distrito/internal/http/middleware"
	"github.com/gestaosaude/distrito/internal/production"
	"github.com/gestaosaude/distrito/internal/profile"
	"github.com/gestaosaude/distrito/internal/vacation"
)

// Handler concentra as dependências das rotas de autenticação.
type Handler struct {
	auth   *auth.Service
	cookie httpmiddleware.CookieSettings
}

// NewRouter devolve o roteador configurado: rotas públicas de conta e
// rotas protegidas pelo resolvedor de sessão.
func NewRouter(
	cfg *config.Config,
	authService *auth.Service,
	profiles *profile.Service,
	productions *production.Service,
	vacations *vacation.Service,
) http.Handler {
	cookie := httpmiddleware.CookieSettings{
		Name:   cfg.CookieName,
		Secure: cfg.CookieSecure,
		TTL:    cfg.SessionTTL,
	}
	h := &Handler{auth: authService, cookie: cookie}

	profileHandler := profile.NewHandler(profiles)
	productionHandler := production.NewHandler(productions)
	vacationHandler := vacation.NewHandler(vacations)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/signup", h.signup)

		r.Group(func(r chi.Router) {
			r.Use(httpmiddleware.Session(authService, cookie))

			r.Post("/logout", h.logout)
			profileHandler.RegisterRoutes(r)
			productionHandler.RegisterRoutes(r)
			vacationHandler.RegisterRoutes(r)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

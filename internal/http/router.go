package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/TheTaz25/simple-auth/internal/http/handlers"
	"github.com/TheTaz25/simple-auth/internal/http/middleware"
	"github.com/TheTaz25/simple-auth/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(svc)

	registerRoutes(root, h, svc)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, svc *service.Service) {
	// Открытые маршруты.
	r.Post("/auth/register", h.RegisterUser)
	r.Post("/auth/login", h.LoginUser)
	r.Get("/auth/refresh/{refresh_token}", h.RefreshSession)

	// Маршруты за guard'ом аутентификации.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(svc))

		r.Get("/auth/logout", h.Logout)
		r.Get("/auth/self", h.Self)
		r.Get("/auth/test", h.AuthTest)
	})

	// Административные маршруты: guard аутентификации + проверка роли.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(svc), middleware.RequireAdmin())

		r.Get("/admin/test", h.AdminTest)
	})
}

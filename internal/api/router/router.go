package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "storerating/docs" // registra o documento OpenAPI
	"storerating/internal/api/auth"
	"storerating/internal/api/rating"
	"storerating/internal/api/store"
	"storerating/internal/api/user"
	"storerating/internal/domain"
	apperror "storerating/internal/errors"
	"storerating/internal/pkg/cache"
	"storerating/internal/pkg/logger"
	"storerating/internal/pkg/metrics"
	"storerating/internal/pkg/middleware"
	"storerating/internal/pkg/respond"
)

// Handlers reúne os handlers já inicializados por injeção de dependências.
type Handlers struct {
	Auth    *auth.Handler
	Users   *user.Handler
	Stores  *store.Handler
	Ratings *rating.Handler
}

// Options agrupa a infraestrutura compartilhada pelos middlewares.
type Options struct {
	TokenService   middleware.TokenService
	Cache          cache.Client // nil desliga o rate limiter
	RateLimit      int
	RateWindow     time.Duration
	AllowedOrigins []string
	Logger         logger.Logger
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, opts Options) http.Handler {
	log := opts.Logger
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(metrics.InstrumentHandler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respond.Error(w, req, log, apperror.NewNotFoundError("Rota não encontrada."))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respond.JSON(w, log, http.StatusMethodNotAllowed, domain.ErrorResponse{
			Code:     http.StatusMethodNotAllowed,
			Category: "METHOD_NOT_ALLOWED",
			Message:  "Método não permitido.",
		})
	})

	// --- 1. Rotas operacionais ---
	r.Get("/ping", PingHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	authenticate := middleware.NewAuthMiddleware(opts.TokenService, log)
	only := func(roles ...domain.UserRole) func(http.Handler) http.Handler {
		return middleware.RequireRoles(log, roles...)
	}

	// --- 2. API ---
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if opts.Cache != nil {
					r.Use(middleware.RateLimiter(opts.Cache, opts.RateLimit, opts.RateWindow, log))
				}
				r.Post("/register", h.Auth.Register)
				r.Post("/login", h.Auth.Login)
			})
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Get("/profile", h.Auth.Profile)
				r.Put("/password", h.Auth.UpdatePassword)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticate, only(domain.RoleAdmin))
			r.Get("/", h.Users.List)
			r.Post("/", h.Users.Create)
			r.Get("/{id}", h.Users.Get)
			r.Put("/{id}", h.Users.Update)
			r.Delete("/{id}", h.Users.Delete)
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", h.Stores.List)
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.With(only(domain.RoleStoreOwner)).Get("/owner/dashboard", h.Stores.OwnerDashboard)
				r.With(only(domain.RoleAdmin)).Post("/", h.Stores.Create)
				r.Put("/{id}", h.Stores.Update)
				r.Delete("/{id}", h.Stores.Delete)
			})
			r.Get("/{id}", h.Stores.Get)
		})

		r.Route("/ratings", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", h.Ratings.List)
			r.With(only(domain.RoleUser)).Post("/", h.Ratings.Create)
			r.Get("/store/{id}", h.Ratings.ListByStore)
			r.Get("/{id}", h.Ratings.Get)
			r.Put("/{id}", h.Ratings.Update)
			r.Delete("/{id}", h.Ratings.Delete)
		})
	})

	return r
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

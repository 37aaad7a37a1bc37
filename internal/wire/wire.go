package wire

import (
	"net/http"

	"appmarket/internal/adaptor"
	"appmarket/internal/data/repository"
	"appmarket/internal/usecase"
	"appmarket/pkg/metrics"
	"appmarket/pkg/middleware"
	"appmarket/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// App holds the router and whatever must be stopped with it.
type App struct {
	Router  *chi.Mux
	Limiter *middleware.RateLimiter
}

// Deps are the process-level collaborators built in main.
type Deps struct {
	Infra    usecase.Infra
	Gatherer prometheus.Gatherer
}

// Wiring builds services, handlers and routes.
func Wiring(repo *repository.Repository, config *utils.Config, deps Deps, logger *zap.Logger) *App {
	if deps.Infra.Metrics == nil {
		deps.Infra.Metrics = metrics.Nop{}
	}

	service := usecase.NewService(repo, config, deps.Infra, logger)
	handler := adaptor.NewHandler(service, config, logger)
	limiter := middleware.NewRateLimiter(config.RateLimit, logger.With(zap.String("middleware", "ratelimit")))

	router := setupRouter(handler, service.Auth, limiter, deps, config, logger)

	return &App{
		Router:  router,
		Limiter: limiter,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	auth middleware.Authenticator,
	limiter *middleware.RateLimiter,
	deps Deps,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	responder := utils.NewErrorResponder(logger.With(zap.String("middleware", "auth")), config.App.IsDevelopment())
	protect := middleware.Protect(auth, responder, logger)

	// Apply global middleware
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger, deps.Infra.Metrics))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigin))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limiter.Middleware)

		wireCatalog(r, handler.Catalog, handler.Cart, protect)
		wireAuth(r, handler.Auth, protect)
		wireUser(r, handler.User, handler.Cart, protect)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Can't find "+r.URL.RequestURI()+" on this server!")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseFailure(w, http.StatusMethodNotAllowed, "Method "+r.Method+" is not allowed on "+r.URL.Path)
	})

	return r
}

package shop

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"BuildSupply/internal/catalog"
	"BuildSupply/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	RateLimitPerMin int
}

const (
	readyTimeout = 1 * time.Second
	limitWindow  = 60 * time.Second
)

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)
	setupRoutes(r, s, deps)

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func setupRoutes(r *chi.Mux, s *Server, deps HTTPDeps) {
	r.Get("/health", s.health)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.readyz)

	r.Group(func(lr chi.Router) {
		if deps.RateLimitPerMin > 0 {
			limiter := kit.NewIPRateLimiter(deps.RateLimitPerMin, int(limitWindow.Seconds()))
			lr.Use(limiter.Middleware)
		}

		lr.Post("/search", s.search)
		lr.Get("/products/search", s.searchOne)

		lr.Post("/cart/add", s.cartAdd)
		lr.Post("/cart/remove", s.cartRemove)
		lr.Get("/cart/{userID}", s.cartGet)
	})

	products := &catalog.Server{Store: s.Service.Catalog, Log: s.Log}
	r.Mount("/", products.Routes())
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Service.Catalog.Ping(ctx); err != nil {
		s.notReady(w, r, "catalog", err)
		return
	}
	if err := s.Service.Carts.Ping(ctx); err != nil {
		s.notReady(w, r, "cart store", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) notReady(w http.ResponseWriter, r *http.Request, what string, err error) {
	if s.Log != nil {
		s.Log.Warn("readyz failed: "+what, zap.Error(err))
	}
	kit.WriteError(w, r, http.StatusServiceUnavailable, what+" not ready", nil)
}

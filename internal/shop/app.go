package shop

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"SweetShop/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	RateLimit       int
	RateLimitWindow time.Duration
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if s.Log == nil {
		s.Log = deps.Log
	}

	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, s, deps)
	setupRoutes(r, s, mutationLimiter(deps))

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, s *Server, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service))
	s.metrics = NewInventoryMetrics(deps.Registry, s.Store, s.lowStock())

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func mutationLimiter(deps HTTPDeps) func(http.Handler) http.Handler {
	if deps.RateLimit <= 0 || deps.RateLimitWindow <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return kit.NewIPRateLimiter(deps.RateLimit, deps.RateLimitWindow).Middleware
}

func setupRoutes(r *chi.Mux, s *Server, limit func(http.Handler) http.Handler) {
	r.Get("/healthz", healthz)
	r.Get("/readyz", healthz)

	r.Route("/api", func(api chi.Router) {
		api.Get("/sweets", s.apiList)
		api.Get("/sweet/{id}", s.apiGet)
		api.Get("/search", s.apiSearch)
		api.Get("/low-stock", s.apiLowStock)
		api.Get("/stats", s.apiStats)
		api.Get("/transactions", s.apiTransactions)
		api.Get("/categories", s.apiCategories)

		api.Group(func(mut chi.Router) {
			mut.Use(limit)
			mut.Post("/sweets", s.apiCreate)
			mut.Delete("/sweet/{id}", s.apiDelete)
			mut.Post("/sweet/{id}/purchase", s.apiPurchase)
			mut.Post("/sweet/{id}/restock", s.apiRestock)
		})
	})

	r.Get("/", s.index)
	r.Get("/search", s.searchPage)

	r.Group(func(mut chi.Router) {
		mut.Use(limit)
		mut.Post("/add_sweet", s.addSweet)
		mut.Post("/delete_sweet/{id}", s.deleteSweet)
		mut.Post("/purchase", s.purchase)
		mut.Post("/restock", s.restock)
	})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

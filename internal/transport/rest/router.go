package rest

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/wortschatz/internal/config"
	"github.com/heartmarshall/wortschatz/internal/transport/middleware"
)

// RouterDeps are the handlers and settings the router is built from.
type RouterDeps struct {
	Health     *HealthHandler
	Practice   *PracticeHandler
	Limiter    *middleware.RateLimiter
	Gatherer   prometheus.Gatherer
	Registerer prometheus.Registerer
	CORS       config.CORSConfig
	RatePerMin int
	TrustProxy bool
	Logger     *slog.Logger
}

// NewRouter wires the endpoints and the middleware chain. Probes and
// /metrics bypass CORS and the rate limit.
func NewRouter(d RouterDeps) http.Handler {
	metrics := middleware.NewHTTPMetrics(d.Registerer)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/exercises/next", d.Practice.Next)
	api.HandleFunc("GET /api/exercises/{id}/hint", d.Practice.Hint)
	api.HandleFunc("POST /api/exercises/{id}/answer", d.Practice.Answer)

	var limit middleware.Middleware
	if d.Limiter != nil {
		limit = d.Limiter.Limit(d.RatePerMin)
	}
	apiChain := middleware.Chain(
		middleware.CORS(d.CORS),
		limit,
		metrics.Middleware,
	)(api)

	root := http.NewServeMux()
	root.HandleFunc("GET /live", d.Health.Live)
	root.HandleFunc("GET /ready", d.Health.Ready)
	root.HandleFunc("GET /health", d.Health.Health)
	root.Handle("GET /metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	root.Handle("/api/", apiChain)

	return middleware.Chain(
		middleware.Recovery(d.Logger),
		middleware.RequestID,
		middleware.ClientIP(d.TrustProxy),
		middleware.Logger(d.Logger),
	)(root)
}

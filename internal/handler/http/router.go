package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adityabima03/YuhuKopi/internal/service"
	"github.com/adityabima03/YuhuKopi/pkg/health"
	"github.com/adityabima03/YuhuKopi/pkg/middleware"
)

const serviceName = "coffee-server"

// RouterOptions tunes the router's cross-cutting behaviour.
type RouterOptions struct {
	CatalogMaxAge  time.Duration
	AllowedOrigins []string
	PprofEnabled   bool
	PprofCIDRs     []string
	OrderRateRPS   float64
	OrderBurst     int
}

// NewRouter creates a chi router with the catalog and order routes registered.
func NewRouter(
	catalog *service.CatalogService,
	orders *service.OrderService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	opts RouterOptions,
) http.Handler {
	r := chi.NewRouter()

	cors := middleware.DefaultCORSConfig()
	if len(opts.AllowedOrigins) > 0 {
		cors.AllowedOrigins = opts.AllowedOrigins
	}

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cors))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health", healthHandler.SimpleHandler())
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	if opts.PprofEnabled {
		middleware.RegisterPprof(r, opts.PprofCIDRs, logger)
	}

	catalogHandler := NewCatalogHandler(catalog, logger)
	orderHandler := NewOrderHandler(orders, logger)

	r.Route("/api/coffees", func(r chi.Router) {
		r.Use(middleware.CacheControl(int(opts.CatalogMaxAge.Seconds())))
		r.Get("/", catalogHandler.ListCoffees)
		r.Get("/{id}", catalogHandler.GetCoffee)
	})

	orderLimit := middleware.RateLimit(opts.OrderRateRPS, opts.OrderBurst, logger)

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(ContentTypeJSON)
		r.With(orderLimit).Post("/", orderHandler.CreateOrder)
		r.Get("/", orderHandler.ListOrders)
		r.Get("/{id}", orderHandler.GetOrder)
	})

	return r
}

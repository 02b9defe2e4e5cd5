package config

import (
	"fmt"
	"net/url"
	"slices"
	"time"

	pkgconfig "github.com/adityabima03/YuhuKopi/pkg/config"
	"github.com/adityabima03/YuhuKopi/pkg/database"
	"github.com/adityabima03/YuhuKopi/pkg/httpclient"
	"github.com/adityabima03/YuhuKopi/pkg/tracing"
)

// Order store drivers.
const (
	OrderStorePostgres = "postgres"
	OrderStoreRedis    = "redis"
)

// Server holds all configuration for the catalog/order backend.
type Server struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// ORDER_STORE selects the order repository driver.
	OrderStore string `env:"ORDER_STORE" envDefault:"postgres"`

	Postgres database.PostgresConfig `envPrefix:"POSTGRES_"`
	Redis    database.RedisConfig    `envPrefix:"REDIS_"`

	EventsEnabled bool     `env:"EVENTS_ENABLED" envDefault:"true"`
	KafkaBrokers  []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	CatalogCacheMaxAge time.Duration `env:"CATALOG_CACHE_MAX_AGE" envDefault:"60s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	SlowQueryThreshold time.Duration `env:"SLOW_QUERY_THRESHOLD" envDefault:"200ms"`

	// Per-client limit on POST /api/orders; 0 disables it.
	OrderRateLimitRPS   float64 `env:"ORDER_RATE_LIMIT_RPS" envDefault:"5"`
	OrderRateLimitBurst int     `env:"ORDER_RATE_LIMIT_BURST" envDefault:"10"`

	PprofEnabled    bool     `env:"PPROF_ENABLED" envDefault:"false"`
	PprofAllowedIPs []string `env:"PPROF_ALLOWED_IPS" envDefault:"127.0.0.1/32,::1/128" envSeparator:","`

	Tracing tracing.Config `envPrefix:"OTEL_"`
}

// LoadServer reads the backend configuration from the environment.
func LoadServer() (*Server, error) {
	cfg := &Server{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = "coffee-server"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Server) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if !slices.Contains([]string{OrderStorePostgres, OrderStoreRedis}, c.OrderStore) {
		return fmt.Errorf("invalid ORDER_STORE %q: want %s or %s", c.OrderStore, OrderStorePostgres, OrderStoreRedis)
	}
	if c.EventsEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS must be set when events are enabled")
	}
	if c.OrderRateLimitRPS < 0 || c.OrderRateLimitBurst < 0 {
		return fmt.Errorf("invalid order rate limit: %v rps, burst %d", c.OrderRateLimitRPS, c.OrderRateLimitBurst)
	}
	if c.CatalogCacheMaxAge < 0 {
		return fmt.Errorf("invalid CATALOG_CACHE_MAX_AGE: %s", c.CatalogCacheMaxAge)
	}
	return nil
}

// Storefront holds configuration for the storefront CLI. Every variable is
// read with the STOREFRONT_ prefix.
type Storefront struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	APIBaseURL string            `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	HTTP       httpclient.Config `envPrefix:"HTTP_"`

	// Device location. LOCATION_GRANTED=false simulates a denied prompt.
	LocationGranted bool    `env:"LOCATION_GRANTED" envDefault:"true"`
	Latitude        float64 `env:"LATITUDE" envDefault:"-6.2017561"`
	Longitude       float64 `env:"LONGITUDE" envDefault:"106.7823984"`

	GeocoderURL      string `env:"GEOCODER_URL" envDefault:"https://nominatim.openstreetmap.org"`
	GeocoderLanguage string `env:"GEOCODER_LANGUAGE" envDefault:"id"`

	DeliveryType string `env:"DELIVERY_TYPE" envDefault:"deliver"`
}

// LoadStorefront reads the storefront configuration from STOREFRONT_*
// variables.
func LoadStorefront() (*Storefront, error) {
	cfg := &Storefront{}
	if err := pkgconfig.LoadWithPrefix(cfg, "STOREFRONT_"); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Storefront) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL %q", c.APIBaseURL)
	}
	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("invalid device coordinate %f,%f", c.Latitude, c.Longitude)
	}
	if c.DeliveryType != "deliver" && c.DeliveryType != "pickup" {
		return fmt.Errorf("invalid DELIVERY_TYPE %q", c.DeliveryType)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("invalid HTTP_TIMEOUT: %s", c.HTTP.Timeout)
	}
	return nil
}

// Package api is the HTTP transport of the fleetcost service.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rshade/fleetcost/internal/catalog"
	"github.com/rshade/fleetcost/internal/engine"
	"github.com/rshade/fleetcost/internal/seed"
)

// Service is what the handlers need from the calculation service.
type Service interface {
	Calculate(ctx context.Context, s engine.Scenario) (engine.Summary, error)
	Ready(ctx context.Context) error

	ListEnergies(ctx context.Context) ([]catalog.EnergyDefinition, error)
	GetEnergy(ctx context.Context, code string) (catalog.EnergyDefinition, error)
	CreateEnergy(ctx context.Context, e catalog.EnergyDefinition) (catalog.EnergyDefinition, error)
	UpdateEnergy(ctx context.Context, id uuid.UUID, e catalog.EnergyDefinition) (catalog.EnergyDefinition, error)
	DeleteEnergy(ctx context.Context, id uuid.UUID) error
	UpsertComponent(ctx context.Context, energyID uuid.UUID, c catalog.CostComponent) (catalog.CostComponent, error)
	DeleteComponent(ctx context.Context, id uuid.UUID) error

	ListParameters(ctx context.Context) ([]catalog.SystemParameter, error)
	UpsertParameter(ctx context.Context, key string, p catalog.SystemParameter) (catalog.SystemParameter, error)

	ImportEnergies(ctx context.Context) (seed.Report, error)
	ImportParameters(ctx context.Context) (int, error)
}

// Options configures the HTTP server.
type Options struct {
	AllowedOrigins  []string
	AllowAllOrigins bool
	// TrustedProxies may set X-Forwarded-For. With none, the client IP is
	// always the peer address.
	TrustedProxies []string
	// RateLimitRPS of zero disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server holds the gin engine and the handlers' dependencies.
type Server struct {
	router  *gin.Engine
	svc     Service
	limiter *RateLimiter
	logger  zerolog.Logger
}

// NewServer builds the router.
func NewServer(svc Service, opts Options, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router: gin.New(),
		svc:    svc,
		logger: logger.With().Str("component", "api").Logger(),
	}
	if err := s.router.SetTrustedProxies(opts.TrustedProxies); err != nil {
		s.logger.Warn().Err(err).Msg("invalid trusted proxies, trusting none")
		_ = s.router.SetTrustedProxies(nil)
	}
	if opts.RateLimitRPS > 0 {
		s.limiter = NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
	}

	s.setupMiddleware(opts)
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(requestLogger(s.logger))
	s.router.Use(recovery())
	s.router.Use(cors(opts.AllowedOrigins, opts.AllowAllOrigins))
	if s.limiter != nil {
		s.router.Use(s.limiter.Middleware())
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	api.POST("/calculator", s.calculate)

	admin := api.Group("/admin")
	{
		admin.GET("/energies", s.listEnergies)
		admin.GET("/energies/:id", s.getEnergy)
		admin.POST("/energies", s.createEnergy)
		admin.PUT("/energies/:id", s.updateEnergy)
		admin.DELETE("/energies/:id", s.deleteEnergy)

		admin.POST("/energies/:id/components", s.upsertComponent)
		admin.PUT("/energies/:id/components/:componentId", s.upsertComponent)
		admin.DELETE("/energies/:id/components/:componentId", s.deleteComponent)

		admin.GET("/parameters", s.listParameters)
		admin.PUT("/parameters/:key", s.upsertParameter)

		admin.POST("/import/energies", s.importEnergies)
		admin.POST("/import/parameters", s.importParameters)
	}

	s.router.NoRoute(func(c *gin.Context) {
		writeError(c, CodeNotFound, "route not found", http.StatusNotFound)
	})
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the rate limiter.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// Package rest is the storefront HTTP API: registration, login, purchase
// recording and history, plus health, readiness and metrics endpoints.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/stylish/internal/logging"
	"github.com/dmitrijs2005/stylish/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	Env         string
	Address     string
	CORSOrigins []string
	Logger      logging.Logger
	Users       *services.UserService
	Purchases   *services.PurchaseService
	Tokens      TokenVerifier
	Store       Pinger
	// Registry receives the collectors and backs /metrics. Nil uses the
	// prometheus default registry.
	Registry *prometheus.Registry
}

type Server struct {
	address string
	engine  *gin.Engine
	logger  logging.Logger
}

func NewServer(deps Dependencies) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	log := deps.Logger.With("module", "http_server")

	var (
		reg      prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		reg, gatherer = deps.Registry, deps.Registry
	}

	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("metrics init error: %w", err)
	}

	if deps.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	useJSONFieldNames()

	h := &handlers{
		users:     deps.Users,
		purchases: deps.Purchases,
		store:     deps.Store,
		metrics:   metrics,
		log:       log,
	}

	r := gin.New()
	r.Use(requestID())
	r.Use(recovery(log))
	r.Use(accessLog(log))
	r.Use(metrics.Handler())
	r.Use(corsMiddleware(deps.CORSOrigins))

	r.GET("/health", h.health)
	r.GET("/ready", h.ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")

	users := api.Group("/users")
	users.POST("/register", h.register)
	users.POST("/login", h.login)

	purchases := api.Group("/purchases", RequireAuth(deps.Tokens, log))
	purchases.POST("/record", h.recordPurchase)
	purchases.GET("", h.listPurchases)

	return &Server{address: deps.Address, engine: r, logger: log}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}

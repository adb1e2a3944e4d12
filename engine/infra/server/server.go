// Package server assembles the HTTP surface: smoke test endpoints behind
// bearer auth, plus unsecured health, metrics and API docs.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/justice-digital/dps-smoketest/engine/auth"
	"github.com/justice-digital/dps-smoketest/engine/events"
	"github.com/justice-digital/dps-smoketest/engine/infra/monitoring"
	"github.com/justice-digital/dps-smoketest/engine/smoketest"
	strouter "github.com/justice-digital/dps-smoketest/engine/smoketest/router"
	"github.com/justice-digital/dps-smoketest/pkg/config"
	"github.com/justice-digital/dps-smoketest/pkg/logger"
)

// Dependencies carries the wired services the routes need.
type Dependencies struct {
	Smoketest *smoketest.Service
	Queue     *events.Service
	Metrics   *monitoring.Metrics
}

// Server owns the gin engine and its lifecycle.
type Server struct {
	config *config.Config
	log    logger.Logger
	deps   Dependencies
	engine *gin.Engine
}

func NewServer(cfg *config.Config, log logger.Logger, deps Dependencies) *Server {
	if cfg.Runtime.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{config: cfg, log: log, deps: deps, engine: gin.New()}
	s.registerRoutes()
	return s
}

// Engine exposes the router for handler tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.Use(gin.Recovery(), loggingMiddleware(s.log))

	s.engine.GET("/health", s.health)
	s.engine.GET("/health/liveness", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	s.engine.GET("/health/readiness", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	if s.deps.Metrics != nil {
		s.engine.GET("/metrics", s.deps.Metrics.Handler())
	}
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	secured := s.engine.Group("/smoke-test",
		auth.Middleware(s.config.Auth.JWTSecret, s.config.Auth.RequiredRole))
	strouter.Register(secured, s.deps.Smoketest, s.deps.Metrics)
}

// health reports overall status plus the domain-event queue depth. An
// unreadable queue marks the service DOWN since the event tests depend on it.
func (s *Server) health(c *gin.Context) {
	components := gin.H{}
	status := http.StatusOK
	overall := "UP"
	if s.deps.Queue != nil {
		visible, inFlight, err := s.deps.Queue.Depth(c.Request.Context())
		if err != nil {
			status = http.StatusServiceUnavailable
			overall = "DOWN"
			components["queue"] = gin.H{"status": "DOWN", "error": err.Error()}
		} else {
			if s.deps.Metrics != nil {
				s.deps.Metrics.SetQueueDepth(visible, inFlight)
			}
			components["queue"] = gin.H{"status": "UP", "visible": visible, "inFlight": inFlight}
		}
	}
	c.JSON(status, gin.H{"status": overall, "components": components})
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured server timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: s.config.Server.Timeout,
		// No write timeout: outcome streams stay open for the whole test
		// budget and are bounded by the run context instead.
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.Server.Timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return <-errCh
}

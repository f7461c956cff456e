// Package web serves the operator form that collects applicant attributes
// and shows the predicted risk tier.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"credit-risk-dashboard/internal/common/logger"
	"credit-risk-dashboard/internal/common/observability"
	"credit-risk-dashboard/internal/risk"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templateFS embed.FS

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type Options struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Limiter throttles POST /predict. Nil disables throttling.
	Limiter Limiter

	// Readiness checks run on GET /ready in addition to the model check.
	Readiness map[string]ReadinessCheck
}

type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	dispatcher *risk.Dispatcher
	obs        *observability.Observability
	logger     logger.Logger
	readiness  map[string]ReadinessCheck
}

// NewServer wires the routes. dispatcher must hold a loaded classifier.
func NewServer(opts Options, dispatcher *risk.Dispatcher, obs *observability.Observability, log logger.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), AccessLog(log))
	engine.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	s := &Server{
		engine:     engine,
		dispatcher: dispatcher,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "web"}),
		readiness:  opts.Readiness,
	}

	engine.GET("/", s.showForm)
	if opts.Limiter != nil {
		engine.POST("/predict", RateLimit(opts.Limiter, s.logger), s.predict)
	} else {
		engine.POST("/predict", s.predict)
	}
	engine.GET("/health", s.health)
	engine.GET("/ready", s.ready)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.httpServer = &http.Server{
		Addr:         opts.Address,
		Handler:      engine,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("form server listening", map[string]interface{}{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

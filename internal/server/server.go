// Package server exposes the reconciler over HTTP and hosts the cleaning page.
package server

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jungleai/curveclean-go/internal/config"
	"github.com/jungleai/curveclean-go/internal/logging"
	"github.com/jungleai/curveclean-go/pkg/curveclean"
	"github.com/jungleai/curveclean-go/pkg/curveclean/store"
)

//go:embed static/index.html
var page []byte

const shutdownTimeout = 10 * time.Second

// Server handles the curveclean HTTP API.
type Server struct {
	cfg        config.ServerConfig
	reconciler *curveclean.Reconciler
	store      store.Store
	log        *zap.Logger
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a server. The reconciler and the export routes share st.
func New(cfg config.ServerConfig, r *curveclean.Reconciler, st store.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cfg:        cfg,
		reconciler: r,
		store:      st,
		log:        log,
	}
}

// SetupRoutes builds the gin engine.
func (s *Server) SetupRoutes() *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(logging.Middleware(s.log))
	r.Use(gin.Recovery())
	r.Use(cors.New(s.corsConfig()))

	pagePath := s.cfg.PagePath
	if pagePath == "" {
		pagePath = "/dash"
	}
	r.GET(pagePath, s.Page)

	r.GET("/health", s.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.GET("/figure/empty", s.EmptyFigure)
		api.POST("/reconcile", s.Reconcile)
		api.GET("/export", s.Export)
	}

	markers := api.Group("/sessions/:uuid/markers")
	{
		markers.PUT("/:name", s.SetMarker)
		markers.DELETE("/:name", s.ResetMarker)
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range s.cfg.CORSOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(s.cfg.CORSOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = s.cfg.CORSOrigins
	return cfg
}

// Page serves the cleaning page.
func (s *Server) Page(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// HealthCheck reports service health.
func (s *Server) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   "curveclean",
		Timestamp: time.Now().UTC(),
	})
}

// fail writes err with 400 when the request caused it and 500 otherwise.
func (s *Server) fail(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	if curveclean.IsBadRequest(err) {
		status = http.StatusBadRequest
	}
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{
		Error:   msg,
		Details: err.Error(),
	})
}

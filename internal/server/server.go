// Package server is the HTTP boundary: project downloads, the wizard and
// record listings over gin.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/devspell/cli/internal/advisor"
	"github.com/devspell/cli/internal/output"
	"github.com/devspell/cli/internal/pipeline"
	"github.com/devspell/cli/internal/store"
	"github.com/devspell/cli/internal/templates"
)

// RouterDeps carries everything the routes need.
type RouterDeps struct {
	ServiceName string
	Version     string

	Pipeline pipeline.Pipeline
	Advisor  *advisor.Advisor
	Registry *templates.Registry
	Sink     store.Sink

	// CORSOrigins lists allowed browser origins. Empty allows none; "*"
	// allows all.
	CORSOrigins []string
}

// BuildRouter wires every route.
func BuildRouter(dep RouterDeps) *gin.Engine {
	if dep.Registry == nil {
		dep.Registry = templates.Default()
	}
	if dep.Sink == nil {
		dep.Sink = store.Discard{}
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware())
	if len(dep.CORSOrigins) > 0 {
		r.Use(corsMiddleware(dep.CORSOrigins))
	}

	NewHealthHandler(dep.ServiceName, dep.Version).RegisterRoutes(r)

	api := r.Group("/api/v1")
	h := &Handler{
		pipeline: dep.Pipeline,
		advisor:  dep.Advisor,
		registry: dep.Registry,
		sink:     dep.Sink,
	}
	h.Register(api)
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", HeaderUserID, HeaderRequestID},
		ExposeHeaders: []string{"Content-Disposition", HeaderDiagnostics, HeaderPlaceholders, HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// Server runs the router until shut down.
type Server struct {
	httpServer *http.Server
}

// New returns a server for handler on addr.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Start() error {
	output.Info("starting API server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

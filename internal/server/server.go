package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	healthTimeout          = 2 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// HealthChecker is an interface for components that can report their health status.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Check is one dependency reported by /health. A failing required check makes
// the service unhealthy; any other failing check only degrades it.
type Check struct {
	Name     string
	Target   HealthChecker
	Required bool
}

type Server struct {
	Engine          *gin.Engine
	Addr            string
	ShutdownTimeout time.Duration
	checks          []Check
	onShutdown      []func()
}

func New(addr, mode string, checks ...Check) *Server {
	if mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	s := &Server{
		Engine:          r,
		Addr:            addr,
		ShutdownTimeout: defaultShutdownTimeout,
		checks:          checks,
	}
	r.GET("/health", s.healthHandler)
	return s
}

// RegisterOnShutdown adds f to the hooks run when shutdown begins. Long-lived
// handlers such as event streams must be ended from here, since Shutdown does
// not cancel in-flight request contexts.
func (s *Server) RegisterOnShutdown(f func()) {
	s.onShutdown = append(s.onShutdown, f)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{Status: "healthy", Checks: make(map[string]string, len(s.checks))}
	code := http.StatusOK
	for _, check := range s.checks {
		if err := check.Target.Ping(ctx); err != nil {
			resp.Checks[check.Name] = "down"
			if check.Required {
				slog.Error("[Server] Health check failed", "dependency", check.Name, "error", err)
				resp.Status = "unhealthy"
				code = http.StatusServiceUnavailable
			} else {
				slog.Warn("[Server] Dependency degraded", "dependency", check.Name, "error", err)
				if resp.Status == "healthy" {
					resp.Status = "degraded"
				}
			}
			continue
		}
		resp.Checks[check.Name] = "up"
	}
	c.JSON(code, resp)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	for _, f := range s.onShutdown {
		srv.RegisterOnShutdown(f)
	}

	slog.Info("[Server] Starting HTTP server", "address", s.Addr)

	errCh := make(chan error, 1)
	go func() {
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

	slog.Info("[Server] Stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Server] HTTP server forced to shutdown", "error", err)
		return err
	}
	return <-errCh
}

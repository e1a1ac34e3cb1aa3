// Package http exposes the operational endpoints of the service: a health
// probe that checks the database and the Prometheus scrape endpoint.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	db       Pinger
	gatherer prometheus.Gatherer
}

func NewServer(db Pinger, gatherer prometheus.Gatherer) *Server {
	return &Server{db: db, gatherer: gatherer}
}

// Register mounts GET /health and GET /metrics on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
}

// Health answers 200 "Healthy" when the database responds, 503 otherwise.
func (s *Server) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		c.Logger().Warnf("health check failed: %v", err)
		return c.String(http.StatusServiceUnavailable, "Unhealthy")
	}
	return c.String(http.StatusOK, "Healthy")
}

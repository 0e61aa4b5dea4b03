// Package httpapi exposes the extraction pipeline over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jobsieve/jobsieve/internal/metrics"
	"github.com/jobsieve/jobsieve/internal/parse"
)

// Server wires the pipeline into a gin router with CORS, request metrics,
// and a Prometheus scrape endpoint.
type Server struct {
	pipeline *parse.Pipeline
	logger   *slog.Logger
	obs      *metrics.Metrics
	engine   *gin.Engine
}

func NewServer(pipeline *parse.Pipeline, logger *slog.Logger, obs *metrics.Metrics) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		pipeline: pipeline,
		logger:   logger,
		obs:      obs,
		engine:   gin.New(),
	}

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	s.engine.Use(gin.Recovery(), cors.New(corsCfg), s.observe())

	api := s.engine.Group("/api/v1")
	{
		api.GET("/health", s.health)
		api.POST("/jobs/extract", s.extractJob)
	}
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(obs.Registry(), promhttp.HandlerOpts{})))

	return s
}

// Handler returns the router for use with an http.Server.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.obs.ObserveRequest(route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

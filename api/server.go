// Package api exposes the simulation runner over a small HTTP API for
// interactive exploration of scenarios and results.
package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/kilianp07/gridtariff/app"
	"github.com/kilianp07/gridtariff/config"
	"github.com/kilianp07/gridtariff/core/simulation"
	"github.com/kilianp07/gridtariff/infra/logger"
)

// Server serves scenario metadata, runs simulations and returns results.
type Server struct {
	cfg *config.Config
	svc *app.Service
	log logger.Logger

	mu     sync.RWMutex
	latest *simulation.Result
}

// NewServer creates a Server around an assembled service.
func NewServer(cfg *config.Config, svc *app.Service) *Server {
	return &Server{cfg: cfg, svc: svc, log: logger.New("api")}
}

// Handler builds the HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.GET("/scenario", s.getScenario)
	v1.POST("/simulate", s.simulate)
	v1.GET("/results/latest", s.latestResult)
	v1.POST("/prepare", s.prepare)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.API.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(router)
}

// ListenAndServe blocks serving the API on the configured address.
func (s *Server) ListenAndServe() error {
	s.log.Infof("results API listening on %s", s.cfg.API.Addr)
	return http.ListenAndServe(s.cfg.API.Addr, s.Handler())
}

func (s *Server) getScenario(c *gin.Context) {
	c.JSON(http.StatusOK, s.cfg.Scenario)
}

func (s *Server) simulate(c *gin.Context) {
	res, err := s.svc.Simulate(c.Request.Context())
	if err != nil {
		s.log.Errorf("simulate: %v", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	s.latest = res
	s.mu.Unlock()
	c.JSON(http.StatusOK, res)
}

func (s *Server) latestResult(c *gin.Context) {
	s.mu.RLock()
	res := s.latest
	s.mu.RUnlock()
	if res == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no result yet"})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) prepare(c *gin.Context) {
	peaks, err := s.svc.PrepareCapacity(c.Request.Context())
	if err != nil {
		s.log.Errorf("prepare: %v", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, peaks)
}

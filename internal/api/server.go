// Package api exposes run control and the application logs over HTTP.
package api

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go-jobpilot-automation/internal/outcome"
	"go-jobpilot-automation/internal/reporter"
)

// RunFunc executes one pipeline run.
type RunFunc func(ctx context.Context) (reporter.Summary, error)

type Server struct {
	ctx context.Context
	log *outcome.Log
	run RunFunc

	mu      sync.Mutex
	running bool
	last    *reporter.Summary
	wg      sync.WaitGroup
}

// New returns a server whose runs live as long as ctx.
func New(ctx context.Context, outcomes *outcome.Log, run RunFunc) *Server {
	return &Server{ctx: ctx, log: outcomes, run: run}
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost},
		AllowHeaders:    []string{"Origin", "Content-Type"},
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "JobPilot API is running!",
			"status":  "healthy",
		})
	})
	r.GET("/outcomes", s.listOutcomes)
	r.GET("/failures", s.listFailures)
	r.GET("/runs/last", s.lastRun)
	r.POST("/runs", s.startRun)
	return r
}

func (s *Server) listOutcomes(c *gin.Context) {
	entries, err := s.log.Outcomes.ReadAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) listFailures(c *gin.Context) {
	failures, err := s.log.Failures.ReadAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, failures)
}

func (s *Server) lastRun(c *gin.Context) {
	s.mu.Lock()
	last := s.last
	running := s.running
	s.mu.Unlock()

	if last == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run has finished yet", "running": running})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": last, "running": running})
}

// startRun allows one run at a time.
func (s *Server) startRun(c *gin.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "a run is already in progress"})
		return
	}
	s.running = true
	s.wg.Add(1)
	s.mu.Unlock()

	go s.execute()
	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

func (s *Server) execute() {
	defer s.wg.Done()

	summary, err := s.run(s.ctx)
	if err != nil {
		log.Printf("❌ Run failed: %v", err)
	}

	s.mu.Lock()
	s.last = &summary
	s.running = false
	s.mu.Unlock()
}

// Wait blocks until the run in progress, if any, has finished.
func (s *Server) Wait() { s.wg.Wait() }

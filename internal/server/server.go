// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amishk599/skillsift/internal/metrics"
	"github.com/amishk599/skillsift/internal/model"
)

const requestIDHeader = "X-Request-ID"

// Service is the analysis backend the HTTP handlers call.
type Service interface {
	Analyze(ctx context.Context, text string) model.AnalysisResult
	GroupSkills(ctx context.Context, skills []string) model.CategoryMap
	GroupSkillLevels(ctx context.Context, skills *model.SkillLevels) model.SkillGroups
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	svc      Service
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// New creates a server. gatherer backs GET /metrics; nil disables the route.
func New(svc Service, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	return &Server{
		svc:      svc,
		metrics:  m,
		gatherer: gatherer,
		logger:   logger.With("component", "http"),
	}
}

// Handler builds the gin engine with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(requestID(), s.requestLogger(), s.metrics.Middleware())

	r.POST("/analyze", s.analyze)
	r.POST("/groupSkills", s.groupSkills)
	r.POST("/groupSkillLevels", s.groupSkillLevels)
	r.GET("/healthz", s.healthz)
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
	return r
}

type analyzeRequest struct {
	Text *string `json:"text" binding:"required"`
}

type groupSkillsRequest struct {
	Skills []string `json:"skills" binding:"required"`
}

type groupSkillLevelsRequest struct {
	Skills *model.SkillLevels `json:"skills" binding:"required"`
}

// analyze is POST /analyze. It always answers 200 for a well-formed body.
func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.svc.Analyze(c.Request.Context(), *req.Text))
}

// groupSkills is POST /groupSkills.
func (s *Server) groupSkills(c *gin.Context) {
	var req groupSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.svc.GroupSkills(c.Request.Context(), req.Skills))
}

// groupSkillLevels is POST /groupSkillLevels.
func (s *Server) groupSkillLevels(c *gin.Context) {
	var req groupSkillLevelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.svc.GroupSkillLevels(c.Request.Context(), req.Skills))
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestID tags every request with an id, reusing the caller's when given.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info("request",
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond).String(),
		)
	}
}

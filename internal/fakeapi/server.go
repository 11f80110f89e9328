// Package fakeapi is an in-memory implementation of the reviews service used
// for tests and local development.
package fakeapi

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/matija2209/alexa-maxa-reviews-sdk/reviews"
)

// Option configures a Server
type Option func(*Server)

// WithClock sets the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithLogger enables request logging
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// Server serves the reviews API from memory. It is safe for concurrent use.
type Server struct {
	apiKey    string
	now       func() time.Time
	logger    zerolog.Logger
	validator *validator.Validate
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec

	mu      sync.RWMutex
	reviews map[string]reviews.Review

	router *gin.Engine
}

// New creates a Server that accepts apiKey as its only bearer token.
func New(apiKey string, opts ...Option) *Server {
	s := &Server{
		apiKey:    apiKey,
		now:       time.Now,
		logger:    zerolog.Nop(),
		validator: validator.New(),
		registry:  prometheus.NewRegistry(),
		reviews:   make(map[string]reviews.Review),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.requests = promauto.With(s.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fake_reviews_http_requests_total",
			Help: "Total number of requests served by the fake reviews service",
		},
		[]string{"method", "route", "status"},
	)

	s.router = s.setupRoutes()
	return s
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Seed stores the given reviews, replacing any with the same ID.
func (s *Server) Seed(items ...reviews.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range items {
		s.reviews[r.ID] = r
	}
}

// Len returns the number of stored reviews
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews)
}

func (s *Server) setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "fake-reviews"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1/reviews")
	api.Use(s.authenticate())
	{
		api.GET("", s.listReviews)
		api.POST("", s.createReview)
		api.GET("/admin", s.listAdminReviews)
		api.GET("/:id", s.getReview)
		api.PATCH("/:id", s.updateReview)
		api.DELETE("/:id", s.deleteReview)
		api.POST("/:id/approve", s.approveReview)
	}

	return router
}

func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token != s.apiKey {
			s.abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing API key")
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.requests.WithLabelValues(c.Request.Method, route, http.StatusText(status)).Inc()

		event := s.logger.Debug()
		if status >= 500 {
			event = s.logger.Error()
		}
		event.
			Str("request_id", c.GetHeader("X-Request-ID")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	}
}

func (s *Server) respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success":   true,
		"data":      data,
		"timestamp": s.now().UTC(),
	})
}

func (s *Server) abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, reviews.ErrorResponse{
		Error: reviews.APIErrorBody{
			Code:      code,
			Message:   message,
			Timestamp: s.now().UTC().Format(time.RFC3339),
			Path:      c.Request.URL.Path,
		},
	})
}

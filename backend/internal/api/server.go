// Package api exposes a System over HTTP. The System itself is single-threaded,
// so every request holds one lock for its whole duration.
package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jackut/backend/internal/graph"
	"jackut/backend/internal/social"
	"jackut/backend/internal/state"
)

// Mirror receives a copy of the state after every explicit save
type Mirror interface {
	Sync(ctx context.Context, snap *state.Snapshot) error
}

// Explorer answers read queries from the mirror. Results reflect the last
// successful save, not the live state.
type Explorer interface {
	SuggestFriends(ctx context.Context, login string, limit int) ([]graph.Suggestion, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]graph.UserMatch, error)
}

// Server is the HTTP facade over one System
type Server struct {
	mu     sync.Mutex
	system *social.System
	mirror Mirror
	logger *zap.Logger
}

// NewServer wraps system. mirror may be nil.
func NewServer(system *social.System, mirror Mirror, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{system: system, mirror: mirror, logger: log}
}

// Do runs fn while holding the request lock, for work outside HTTP such as
// the final save on shutdown
func (s *Server) Do(fn func(sys *social.System) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.system)
}

// Router builds the gin engine with every route registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(s.logger))
	router.Use(gin.Recovery())
	router.Use(cors())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", s.serialize())
	s.registerRoutes(api)
	return router
}

// serialize enforces the single-writer discipline
func (s *Server) serialize() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		c.Next()
	}
}

const tokenKey = "session_token"

// requireSession extracts the bearer token; validity is checked by the System
func requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token", "code": "unknown_session"})
			return
		}
		c.Set(tokenKey, token)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}

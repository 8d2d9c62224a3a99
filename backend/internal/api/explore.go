package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultExploreLimit = 10

func (s *Server) explorer(c *gin.Context) (Explorer, bool) {
	ex, ok := s.mirror.(Explorer)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "graph mirror is not configured", "code": "mirror_unavailable"})
		return nil, false
	}
	return ex, true
}

func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultExploreLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	return limit, true
}

func (s *Server) searchUsers(c *gin.Context) {
	ex, ok := s.explorer(c)
	if !ok {
		return
	}
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	matches, err := ex.SearchUsers(c.Request.Context(), query, limit)
	if err != nil {
		s.logger.Error("Mirror search failed", zap.String("query", query), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "graph mirror query failed", "code": "mirror_unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": matches})
}

func (s *Server) suggestFriends(c *gin.Context) {
	login := c.Param("login")
	// unknown logins are rejected against the live state, not the mirror
	if _, err := s.system.Friends(login); err != nil {
		s.fail(c, err)
		return
	}
	ex, ok := s.explorer(c)
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	suggestions, err := ex.SuggestFriends(c.Request.Context(), login, limit)
	if err != nil {
		s.logger.Error("Mirror suggestions failed", zap.String("login", login), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "graph mirror query failed", "code": "mirror_unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": suggestions})
}

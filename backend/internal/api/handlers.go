package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jackut/backend/internal/codec"
	"jackut/backend/internal/graph"
)

func (s *Server) registerRoutes(api *gin.RouterGroup) {
	api.POST("/accounts", s.register)
	api.POST("/sessions", s.openSession)

	// public queries by login
	accounts := api.Group("/accounts/:login")
	{
		accounts.GET("/attributes/:key", s.getAttribute)
		accounts.GET("/friends", s.listFriends)
		accounts.GET("/friends/:other", s.areFriends)
		accounts.GET("/pending", s.listPending)
		accounts.GET("/sent", s.listSent)
		accounts.GET("/idols", s.listIdols)
		accounts.GET("/idols/:other", s.isFan)
		accounts.GET("/fans", s.listFans)
		accounts.GET("/enemies", s.listEnemies)
		accounts.GET("/enemies/:other", s.isEnemy)
		accounts.GET("/communities", s.listCommunities)
		accounts.POST("/notes", requireSession(), s.sendNote)
	}

	api.GET("/communities/:name", s.getCommunity)

	// everything acting on behalf of a session
	me := api.Group("/me", requireSession())
	{
		me.DELETE("", s.removeAccount)
		me.GET("/attributes/:key", s.getOwnAttribute)
		me.PUT("/attributes/:key", s.setAttribute)
		me.POST("/friends/:login", s.requestFriend)
		me.POST("/notes/read", s.readNote)
		me.POST("/broadcasts/read", s.readBroadcast)
		me.POST("/idols/:login", s.addIdol)
		me.POST("/crushes/:login", s.addCrush)
		me.GET("/crushes", s.listCrushes)
		me.GET("/crushes/:login", s.isCrush)
		me.POST("/enemies/:login", s.addEnemy)
	}

	communities := api.Group("/communities", requireSession())
	{
		communities.POST("", s.createCommunity)
		communities.POST("/:name/members", s.joinCommunity)
		communities.POST("/:name/broadcasts", s.broadcast)
	}

	explore := api.Group("/explore")
	{
		explore.GET("/users", s.searchUsers)
		explore.GET("/suggestions/:login", s.suggestFriends)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/save", s.save)
		admin.POST("/reset", s.reset)
	}
}

// ============================================================================
// Accounts and sessions
// ============================================================================

func (s *Server) register(c *gin.Context) {
	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.system.Register(req.Login, req.Password, req.Name); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"login": req.Login})
}

func (s *Server) openSession(c *gin.Context) {
	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := s.system.OpenSession(req.Login, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (s *Server) getAttribute(c *gin.Context) {
	value, err := s.system.Attribute(c.Param("login"), c.Param("key"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": value})
}

func (s *Server) getOwnAttribute(c *gin.Context) {
	value, err := s.system.SessionAttribute(sessionToken(c), c.Param("key"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": value})
}

func (s *Server) setAttribute(c *gin.Context) {
	var req struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.system.SetAttribute(sessionToken(c), c.Param("key"), req.Value); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (s *Server) removeAccount(c *gin.Context) {
	stats, err := s.system.RemoveAccount(sessionToken(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"edges":       stats.Edges,
		"communities": stats.Communities,
		"notes":       stats.Notes,
		"sessions":    stats.Sessions,
	})
}

// ============================================================================
// Relations
// ============================================================================

func (s *Server) requestFriend(c *gin.Context) {
	outcome, err := s.system.RequestFriend(sessionToken(c), c.Param("login"))
	if err != nil {
		s.fail(c, err)
		return
	}
	result := "request_sent"
	if outcome == graph.FriendshipFormed {
		result = "friendship_formed"
	}
	c.JSON(http.StatusOK, gin.H{"outcome": result})
}

func (s *Server) addIdol(c *gin.Context) {
	s.relate(c, s.system.AddIdol)
}

func (s *Server) addCrush(c *gin.Context) {
	s.relate(c, s.system.AddCrush)
}

func (s *Server) addEnemy(c *gin.Context) {
	s.relate(c, s.system.AddEnemy)
}

func (s *Server) relate(c *gin.Context, add func(token, other string) error) {
	if err := add(sessionToken(c), c.Param("login")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

func (s *Server) areFriends(c *gin.Context) {
	ok, err := s.system.AreFriends(c.Param("login"), c.Param("other"))
	s.check(c, ok, err)
}

func (s *Server) isFan(c *gin.Context) {
	ok, err := s.system.IsFan(c.Param("login"), c.Param("other"))
	s.check(c, ok, err)
}

func (s *Server) isEnemy(c *gin.Context) {
	ok, err := s.system.IsEnemy(c.Param("login"), c.Param("other"))
	s.check(c, ok, err)
}

func (s *Server) isCrush(c *gin.Context) {
	ok, err := s.system.IsCrush(sessionToken(c), c.Param("login"))
	s.check(c, ok, err)
}

func (s *Server) check(c *gin.Context, ok bool, err error) {
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": ok})
}

func (s *Server) listFriends(c *gin.Context) {
	items, err := s.system.Friends(c.Param("login"))
	s.list(c, items, err)
}

func (s *Server) listPending(c *gin.Context) {
	items, err := s.system.PendingRequests(c.Param("login"))
	s.list(c, items, err)
}

func (s *Server) listSent(c *gin.Context) {
	items, err := s.system.SentRequests(c.Param("login"))
	s.list(c, items, err)
}

func (s *Server) listIdols(c *gin.Context) {
	items, err := s.system.Idols(c.Param("login"))
	s.list(c, items, err)
}

func (s *Server) listFans(c *gin.Context) {
	items, err := s.system.Fans(c.Param("login"))
	s.list(c, items, err)
}

func (s *Server) listEnemies(c *gin.Context) {
	items, err := s.system.Enemies(c.Param("login"))
	s.list(c, items, err)
}

func (s *Server) listCrushes(c *gin.Context) {
	items, err := s.system.Crushes(sessionToken(c))
	s.list(c, items, err)
}

func (s *Server) listCommunities(c *gin.Context) {
	items, err := s.system.Communities(c.Param("login"))
	s.list(c, items, err)
}

// list answers with the items and their {a,b} display form
func (s *Server) list(c *gin.Context, items []string, err error) {
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "display": codec.FormatList(items)})
}

// ============================================================================
// Messages
// ============================================================================

func (s *Server) sendNote(c *gin.Context) {
	var req struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.system.SendNote(sessionToken(c), c.Param("login"), req.Body); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "sent"})
}

func (s *Server) readNote(c *gin.Context) {
	body, err := s.system.ReadNote(sessionToken(c))
	s.read(c, body, err)
}

func (s *Server) readBroadcast(c *gin.Context) {
	body, err := s.system.ReadBroadcast(sessionToken(c))
	s.read(c, body, err)
}

func (s *Server) read(c *gin.Context, body string, err error) {
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"body": body})
}

// ============================================================================
// Communities
// ============================================================================

func (s *Server) createCommunity(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.system.CreateCommunity(sessionToken(c), req.Name, req.Description); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": req.Name})
}

func (s *Server) getCommunity(c *gin.Context) {
	name := c.Param("name")
	owner, err := s.system.CommunityOwner(name)
	if err != nil {
		s.fail(c, err)
		return
	}
	description, _ := s.system.CommunityDescription(name)
	members, _ := s.system.CommunityMembers(name)

	c.JSON(http.StatusOK, gin.H{
		"name":        name,
		"owner":       owner,
		"description": description,
		"members":     members,
	})
}

func (s *Server) joinCommunity(c *gin.Context) {
	if err := s.system.JoinCommunity(sessionToken(c), c.Param("name")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "joined"})
}

func (s *Server) broadcast(c *gin.Context) {
	var req struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.system.Broadcast(sessionToken(c), c.Param("name"), req.Body); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "sent"})
}

// ============================================================================
// Admin
// ============================================================================

func (s *Server) save(c *gin.Context) {
	ctx := c.Request.Context()
	if err := s.system.Save(ctx); err != nil {
		s.fail(c, err)
		return
	}
	mirrored := false
	if s.mirror != nil {
		if err := s.mirror.Sync(ctx, s.system.Export()); err != nil {
			// the mirror is best effort; the store already has the data
			s.logger.Warn("Failed to sync graph mirror", zap.Error(err))
		} else {
			mirrored = true
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved", "mirrored": mirrored})
}

func (s *Server) reset(c *gin.Context) {
	if err := s.system.ResetAll(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

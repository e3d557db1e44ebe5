package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReloadState discards in-memory collections and loads them again from the
// configured source. Registered outside production only.
func (s *Server) ReloadState(c *gin.Context) {
	if s.cfg.IsProduction() {
		AbortWithError(c, ErrNotFound)
		return
	}
	if err := s.store.Bootstrap(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"is_authenticated": s.store.IsAuthenticated()}})
}

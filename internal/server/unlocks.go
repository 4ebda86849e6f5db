package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetUnlock(c *gin.Context) {
	actor := s.actor(c)
	providerID, err := parseProviderID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if actor.Anonymous() {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"unlocked": false}})
		return
	}

	unlocked, err := s.unlockSvc.HasUnlock(c.Request.Context(), actor.ID, providerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"unlocked": unlocked}})
}

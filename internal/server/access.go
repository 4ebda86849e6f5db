package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetAccess(c *gin.Context) {
	actor := s.actor(c)

	decision, err := s.entitlementSvc.Resolve(c.Request.Context(), actor.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": decision})
}

func (s *Server) GetProviderAccess(c *gin.Context) {
	actor := s.actor(c)
	providerID, err := parseProviderID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	decision, err := s.entitlementSvc.ResolveForProvider(c.Request.Context(), actor.ID, providerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": decision})
}

func (s *Server) RecordProviderView(c *gin.Context) {
	actor := s.actor(c)
	if actor.Anonymous() {
		// Anonymous browsing is unmetered; there is nothing to record.
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"recorded": false}})
		return
	}

	providerID, err := parseProviderID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.entitlementSvc.RecordView(c.Request.Context(), actor.ID, providerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"recorded": result.IsNewView,
		"view_day": result.Record.ViewDay,
	}})
}

func (s *Server) CancelSubscription(c *gin.Context) {
	actor := s.actor(c)
	if actor.Anonymous() {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.subscriptionSvc.Cancel(c.Request.Context(), actor.ID); err != nil {
		AbortWithError(c, err)
		return
	}
	s.accessCache.Invalidate(actor.ID)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"canceled": true}})
}

func parseProviderID(c *gin.Context) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return 0, ErrInvalidRequest
	}
	return id, nil
}

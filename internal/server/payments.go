package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	paymentdomain "github.com/hudumahub/huduma/internal/payment/domain"
	"go.uber.org/zap"
)

type startPaymentRequest struct {
	Purpose     string `json:"purpose"`
	Method      string `json:"method"`
	ProviderID  string `json:"provider_id"`
	PhoneNumber string `json:"phone_number"`
	Operator    string `json:"operator"`
}

func (s *Server) StartPayment(c *gin.Context) {
	actor := s.actor(c)
	if actor.Anonymous() {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req startPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var providerID snowflake.ID
	if raw := strings.TrimSpace(req.ProviderID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		providerID = parsed
	}

	if s.paymentLimiter.Enabled() {
		allowed, err := s.paymentLimiter.AllowStart(c.Request.Context(), actor.ID)
		if err != nil {
			// A broken limiter must not take payments down with it.
			s.log.Warn("payment rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
	}

	session, err := s.paymentSvc.StartPayment(c.Request.Context(), paymentdomain.StartPaymentRequest{
		ClientID:    actor.ID,
		ProviderID:  providerID,
		Purpose:     paymentdomain.Purpose(strings.TrimSpace(req.Purpose)),
		Method:      paymentdomain.Method(strings.TrimSpace(req.Method)),
		PhoneNumber: req.PhoneNumber,
		Operator:    req.Operator,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": session})
}

func (s *Server) GetPayment(c *gin.Context) {
	actor := s.actor(c)
	sessionID, err := parseSessionID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	session, err := s.paymentSvc.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if session.ClientID != actor.ID {
		// Sessions are private to their owner; leak nothing.
		AbortWithError(c, paymentdomain.ErrSessionNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

func (s *Server) SettlePayment(c *gin.Context) {
	actor := s.actor(c)
	sessionID, err := parseSessionID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	session, err := s.paymentSvc.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if session.ClientID != actor.ID {
		AbortWithError(c, paymentdomain.ErrSessionNotFound)
		return
	}

	result, err := s.paymentSvc.Settle(c.Request.Context(), sessionID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result.Session})
}

func parseSessionID(c *gin.Context) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return 0, ErrInvalidRequest
	}
	return id, nil
}

package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/hudumahub/huduma/internal/identity"
)

const (
	HeaderClientID   = "X-Client-ID"
	HeaderClientName = "X-Client-Name"
)

// ClientContext resolves the caller from the trusted identity headers set by
// the session layer in front of this service. A missing header means an
// anonymous caller, which is a valid, unmetered state.
func (s *Server) ClientContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderClientID))
		if raw == "" {
			c.Next()
			return
		}

		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		actor := identity.Actor{
			Kind: identity.ActorKindClient,
			ID:   id,
			Name: strings.TrimSpace(c.GetHeader(HeaderClientName)),
		}
		c.Request = c.Request.WithContext(identity.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

func (s *Server) actor(c *gin.Context) identity.Actor {
	actor, ok := identity.ActorFromContext(c.Request.Context())
	if !ok {
		return identity.Actor{}
	}
	return actor
}

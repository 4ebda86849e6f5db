package cache

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hudumahub/huduma/internal/clock"
	"github.com/hudumahub/huduma/internal/config"
	entitlementdomain "github.com/hudumahub/huduma/internal/entitlement/domain"
	"go.uber.org/fx"
)

// AccessCache memoizes access decisions per client. Entries are keyed by the
// owning client, so a cached decision is never served to anyone else.
// Mutations that change entitlement must Invalidate or Patch; expiry alone is
// not enough to avoid a stale "blocked" flash.
type AccessCache interface {
	Get(clientID snowflake.ID) (entitlementdomain.AccessDecision, bool)
	Set(clientID snowflake.ID, decision entitlementdomain.AccessDecision)
	Patch(clientID snowflake.ID, patch func(*entitlementdomain.AccessDecision))
	Invalidate(clientID snowflake.ID)
}

type accessCache struct {
	decisions Cache[snowflake.ID, entitlementdomain.AccessDecision]
	policy    *config.PolicyHolder
}

func NewAccessCache(clk clock.Clock, policy *config.PolicyHolder) AccessCache {
	return &accessCache{
		decisions: NewTTLCacheWithNow[snowflake.ID, entitlementdomain.AccessDecision](clk.Now),
		policy:    policy,
	}
}

func (c *accessCache) Get(clientID snowflake.ID) (entitlementdomain.AccessDecision, bool) {
	if clientID == 0 {
		return entitlementdomain.AccessDecision{}, false
	}
	return c.decisions.Get(clientID)
}

func (c *accessCache) Set(clientID snowflake.ID, decision entitlementdomain.AccessDecision) {
	if clientID == 0 {
		return
	}
	c.decisions.Set(clientID, decision, c.ttl())
}

// Patch rewrites the cached decision in place, keeping the remaining TTL
// semantics simple: the patched entry gets a fresh TTL, which is safe because
// it reflects storage state that is at least as new as the original entry.
func (c *accessCache) Patch(clientID snowflake.ID, patch func(*entitlementdomain.AccessDecision)) {
	if clientID == 0 || patch == nil {
		return
	}
	decision, ok := c.decisions.Get(clientID)
	if !ok {
		return
	}
	patch(&decision)
	c.decisions.Set(clientID, decision, c.ttl())
}

func (c *accessCache) Invalidate(clientID snowflake.ID) {
	if clientID == 0 {
		return
	}
	c.decisions.Delete(clientID)
}

func (c *accessCache) ttl() time.Duration {
	if c.policy == nil {
		return 5 * time.Minute
	}
	return c.policy.Get().CacheTTL
}

var Module = fx.Module("cache",
	fx.Provide(NewAccessCache),
)

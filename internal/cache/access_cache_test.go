package cache

import (
	"testing"
	"time"

	"github.com/hudumahub/huduma/internal/clock"
	"github.com/hudumahub/huduma/internal/config"
	entitlementdomain "github.com/hudumahub/huduma/internal/entitlement/domain"
)

func TestTTLCacheExpiry(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC))
	c := NewTTLCacheWithNow[string, int](clk.Now)

	c.Set("a", 1, time.Minute)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected fresh entry, got %v %v", v, ok)
	}

	clk.Advance(59 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("entry expired early")
	}

	clk.Advance(2 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestTTLCacheZeroTTLNotStored(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC))
	c := NewTTLCacheWithNow[string, int](clk.Now)

	c.Set("a", 1, 0)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("zero TTL entry must not be stored")
	}
}

func TestAccessCachePatchAndInvalidate(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC))
	policy := config.NewStaticPolicyHolder(config.DefaultPolicy())
	c := NewAccessCache(clk, policy)

	c.Set(100, entitlementdomain.AccessDecision{
		DailyViewsCount: 1,
		DailyViewsLimit: 3,
		CanViewMore:     true,
	})

	c.Patch(100, func(d *entitlementdomain.AccessDecision) {
		d.DailyViewsCount++
		d.CanViewMore = d.HasActiveSubscription || d.DailyViewsCount < d.DailyViewsLimit
	})

	decision, ok := c.Get(100)
	if !ok {
		t.Fatalf("expected patched entry")
	}
	if decision.DailyViewsCount != 2 || !decision.CanViewMore {
		t.Fatalf("unexpected patched decision %+v", decision)
	}

	// Patching a missing entry is a no-op, not an insert.
	c.Patch(200, func(d *entitlementdomain.AccessDecision) { d.DailyViewsCount = 99 })
	if _, ok := c.Get(200); ok {
		t.Fatalf("patch must not create entries")
	}

	c.Invalidate(100)
	if _, ok := c.Get(100); ok {
		t.Fatalf("expected entry removed after invalidation")
	}
}

func TestAccessCacheAnonymousNeverCached(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC))
	c := NewAccessCache(clk, config.NewStaticPolicyHolder(config.DefaultPolicy()))

	c.Set(0, entitlementdomain.AccessDecision{CanViewMore: true})
	if _, ok := c.Get(0); ok {
		t.Fatalf("anonymous decisions must not be cached")
	}
}

func TestAccessCacheHonoursPolicyTTL(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC))
	policy := config.DefaultPolicy()
	policy.CacheTTL = 10 * time.Second
	c := NewAccessCache(clk, config.NewStaticPolicyHolder(policy))

	c.Set(100, entitlementdomain.AccessDecision{CanViewMore: true})
	clk.Advance(11 * time.Second)
	if _, ok := c.Get(100); ok {
		t.Fatalf("expected entry to expire with policy TTL")
	}
}

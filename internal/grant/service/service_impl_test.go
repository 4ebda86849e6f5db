package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hudumahub/huduma/internal/clock"
	"github.com/hudumahub/huduma/internal/config"
	entitlementdomain "github.com/hudumahub/huduma/internal/entitlement/domain"
	"github.com/hudumahub/huduma/internal/grant/domain"
	paymentdomain "github.com/hudumahub/huduma/internal/payment/domain"
	subscriptiondomain "github.com/hudumahub/huduma/internal/subscription/domain"
	unlockdomain "github.com/hudumahub/huduma/internal/unlock/domain"
	"go.uber.org/zap"
)

// events records ledger writes and cache invalidations in call order.
type events struct {
	order []string
}

type subscriptionStub struct {
	events   *events
	applyErr error
	applied  []subscriptiondomain.ApplyPeriodRequest
}

func (s *subscriptionStub) GetByClientID(context.Context, snowflake.ID) (*subscriptiondomain.SubscriptionRecord, error) {
	return nil, nil
}

func (s *subscriptionStub) ApplyPeriod(_ context.Context, req subscriptiondomain.ApplyPeriodRequest) (*subscriptiondomain.SubscriptionRecord, error) {
	if s.applyErr != nil {
		return nil, s.applyErr
	}
	s.applied = append(s.applied, req)
	s.events.order = append(s.events.order, "subscription")
	return &subscriptiondomain.SubscriptionRecord{ClientID: req.ClientID, Active: true}, nil
}

func (s *subscriptionStub) Cancel(context.Context, snowflake.ID) error { return nil }

type unlockStub struct {
	events   *events
	grantErr error
	granted  []unlockdomain.GrantUnlockRequest
}

func (u *unlockStub) HasUnlock(context.Context, snowflake.ID, snowflake.ID) (bool, error) {
	return false, nil
}

func (u *unlockStub) GrantUnlock(_ context.Context, req unlockdomain.GrantUnlockRequest) (*unlockdomain.UnlockRecord, error) {
	if u.grantErr != nil {
		return nil, u.grantErr
	}
	u.granted = append(u.granted, req)
	u.events.order = append(u.events.order, "unlock")
	return &unlockdomain.UnlockRecord{ClientID: req.ClientID, ProviderID: req.ProviderID}, nil
}

type cacheStub struct {
	events      *events
	invalidated []snowflake.ID
}

func (c *cacheStub) Get(snowflake.ID) (entitlementdomain.AccessDecision, bool) {
	return entitlementdomain.AccessDecision{}, false
}

func (c *cacheStub) Set(snowflake.ID, entitlementdomain.AccessDecision) {}

func (c *cacheStub) Patch(snowflake.ID, func(*entitlementdomain.AccessDecision)) {}

func (c *cacheStub) Invalidate(clientID snowflake.ID) {
	c.invalidated = append(c.invalidated, clientID)
	c.events.order = append(c.events.order, "invalidate")
}

func setupGrantService(t *testing.T) (domain.Service, *subscriptionStub, *unlockStub, *cacheStub, *events) {
	t.Helper()

	ev := &events{}
	subs := &subscriptionStub{events: ev}
	unlocks := &unlockStub{events: ev}
	cacheStub := &cacheStub{events: ev}

	svc := NewService(ServiceParam{
		Log:           zap.NewNop(),
		Clock:         clock.NewFakeClock(time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)),
		Policy:        config.NewStaticPolicyHolder(config.DefaultPolicy()),
		Subscriptions: subs,
		Unlocks:       unlocks,
		Cache:         cacheStub,
	})
	return svc, subs, unlocks, cacheStub, ev
}

func TestApplySubscriptionGrant(t *testing.T) {
	svc, subs, _, cacheStub, ev := setupGrantService(t)

	err := svc.Apply(context.Background(), domain.Request{
		ClientID:  100,
		Purpose:   paymentdomain.PurposeSubscription,
		Reference: "ref_1",
		Amount:    50000,
		Currency:  "KES",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if len(subs.applied) != 1 {
		t.Fatalf("expected 1 period application, got %d", len(subs.applied))
	}
	applied := subs.applied[0]
	wantEnd := applied.Start.AddDate(0, 0, config.DefaultPolicy().SubscriptionPeriodDays)
	if !applied.End.Equal(wantEnd) {
		t.Fatalf("expected period end %v, got %v", wantEnd, applied.End)
	}
	if len(cacheStub.invalidated) != 1 || cacheStub.invalidated[0] != 100 {
		t.Fatalf("expected cache invalidated for client, got %v", cacheStub.invalidated)
	}
	if len(ev.order) != 2 || ev.order[0] != "subscription" || ev.order[1] != "invalidate" {
		t.Fatalf("expected ledger write before invalidation, got %v", ev.order)
	}
}

func TestApplyContactUnlockGrant(t *testing.T) {
	svc, _, unlocks, cacheStub, ev := setupGrantService(t)

	err := svc.Apply(context.Background(), domain.Request{
		ClientID:   100,
		ProviderID: 200,
		Purpose:    paymentdomain.PurposeContactUnlock,
		Reference:  "ref_2",
		Amount:     20000,
		Currency:   "KES",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if len(unlocks.granted) != 1 {
		t.Fatalf("expected 1 unlock grant, got %d", len(unlocks.granted))
	}
	granted := unlocks.granted[0]
	if granted.ClientID != 100 || granted.ProviderID != 200 {
		t.Fatalf("unexpected unlock request %+v", granted)
	}
	if len(cacheStub.invalidated) != 1 {
		t.Fatalf("expected cache invalidated, got %v", cacheStub.invalidated)
	}
	if len(ev.order) != 2 || ev.order[0] != "unlock" || ev.order[1] != "invalidate" {
		t.Fatalf("expected ledger write before invalidation, got %v", ev.order)
	}
}

func TestApplyLedgerErrorSkipsInvalidation(t *testing.T) {
	svc, subs, _, cacheStub, _ := setupGrantService(t)
	subs.applyErr = errors.New("db unavailable")

	err := svc.Apply(context.Background(), domain.Request{
		ClientID: 100,
		Purpose:  paymentdomain.PurposeSubscription,
	})
	if err == nil {
		t.Fatalf("expected ledger error to propagate")
	}
	if len(cacheStub.invalidated) != 0 {
		t.Fatalf("expected no invalidation on ledger failure")
	}
}

func TestApplyUnknownPurpose(t *testing.T) {
	svc, _, _, _, _ := setupGrantService(t)

	err := svc.Apply(context.Background(), domain.Request{
		ClientID: 100,
		Purpose:  paymentdomain.Purpose("airtime_topup"),
	})
	if !errors.Is(err, domain.ErrUnknownPurpose) {
		t.Fatalf("expected unknown purpose, got %v", err)
	}
}

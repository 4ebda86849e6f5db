package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Policy carries the monetization constants: free-view quota, prices,
// settlement polling budget and cache TTL. Amounts are in minor currency
// units.
type Policy struct {
	DailyFreeViewLimit     int           `mapstructure:"dailyFreeViewLimit"`
	SubscriptionAmount     int64         `mapstructure:"subscriptionAmount"`
	SubscriptionPeriodDays int           `mapstructure:"subscriptionPeriodDays"`
	ContactUnlockAmount    int64         `mapstructure:"contactUnlockAmount"`
	Currency               string        `mapstructure:"currency"`
	PollInterval           time.Duration `mapstructure:"pollInterval"`
	MaxPollAttempts        int           `mapstructure:"maxPollAttempts"`
	CacheTTL               time.Duration `mapstructure:"cacheTTL"`
}

func DefaultPolicy() Policy {
	return Policy{
		DailyFreeViewLimit:     3,
		SubscriptionAmount:     50000,
		SubscriptionPeriodDays: 30,
		ContactUnlockAmount:    20000,
		Currency:               "KES",
		PollInterval:           3 * time.Second,
		MaxPollAttempts:        20,
		CacheTTL:               5 * time.Minute,
	}
}

// PolicyHolder exposes the current policy and hot-reloads it when the
// underlying file changes. Invalid reloads are ignored and the last good
// policy stays in effect.
type PolicyHolder struct {
	current atomic.Value // holds Policy
}

func NewPolicyHolder() (*PolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("policy")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/huduma")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HUDUMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPolicy()
	v.SetDefault("policy.dailyFreeViewLimit", defaults.DailyFreeViewLimit)
	v.SetDefault("policy.subscriptionAmount", defaults.SubscriptionAmount)
	v.SetDefault("policy.subscriptionPeriodDays", defaults.SubscriptionPeriodDays)
	v.SetDefault("policy.contactUnlockAmount", defaults.ContactUnlockAmount)
	v.SetDefault("policy.currency", defaults.Currency)
	v.SetDefault("policy.pollInterval", defaults.PollInterval)
	v.SetDefault("policy.maxPollAttempts", defaults.MaxPollAttempts)
	v.SetDefault("policy.cacheTTL", defaults.CacheTTL)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var policy Policy
	if err := v.UnmarshalKey("policy", &policy); err != nil {
		return nil, err
	}
	if err := validatePolicy(policy); err != nil {
		return nil, err
	}

	holder := &PolicyHolder{}
	holder.current.Store(policy)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated Policy
		if err := v.UnmarshalKey("policy", &updated); err != nil {
			log.Printf("[policy] reload failed: %v", err)
			return
		}
		if err := validatePolicy(updated); err != nil {
			log.Printf("[policy] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[policy] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPolicyHolder returns a holder pinned to the given policy. Used by
// tests and tools that must not watch the filesystem.
func NewStaticPolicyHolder(policy Policy) *PolicyHolder {
	holder := &PolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func (h *PolicyHolder) Get() Policy {
	return h.current.Load().(Policy)
}

func validatePolicy(policy Policy) error {
	if policy.DailyFreeViewLimit <= 0 {
		return errors.New("policy.dailyFreeViewLimit must be positive")
	}
	if policy.SubscriptionAmount <= 0 || policy.ContactUnlockAmount <= 0 {
		return errors.New("policy amounts must be positive")
	}
	if policy.SubscriptionPeriodDays <= 0 {
		return errors.New("policy.subscriptionPeriodDays must be positive")
	}
	if policy.PollInterval <= 0 || policy.MaxPollAttempts <= 0 {
		return errors.New("policy polling budget must be positive")
	}
	if policy.CacheTTL <= 0 {
		return errors.New("policy.cacheTTL must be positive")
	}
	if strings.TrimSpace(policy.Currency) == "" {
		return errors.New("policy.currency cannot be empty")
	}
	return nil
}

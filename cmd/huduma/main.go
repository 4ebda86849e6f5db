package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/hudumahub/huduma/internal/cache"
	"github.com/hudumahub/huduma/internal/clock"
	"github.com/hudumahub/huduma/internal/config"
	"github.com/hudumahub/huduma/internal/entitlement"
	"github.com/hudumahub/huduma/internal/grant"
	"github.com/hudumahub/huduma/internal/logger"
	"github.com/hudumahub/huduma/internal/metrics"
	"github.com/hudumahub/huduma/internal/migration"
	"github.com/hudumahub/huduma/internal/payment"
	"github.com/hudumahub/huduma/internal/quota"
	"github.com/hudumahub/huduma/internal/ratelimit"
	"github.com/hudumahub/huduma/internal/server"
	"github.com/hudumahub/huduma/internal/subscription"
	"github.com/hudumahub/huduma/internal/unlock"
	"github.com/hudumahub/huduma/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		db.Module,
		migration.Module,
		metrics.Module,
		cache.Module,
		ratelimit.Module,

		quota.Module,
		subscription.Module,
		unlock.Module,
		entitlement.Module,
		grant.Module,
		payment.Module,

		server.Module,

		fx.Provide(RegisterSnowflake),
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

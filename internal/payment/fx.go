package payment

import (
	"github.com/hudumahub/huduma/internal/config"
	"github.com/hudumahub/huduma/internal/payment/processor"
	"github.com/hudumahub/huduma/internal/payment/repository"
	"github.com/hudumahub/huduma/internal/payment/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(func(cfg config.Config, log *zap.Logger) *processor.Registry {
		return processor.NewRegistry(
			processor.NewGatewayClient(cfg, log),
			processor.NewSimulatedCardAcquirer(),
		)
	}),
	fx.Provide(service.NewService),
)

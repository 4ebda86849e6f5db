package subscription

import (
	"github.com/hudumahub/huduma/internal/subscription/repository"
	"github.com/hudumahub/huduma/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

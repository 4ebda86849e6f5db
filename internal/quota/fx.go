package quota

import (
	"github.com/hudumahub/huduma/internal/quota/repository"
	"github.com/hudumahub/huduma/internal/quota/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quota.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

package unlock

import (
	"github.com/hudumahub/huduma/internal/unlock/repository"
	"github.com/hudumahub/huduma/internal/unlock/service"
	"go.uber.org/fx"
)

var Module = fx.Module("unlock.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

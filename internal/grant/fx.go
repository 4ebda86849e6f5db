package grant

import (
	"github.com/hudumahub/huduma/internal/grant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("grant.service",
	fx.Provide(service.NewService),
)

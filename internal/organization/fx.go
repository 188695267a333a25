package organization

import (
	"github.com/qline-io/qline/internal/organization/repository"
	"github.com/qline-io/qline/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)

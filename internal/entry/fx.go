package entry

import (
	"github.com/qline-io/qline/internal/entry/repository"
	"github.com/qline-io/qline/internal/entry/service"
	"go.uber.org/fx"
)

var Module = fx.Module("entry.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)

package journal

import (
	"github.com/qline-io/qline/internal/journal/repository"
	"github.com/qline-io/qline/internal/journal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("journal.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)

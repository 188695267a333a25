package queue

import (
	"github.com/qline-io/qline/internal/queue/repository"
	"github.com/qline-io/qline/internal/queue/service"
	"go.uber.org/fx"
)

var Module = fx.Module("queue.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)

package auth

import (
	"github.com/qline-io/qline/internal/auth/repository"
	"github.com/qline-io/qline/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)

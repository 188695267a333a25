package integration

import (
	"github.com/qline-io/qline/internal/integration/converter"
	"github.com/qline-io/qline/internal/integration/service"
	"go.uber.org/fx"
)

var Module = fx.Module("integration.service",
	fx.Provide(converter.NewRegistry),
	fx.Provide(service.NewService),
)

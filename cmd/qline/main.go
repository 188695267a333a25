package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/qline-io/qline/internal/config"
	"github.com/qline-io/qline/internal/migration"
	"github.com/qline-io/qline/internal/observability"
	"github.com/qline-io/qline/internal/server"
	"github.com/qline-io/qline/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

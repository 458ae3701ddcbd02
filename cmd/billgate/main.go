package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/helioslabs/billgate/internal/config"
	"github.com/helioslabs/billgate/internal/migration"
	"github.com/helioslabs/billgate/internal/observability"
	"github.com/helioslabs/billgate/internal/server"
	"github.com/helioslabs/billgate/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// HTTP surface plus the billing domains it wires in
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

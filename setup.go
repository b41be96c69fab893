package main

import (
	"context"
	"os"

	"github.com/FlagBrew/local-pokedex/internal/catalog"
	"github.com/FlagBrew/local-pokedex/internal/database"
	"github.com/FlagBrew/local-pokedex/internal/utils"
	"github.com/apex/log"
	"github.com/joho/godotenv"
)

func setup() context.Context {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	cli.Parse()
	logger = cli.Logger
	if cli.Flags.LogFormat == "json" {
		cli.Logger = utils.NewLogger(log.InfoLevel, cli.Debug, "json", os.Stderr)
		logger = cli.Logger
	}

	ctx := log.NewContext(context.Background(), logger)
	cfg = utils.Setup(ctx, cli.Flags.Mode, cli.Flags.Config)

	db = database.New(ctx, &cfg.Database)
	ctx = database.NewContext(ctx, db)

	database.Migrate(ctx)

	svc = catalog.New(db)
	ctx = catalog.NewContext(ctx, svc)

	utils.SeedOnStart(ctx, cfg, cli.Flags.Config, cli.Flags.Seed)

	return ctx
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/FlagBrew/local-pokedex/internal/catalog"
	"github.com/FlagBrew/local-pokedex/internal/database"
	"github.com/FlagBrew/local-pokedex/internal/middleware"
	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/apex/log"
	"github.com/lrstanley/chix"
	"github.com/lrstanley/clix"
)

const tokenTTL = 30 * 24 * time.Hour

var (
	cli    = &clix.CLI[models.Flags]{}
	logger log.Interface
	db     *database.Client
	svc    *catalog.Service
	cfg    *models.Config
)

func main() {
	ctx := setup()
	defer db.Close()

	auth := middleware.NewAuth(&cfg.Auth)

	if user := cli.Flags.IssueToken; user != "" {
		token, err := auth.Issue(user, []string{cfg.Auth.AdminRole}, tokenTTL)
		if err != nil {
			logger.WithError(err).Fatal("failed to issue token")
		}
		fmt.Fprintln(os.Stdout, token)
		return
	}

	logger.Infof("Starting HTTP server on %s:%d", cfg.HTTP.ListeningAddr, cfg.HTTP.Port)
	if err := chix.RunContext(ctx, httpServer(ctx, auth)); err != nil {
		logger.WithError(err).Error("http server stopped")
	}
}

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/FlagBrew/local-pokedex/internal/handlers/packs"
	"github.com/FlagBrew/local-pokedex/internal/handlers/pokemon"
	"github.com/FlagBrew/local-pokedex/internal/handlers/regions"
	authmw "github.com/FlagBrew/local-pokedex/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/lrstanley/chix"
)

func httpServer(ctx context.Context, auth *authmw.Auth) *http.Server {
	chix.DefaultAPIPrefix = "/api/"

	r := chi.NewRouter()

	r.Use(
		chix.UseContextIP,
		middleware.RequestID,
		chix.UseStructuredLogger(logger),
		chix.UseDebug(cli.Debug),
		chix.UseRecoverer,
		middleware.Compress(5),
		middleware.Maybe(middleware.StripSlashes, func(r *http.Request) bool {
			return !strings.HasPrefix(r.URL.Path, "/debug/")
		}),
		chix.UseNextURL,
	)

	if cli.Debug {
		r.Mount("/debug", middleware.Profiler())
	}

	upload := cfg.HTTP.UploadLimit()

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.HTTP.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.HTTP.RateLimit, time.Minute))
		}
		r.Use(auth.Authenticate, authmw.RequireRole(cfg.Auth.AdminRole))

		r.Route("/packs", packs.NewHandler(upload).Route)
		r.Route("/pokemon", pokemon.NewHandler(upload).Route)
		r.Route("/regions", regions.NewHandler().Route)
	})

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.ListeningAddr, cfg.HTTP.Port),
		Handler: r,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
		// Some sane defaults.
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}

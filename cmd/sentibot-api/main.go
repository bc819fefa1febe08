// @title         Sentibot API
// @version       0.1.0
// @description   Interaction log reads and stateless sentiment analysis

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sentibot/internal/core/version"
	"sentibot/internal/modkit/repokit"
	"sentibot/internal/platform/config"
	"sentibot/internal/platform/logger"
	phttp "sentibot/internal/platform/net/http"
	"sentibot/internal/platform/store"

	"sentibot/internal/services/api"
	interactionsmod "sentibot/internal/services/interactions/module"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	core := root.Prefix("CORE_")
	apiCfg := core.Prefix("API_")

	// bring up logging early
	l := logger.Get()
	l.Info().Str("build", version.Info("sentibot-api").String()).Msg("starting")

	// open only the store the interaction log backend needs
	st, err := store.Open(ctx, interactionsmod.StoreConfig(root, interactionsmod.FromConfig(core)), store.WithLogger(*l))
	if err != nil {
		l.Error().Err(err).Msg("store.Open failed")
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(core)

	if err := api.Mount(
		srv.Router(),
		api.Options{
			Config:         core,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	); err != nil {
		l.Error().Err(err).Msg("api mount failed")
		stop()
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}

// Package api provides the HTTP API for the application
package api

import (
	"sentibot/internal/platform/config"
	"sentibot/internal/platform/logger"
	phttp "sentibot/internal/platform/net/http"
	"sentibot/internal/platform/store"

	"sentibot/internal/modkit"
	"sentibot/internal/modkit/httpkit"
	"sentibot/internal/modkit/module"
	"sentibot/internal/modkit/swaggerkit"

	metamod "sentibot/internal/services/api/meta/module"
	dialoguemod "sentibot/internal/services/dialogue/module"
	idom "sentibot/internal/services/interactions/domain"
	interactionsmod "sentibot/internal/services/interactions/module"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Options are the API options
type Options struct {
	// Config is the CORE_ scoped view the modules read their options from
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
// A module that cannot be built (bad backend, bad pack) fails the mount
func Mount(r phttp.Router, opt Options) error {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG, deps.CH, deps.SQLite = opt.Store.PG, opt.Store.CH, opt.Store.SQLite
	}

	// the interaction log owns the LoggerPort the dialogue engine persists to
	interactions, err := interactionsmod.New(deps)
	if err != nil {
		return err
	}
	// scoring is CPU bound; cap concurrent analyze calls (CORE_API_ANALYZE_CONCURRENCY)
	dialogue, err := dialoguemod.New(deps,
		modkit.WithPorts(dialoguemod.Ports{
			Turns: module.MustPortsOf[idom.LoggerPort](interactions),
		}),
		modkit.WithMiddlewares(chimw.Throttle(opt.Config.Prefix("API_").MayInt("ANALYZE_CONCURRENCY", 32))),
	)
	if err != nil {
		return err
	}

	mods := []module.Module{
		metamod.New(deps, interactions.Backend()),
		interactions,
		dialogue,
	}

	// liveness for load balancers, outside the versioned stack
	r.Use(chimw.Heartbeat("/health"))

	// versioned API with a common middleware stack
	origins := opt.Config.Prefix("API_").MayCSV("CORS_ORIGINS", nil)
	httpkit.MountAPIV1(r, httpkit.CommonStack(origins...), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
	return nil
}

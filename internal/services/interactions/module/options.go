package module

import (
	"sentibot/internal/platform/config"
	"sentibot/internal/services/interactions/repo"
	"sentibot/internal/services/interactions/service"
)

// Options controls the interaction log. Values are read from env
type Options struct {
	Backend    string
	Path       string
	SQLitePath string
	HardLimit  int
}

// FromConfig reads options using the INTERACTIONS_ prefix under cfg
func FromConfig(cfg config.Conf) Options {
	ic := cfg.Prefix("INTERACTIONS_")
	return Options{
		Backend:    ic.MayString("BACKEND", repo.BackendFile),
		Path:       ic.MayString("PATH", "Sentiment_Analysis_Chat.json"),
		SQLitePath: ic.MayString("SQLITE_PATH", "sentibot.db"),
		HardLimit:  ic.MayInt("HARD_LIMIT", service.DefaultHardLimit),
	}
}

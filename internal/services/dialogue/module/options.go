package module

import (
	"sentibot/internal/core/langhint"
	"sentibot/internal/platform/config"
)

// Options controls the dialogue engine. Values are read from env
type Options struct {
	BotName     string
	PackPath    string
	LexiconPath string
	Seed        int
	TargetLang  string
}

// FromConfig reads options using the DIALOGUE_ prefix under cfg
// Empty paths select the embedded pack and lexicon; seed 0 seeds from the runtime
// A target language the identifier cannot name panics
func FromConfig(cfg config.Conf) Options {
	dc := cfg.Prefix("DIALOGUE_")
	return Options{
		BotName:     dc.MayString("BOT_NAME", ""),
		PackPath:    dc.MayString("PACK", ""),
		LexiconPath: dc.MayString("LEXICON", ""),
		Seed:        dc.MayInt("SEED", 0),
		TargetLang:  dc.MayEnum("TARGET_LANG", langhint.DefaultTarget, langhint.Languages()...),
	}
}

package langhint

import (
	"context"
	"errors"
	"strings"

	"sentibot/internal/platform/logger"
)

// DefaultTarget is the language the replies are written for
const DefaultTarget = "en"

// Guard turns a language mismatch into an advisory warning line
type Guard struct {
	det     Detector
	target  string
	warning string
	log     *logger.Logger
}

// NewGuard builds a Guard; an empty target means DefaultTarget
func NewGuard(det Detector, target, warning string, log *logger.Logger) *Guard {
	if det == nil {
		panic("langhint.NewGuard requires a Detector")
	}
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		target = DefaultTarget
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Guard{det: det, target: target, warning: warning, log: log}
}

// Target returns the configured language code
func (g *Guard) Target() string { return g.target }

// Check returns the warning when text is confidently not in the target language, else ""
// Detection failures never block a turn
func (g *Guard) Check(ctx context.Context, text string) (warn string) {
	log := logger.From(g.log, ctx)
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn().Interface("panic", rec).Msg("language detection panicked")
			warn = ""
		}
	}()

	lang, err := g.det.Detect(text)
	switch {
	case errors.Is(err, ErrUndetectable):
		log.Info().Msg("language undetectable, skipping check")
		return ""
	case err != nil:
		log.Warn().Err(err).Msg("language detection failed")
		return ""
	}

	log.Debug().Str("lang", lang).Msg("language detected")
	if lang != g.target {
		return g.warning
	}
	return ""
}

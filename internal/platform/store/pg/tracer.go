package pg

import (
	"context"
	"strings"

	"sentibot/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent is one finished statement as the store adapter saw it
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs statements at info and slow ones at warn. It is only built when
// CORE_PG_LOG_SQL is on, so it pins its own level to debug.
func Tracer(root logger.Logger) QueryTracer {
	return &logTracer{root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type logTracer struct{ log logger.Logger }

func (t *logTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	lvl := zerolog.InfoLevel
	if ev.Slow {
		lvl = zerolog.WarnLevel
	}
	evt := t.log.WithLevel(lvl)
	if sid := logger.SessionID(ctx); sid != "" {
		evt = evt.Str("session_id", sid)
	}
	evt.Str("sql", strings.Join(strings.Fields(ev.SQL), " ")).
		Interface("args", ev.Args).
		Float64("elapsed_ms", float64(ev.ElapsedUS)/1000).
		Bool("slow", ev.Slow).
		Err(ev.Err).
		Msg("pg query")
}

// Package logger wraps zerolog for sentibot: one process root logger built from LOG_* env,
// plus request and chat session ids carried on the context
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"sentibot/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the logging type passed around sentibot
type Logger = zerolog.Logger

// Options describes the root logger
type Options struct {
	Level        string // zerolog level name; unknown or empty means debug
	Format       string // "console" for humans, anything else is JSON
	Service      string
	Component    string
	Writer       io.Writer // default stdout
	File         string    // append-only JSON sink
	FileOnly     bool      // with File, drop Writer entirely
	WithCaller   bool
	SampleEvery  int
	StaticFields map[string]string
}

// FromEnv reads LOG_* through the raw config view, which itself never logs
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:       env.Get("LEVEL", "debug"),
		Format:      strings.ToLower(env.Get("FORMAT", "console")),
		Service:     env.Get("SERVICE", ""),
		Component:   env.Get("COMPONENT", ""),
		File:        env.Get("FILE", ""),
		FileOnly:    env.GetBool("FILE_ONLY", false),
		WithCaller:  env.GetBool("CALLER", false),
		SampleEvery: env.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	initOnce sync.Once
	root     atomic.Pointer[Logger]
	sink     atomic.Pointer[os.File]
)

// Init installs the root logger; only the first call has any effect
func Init(opt Options) {
	initOnce.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		l, f := build(opt)
		if f != nil {
			sink.Store(f)
		}
		root.Store(&l)
	})
}

// Get returns the root logger, initialising it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Nop returns a logger that drops everything
func Nop() *Logger {
	l := zerolog.Nop()
	return &l
}

// Close syncs and closes the file sink opened by Init
func Close() error {
	f := sink.Swap(nil)
	if f == nil {
		return nil
	}
	_ = f.Sync()
	return f.Close()
}

// build assembles a logger from opt; the returned file, if any, belongs to the caller
func build(opt Options) (Logger, *os.File) {
	out := opt.Writer
	if out == nil {
		out = os.Stdout
	}
	if opt.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	var (
		file    *os.File
		sinkErr error
	)
	if opt.File != "" {
		f, err := os.OpenFile(opt.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		switch {
		case err != nil:
			sinkErr = err
		case opt.FileOnly:
			file, out = f, f
		default:
			file, out = f, zerolog.MultiLevelWriter(out, f)
		}
	}

	fields := zerolog.New(out).Level(level(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		fields = fields.Str("go_version", bi.GoVersion)
	}
	for k, v := range map[string]string{"service": opt.Service, "component": opt.Component} {
		if v != "" {
			fields = fields.Str(k, v)
		}
	}
	for k, v := range opt.StaticFields {
		fields = fields.Str(k, v)
	}
	if opt.WithCaller {
		fields = fields.Caller()
	}

	l := fields.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	if sinkErr != nil {
		l.Warn().Err(sinkErr).Str("file", opt.File).Msg("log file sink unavailable")
	}
	return l, file
}

// level maps a name to a zerolog level, accepting "warning" and "off" as aliases
func level(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "warning":
		return zerolog.WarnLevel
	case "off":
		return zerolog.Disabled
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || name == "" || lvl == zerolog.NoLevel {
		return zerolog.DebugLevel
	}
	return lvl
}

type ctxKey int

const (
	requestIDKey ctxKey = iota
	sessionIDKey
)

// WithRequest tags ctx with an HTTP request id; empty ids leave ctx untouched
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, reqID)
}

// WithSession tags ctx with a chat session id; empty ids leave ctx untouched
func WithSession(ctx context.Context, sessionID string) context.Context {
	if sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// SessionID returns the session id on ctx or ""
func SessionID(ctx context.Context) string {
	s, _ := ctx.Value(sessionIDKey).(string)
	return s
}

// C is From(Get(), ctx)
func C(ctx context.Context) *Logger { return From(Get(), ctx) }

// From derives a child of base carrying the request and session ids on ctx
func From(base *Logger, ctx context.Context) *Logger {
	if base == nil {
		base = Get()
	}
	b := base.With()
	if id, _ := ctx.Value(requestIDKey).(string); id != "" {
		b = b.Str("request_id", id)
	}
	if id := SessionID(ctx); id != "" {
		b = b.Str("session_id", id)
	}
	l := b.Logger()
	return &l
}

// Named returns a child of the root logger tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}

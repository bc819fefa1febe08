// Package config reads sentibot settings from the environment
// values that fail to parse are logged and replaced by the caller's default
package config

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"sentibot/internal/platform/config/raw"
	"sentibot/internal/platform/logger"
)

// Conf is a prefixed environment view, e.g. New().Prefix("CORE_").Prefix("API_")
type Conf struct{ env raw.Conf }

// New returns the unprefixed view
func New() Conf { return Conf{env: raw.New()} }

// Prefix nests p under the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{env: c.env.Prefix(p)} }

func (c Conf) key(k string) string { return c.env.Name(k) }

// MustString returns key or panics through the logger when it is unset
func (c Conf) MustString(key string) string {
	v := c.env.Value(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MustURL is MustString for an absolute URL
func (c Conf) MustURL(key string) *url.URL {
	s := c.MustString(key)
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		logger.Get().Panic().Str("key", c.key(key)).Msg("env is not an absolute URL")
	}
	return u
}

// MayString returns key or def
func (c Conf) MayString(key, def string) string { return c.env.Get(key, def) }

// MayInt returns key as an int or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

// MayBool accepts anything strconv.ParseBool does
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration accepts time.ParseDuration syntax such as 150ms or 2s
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s := c.env.Value(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).Msg("unparsable env, using default")
		return def
	}
	return v
}

// MayCSV splits a comma list, dropping blank items; def when nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.env.Value(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the allowed spelling matching key case-insensitively, def when unset
// any other value is a startup error and panics through the logger
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.env.Value(key)
	if v == "" {
		return def
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("env not in allowed set")
	return ""
}

// Package raw reads environment variables during bootstrap
// it must not import the logger, which is configured through it
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is an environment view whose keys share a prefix such as "LOG_"
type Conf struct{ prefix string }

// New returns the unprefixed view
func New() Conf { return Conf{} }

// Prefix nests p under the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Name is the full variable name for key
func (c Conf) Name(key string) string { return c.prefix + key }

// Value is the trimmed value of key, "" when unset
func (c Conf) Value(key string) string { return strings.TrimSpace(os.Getenv(c.Name(key))) }

// Get returns key or def when unset or blank
func (c Conf) Get(key, def string) string {
	if v := c.Value(key); v != "" {
		return v
	}
	return def
}

// GetBool treats 1, true, yes and on as true; any other non blank value is false
func (c Conf) GetBool(key string, def bool) bool {
	switch v := strings.ToLower(c.Value(key)); v {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// GetInt returns key as a non negative int, or def when unset or malformed
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.Value(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}

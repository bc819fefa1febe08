package ch

import (
	"cmp"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// clientInfo tags every connection so system.query_log shows which sentibot
// process (console agent or API) and which build issued a query
func clientInfo(role, tag string) clickhouse.ClientInfo {
	host, _ := os.Hostname()
	var ci clickhouse.ClientInfo
	for _, p := range [][2]string{
		{"sentibot", tag},
		{"role", role},
		{"go", runtime.Version()},
		{"commit", revision()},
		{"host", host},
	} {
		ci.Products = append(ci.Products, struct{ Name, Version string }{p[0], cmp.Or(strings.TrimSpace(p[1]), "unknown")})
	}
	return ci
}

// revision is the short vcs hash stamped by go build, or ""
func revision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}

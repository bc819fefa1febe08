// Package http serves the operational endpoints of sentibot-api: liveness, store readiness and build info
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"sentibot/internal/core/version"
	"sentibot/internal/modkit/httpkit"

	"golang.org/x/sync/errgroup"
)

// Pinger is any interaction log backend that can report readiness
type Pinger interface {
	Ping(stdctx.Context) error
}

// Check names one backend; a nil Pinger means that backend is not configured
type Check struct {
	Name   string
	Pinger Pinger
}

// Deps configures the meta routes; Timeout bounds the whole readiness pass (default 2s)
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Backend     string
	Checks      []Check
	Timeout     time.Duration
}

type handlers struct {
	Deps
	now func() time.Time
}

// Register mounts health, ready, version and service under r
func Register(r httpkit.Router, d Deps) {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	h := &handlers{Deps: d, now: time.Now}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// HealthResponse answers /meta/health
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"sentibot-api"`
	Started string `json:"started"  example:"2026-10-01T13:00:00Z"`
	Now     string `json:"now"      example:"2026-10-01T13:05:00Z"`
}

// ReadyCheck is one backend in a readiness answer
type ReadyCheck struct {
	Name   string `json:"name"   example:"sqlite"`
	Status string `json:"status" example:"ok"` // ok fail skipped
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse is "fail" when any configured backend failed its ping
type ReadyResponse struct {
	Status  string       `json:"status"  example:"ok"` // ok fail
	Backend string       `json:"backend" example:"file"`
	Checks  []ReadyCheck `json:"checks"`
	Now     string       `json:"now"     example:"2026-10-01T13:05:00Z"`
}

// ServiceResponse reports the process name, backend and uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"sentibot-api"`
	Backend string `json:"backend" example:"file"`
	Started string `json:"started" example:"2026-10-01T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.ServiceName, Started: stamp(h.StartedAt), Now: stamp(h.now())}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness check over the open interaction log stores
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	// backends are pinged in parallel; each goroutine owns one slot
	checks := make([]ReadyCheck, len(h.Checks))
	var g errgroup.Group
	for i, c := range h.Checks {
		checks[i] = ReadyCheck{Name: c.Name, Status: "skipped"}
		if c.Pinger == nil {
			continue
		}
		g.Go(func() error {
			checks[i].Status = "ok"
			if err := c.Pinger.Ping(ctx); err != nil {
				checks[i].Status, checks[i].Error = "fail", err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	status := "ok"
	for _, c := range checks {
		if c.Status == "fail" {
			status = "fail"
		}
	}
	return ReadyResponse{Status: status, Backend: h.Backend, Checks: checks, Now: stamp(h.now())}, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(*http.Request) (any, error) {
	return version.Info(h.ServiceName), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h *handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.ServiceName,
		Backend: h.Backend,
		Started: stamp(h.StartedAt),
		Uptime:  int64(h.now().Sub(h.StartedAt).Seconds()),
	}, nil
}

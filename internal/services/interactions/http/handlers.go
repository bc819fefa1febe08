// Package http provides http transport for the interaction log
package http

import (
	stdhttp "net/http"
	"strconv"
	"strings"

	"sentibot/internal/modkit/httpkit"
	perr "sentibot/internal/platform/errors"
	"sentibot/internal/platform/net/http/bind"
	"sentibot/internal/services/interactions/domain"
	svc "sentibot/internal/services/interactions/service"
)

// Register mounts interaction endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/stats", h.stats)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /interactions Interactions interactionsList
// @Summary Newest persisted turns in log order
// @Tags Interactions
// @Produce json
// @Param sentiment query string false "positive, negative, neutral or error"
// @Param since query string false "RFC 3339 lower bound"
// @Param limit query int false "1..500"
// @Success 200 {array} domain.TurnView "ok"
// @Router /interactions [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	in, err := listInput(r)
	if err != nil {
		return nil, err
	}
	return h.svc.List(r.Context(), in)
}

// swagger:route GET /interactions/stats Interactions interactionsStats
// @Summary Turn counts per class and mean scores
// @Tags Interactions
// @Produce json
// @Success 200 {object} domain.Stats "ok"
// @Router /interactions/stats [get]
func (h *handlers) stats(r *stdhttp.Request) (any, error) {
	return h.svc.Stats(r.Context())
}

// listInput reads and validates the query string
func listInput(r *stdhttp.Request) (domain.ListInput, error) {
	q := r.URL.Query()
	in := domain.ListInput{
		Sentiment: strings.ToLower(strings.TrimSpace(q.Get("sentiment"))),
		Since:     strings.TrimSpace(q.Get("since")),
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return in, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "limit must be an integer"), "limit")
		}
		in.Limit = n
	}
	if err := bind.Struct(in); err != nil {
		return in, err
	}
	return in, nil
}

// Package http provides http transport for the dialogue pipeline
package http

import (
	stdhttp "net/http"

	"sentibot/internal/modkit/httpkit"
	"sentibot/internal/services/dialogue/domain"
)

// Register mounts dialogue endpoints on the given router
func Register(r httpkit.Router, a domain.AnalyzerPort) {
	h := &handlers{an: a}
	httpkit.PostJSON(r, "/analyze", h.analyze)
}

type handlers struct{ an domain.AnalyzerPort }

// swagger:route POST /dialogue/analyze Dialogue dialogueAnalyze
// @Summary Score one text without replying or persisting
// @Tags Dialogue
// @Accept json
// @Produce json
// @Param body body domain.AnalyzeInput true "text to analyze"
// @Success 200 {object} domain.Analysis "ok"
// @Failure 400 {object} httpkit.Envelope "invalid body"
// @Router /dialogue/analyze [post]
func (h *handlers) analyze(r *stdhttp.Request, in domain.AnalyzeInput) (any, error) {
	return h.an.Analyze(r.Context(), in)
}

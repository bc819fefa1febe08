// Package httpkit is the routing surface modules mount against, so they do
// not import internal/platform/net/http directly
package httpkit

import phttp "sentibot/internal/platform/net/http"

type (
	// Router is a re-export of the platform router seam
	Router = phttp.Router

	// Envelope is the body every API route answers with
	Envelope = phttp.Envelope
)

// Package net provides utilities for working with request contexts
package net

import (
	"context"

	"sentibot/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequest annotates ctx with the request id for chi and for request scoped logs
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	// set chi RequestID so chimw.GetReqID can retrieve it
	ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	return logger.WithRequest(ctx, reqID)
}

// WithSession annotates ctx with the chat session id a client sent
func WithSession(ctx context.Context, sessionID string) context.Context {
	return logger.WithSession(ctx, sessionID)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// SessionID returns the chat session id on the context if present
func SessionID(ctx context.Context) string {
	return logger.SessionID(ctx)
}

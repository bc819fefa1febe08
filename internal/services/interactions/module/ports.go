package module

import (
	"context"

	idom "sentibot/internal/services/interactions/domain"
	isvc "sentibot/internal/services/interactions/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptInteractionsPort adapts the service to the domain port interfaces
type adaptInteractionsPort struct{ svc isvc.Service }

// Append implements idom.LoggerPort
func (a adaptInteractionsPort) Append(ctx context.Context, t idom.Turn) error {
	return a.svc.Append(ctx, t)
}

// List implements idom.ReaderPort
func (a adaptInteractionsPort) List(ctx context.Context, in idom.ListInput) ([]idom.TurnView, error) {
	return a.svc.List(ctx, in)
}

// Stats implements idom.ReaderPort
func (a adaptInteractionsPort) Stats(ctx context.Context) (idom.Stats, error) {
	return a.svc.Stats(ctx)
}

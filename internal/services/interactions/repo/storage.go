// Package repo persists turns to the configured interaction log backend
package repo

import (
	"context"

	"sentibot/internal/services/interactions/domain"
)

// Storage is the append-and-reload contract every backend satisfies
type Storage interface {
	Append(ctx context.Context, t domain.Turn) error
	Load(ctx context.Context, f domain.Filter) ([]domain.Turn, error)
}

// Backend names accepted by CORE_INTERACTIONS_BACKEND
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendPG     = "pg"
	BackendCH     = "ch"
)

// Backends lists the accepted names in config order
var Backends = []string{BackendFile, BackendSQLite, BackendPG, BackendCH}

// table is the relation the database backends write to
const table = "chat_turns"

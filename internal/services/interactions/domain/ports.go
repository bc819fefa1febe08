package domain

import "context"

// LoggerPort appends fully formed turns; failures carry perr.ErrorCodePersistence
type LoggerPort interface {
	Append(ctx context.Context, t Turn) error
}

// ReaderPort reads the log back
type ReaderPort interface {
	List(ctx context.Context, in ListInput) ([]TurnView, error)
	Stats(ctx context.Context) (Stats, error)
}

// ServicePort is the full interaction log contract
type ServicePort interface {
	LoggerPort
	ReaderPort
}

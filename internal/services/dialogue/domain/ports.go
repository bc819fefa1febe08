package domain

import (
	"context"
	"io"
)

// EnginePort drives the turn-based conversation
type EnginePort interface {
	Step(ctx context.Context, raw string) Outcome
	Run(ctx context.Context, in io.Reader, out io.Writer) error
}

// AnalyzerPort runs the pipeline on one text without side effects
type AnalyzerPort interface {
	Analyze(ctx context.Context, in AnalyzeInput) (Analysis, error)
}

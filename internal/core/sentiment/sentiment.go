// Package sentiment maps scorer output onto the three tone classes the chat
// replies with, plus the error class used when scoring fails
package sentiment

import (
	"context"
	"math"

	perr "sentibot/internal/platform/errors"
	"sentibot/internal/platform/logger"
)

// Class is the sentiment label of a turn
type Class string

const (
	// Positive is any strictly positive polarity
	Positive Class = "positive"
	// Negative is any strictly negative polarity
	Negative Class = "negative"
	// Neutral is exactly zero polarity, and the label for greeting/goodbye turns
	Neutral Class = "neutral"
	// Error marks a turn that could not be scored or was empty
	Error Class = "error"
)

// Valid reports whether c is one of the four known labels
func (c Class) Valid() bool {
	switch c {
	case Positive, Negative, Neutral, Error:
		return true
	}
	return false
}

// Score is the raw output of a sentiment capability
type Score struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// Scorer is any sentiment capability: text in, polarity in [-1,1] and subjectivity in [0,1] out
type Scorer interface {
	Score(ctx context.Context, text string) (Score, error)
}

// ScorerFunc adapts a plain function to Scorer
type ScorerFunc func(ctx context.Context, text string) (Score, error)

// Score calls f
func (f ScorerFunc) Score(ctx context.Context, text string) (Score, error) { return f(ctx, text) }

// Result is the explicit outcome of one classification
// For Class Error both scores are 0 and Err carries the cause
type Result struct {
	Class        Class
	Polarity     float64
	Subjectivity float64
	Err          error
}

// ClassOf labels a polarity; zero is neutral
func ClassOf(polarity float64) Class {
	switch {
	case polarity > 0:
		return Positive
	case polarity < 0:
		return Negative
	default:
		return Neutral
	}
}

// Classifier wraps a Scorer and never lets its failures escape as anything but Result{Class: Error}
type Classifier struct {
	scorer Scorer
	log    *logger.Logger
}

// NewClassifier builds a Classifier; a nil log discards events
func NewClassifier(s Scorer, log *logger.Logger) *Classifier {
	if s == nil {
		panic("sentiment.NewClassifier requires a non nil Scorer")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Classifier{scorer: s, log: log}
}

// Classify scores text and labels it. No caching, one scorer call per invocation
func (c *Classifier) Classify(ctx context.Context, text string) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = failed(perr.Wrap(perr.FromPanic(rec), perr.ErrorCodeScoring, "scorer panicked"))
			c.log.Error().Err(res.Err).Msg("sentiment scorer panicked")
		}
	}()

	sc, err := c.scorer.Score(ctx, text)
	if err != nil {
		if !perr.IsCode(err, perr.ErrorCodeScoring) {
			err = perr.Wrap(err, perr.ErrorCodeScoring, "score text")
		}
		c.log.Warn().Err(err).Msg("sentiment scoring failed")
		return failed(err)
	}
	if math.IsNaN(sc.Polarity) || math.IsNaN(sc.Subjectivity) {
		err := perr.Newf(perr.ErrorCodeScoring, "scorer returned NaN")
		c.log.Warn().Err(err).Msg("sentiment scoring failed")
		return failed(err)
	}

	p := clamp(sc.Polarity, -1, 1)
	s := clamp(sc.Subjectivity, 0, 1)
	res = Result{Class: ClassOf(p), Polarity: p, Subjectivity: s}
	c.log.Debug().
		Str("class", string(res.Class)).
		Float64("polarity", p).
		Float64("subjectivity", s).
		Msg("sentiment classified")
	return res
}

func failed(err error) Result { return Result{Class: Error, Err: err} }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

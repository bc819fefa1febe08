// Package domain holds the turn record and the contracts of the interaction log
package domain

import (
	"time"

	"sentibot/internal/core/sentiment"
)

// Turn is one user utterance and the agent's reply
// Immutable once appended; RawInput is never persisted
type Turn struct {
	ID        string `json:"-"`
	SessionID string `json:"-"`
	RawInput  string `json:"-"`

	Timestamp    time.Time       `json:"timestamp"`
	UserInput    string          `json:"user_input"`
	Sentiment    sentiment.Class `json:"sentiment"`
	Polarity     float64         `json:"polarity"`
	Subjectivity float64         `json:"subjectivity"`
	Response     string          `json:"response"`
}

// Filter narrows a Load; the zero value returns the whole log in order
type Filter struct {
	Sentiment sentiment.Class
	Since     time.Time
	Limit     int // newest Limit turns, 0 means all
}

// Match reports whether t passes the class and time filters
func (f Filter) Match(t Turn) bool {
	if f.Sentiment != "" && t.Sentiment != f.Sentiment {
		return false
	}
	if !f.Since.IsZero() && t.Timestamp.Before(f.Since) {
		return false
	}
	return true
}

// Apply filters an ordered slice and keeps the newest Limit entries, oldest first
func (f Filter) Apply(in []Turn) []Turn {
	out := make([]Turn, 0, len(in))
	for _, t := range in {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}

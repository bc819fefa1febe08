// Package domain holds the dialogue loop states, turn outcomes and contracts
package domain

import (
	idom "sentibot/internal/services/interactions/domain"
)

// State of the dialogue loop
type State int

const (
	// Running accepts the next line
	Running State = iota
	// Terminated stops the loop; no further turns are taken
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// Outcome is the explicit result of one turn
// Lines are the agent lines to show, in order, without the bot name prefix
// Err carries a soft failure (persistence); the turn itself still completed
type Outcome struct {
	Next      State
	Turn      idom.Turn
	Lines     []string
	Persisted bool
	Err       error
}

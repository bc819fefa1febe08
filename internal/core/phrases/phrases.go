// Package phrases recognizes the fixed greeting and goodbye utterances
package phrases

// Intent is the short-circuit decision for a turn
type Intent int

const (
	// IntentNone means the turn goes on to scoring
	IntentNone Intent = iota
	// IntentGreeting is an exact greeting phrase
	IntentGreeting
	// IntentGoodbye is an exact goodbye phrase and ends the session
	IntentGoodbye
)

func (i Intent) String() string {
	switch i {
	case IntentGreeting:
		return "greeting"
	case IntentGoodbye:
		return "goodbye"
	default:
		return "none"
	}
}

// Matcher holds the phrase sets; it is read-only after construction
type Matcher struct {
	greetings map[string]struct{}
	goodbyes  map[string]struct{}
}

// NewMatcher builds a Matcher over already-normalized phrase lists
func NewMatcher(greetings, goodbyes []string) *Matcher {
	return &Matcher{greetings: set(greetings), goodbyes: set(goodbyes)}
}

// Match classifies normalized input by exact membership
// A phrase listed in both sets is a goodbye
func (m *Matcher) Match(normalized string) Intent {
	if _, ok := m.goodbyes[normalized]; ok {
		return IntentGoodbye
	}
	if _, ok := m.greetings[normalized]; ok {
		return IntentGreeting
	}
	return IntentNone
}

func set(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, s := range in {
		if s != "" {
			out[s] = struct{}{}
		}
	}
	return out
}

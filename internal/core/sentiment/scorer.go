package sentiment

import (
	"context"
	"strings"

	"sentibot/internal/core/normalize"
	perr "sentibot/internal/platform/errors"
)

// ErrMalformedText is returned for input that carried invalid UTF-8
var ErrMalformedText = perr.New(perr.ErrorCodeScoring, "text is not valid UTF-8")

// negation reaches this many tokens back
const negationWindow = 2

// LexiconScorer is the built-in Scorer: a word lexicon with intensifiers,
// short-range negation and an exclamation boost, averaged over matched words
type LexiconScorer struct {
	lx *Lexicon
}

// NewLexiconScorer builds a scorer over lx
func NewLexiconScorer(lx *Lexicon) *LexiconScorer {
	if lx == nil {
		panic("sentiment.NewLexiconScorer requires a lexicon")
	}
	return &LexiconScorer{lx: lx}
}

// Score implements Scorer
func (s *LexiconScorer) Score(ctx context.Context, text string) (Score, error) {
	if err := ctx.Err(); err != nil {
		return Score{}, err
	}
	if normalize.IsMalformed(text) || !validUTF8(text) {
		return Score{}, ErrMalformedText
	}

	toks := normalize.Words(strings.ToLower(text))
	var (
		sumP, sumS float64
		matched    int
		bang       bool
	)
	for i, tok := range toks {
		if tok == "!" {
			bang = true
			continue
		}
		e, ok := s.lookup(tok)
		if !ok {
			continue
		}
		p, sub := e.Polarity, e.Subjectivity

		if i > 0 {
			if f, ok := s.lx.Intensity(toks[i-1]); ok {
				p *= f
				sub *= f
			}
		}
		if s.negated(toks, i) {
			p *= -0.5
		}

		sumP += p
		sumS += clamp(sub, 0, 1)
		matched++
	}
	if matched == 0 {
		return Score{}, nil
	}

	p := sumP / float64(matched)
	if bang {
		p *= s.lx.Exclamation
	}
	return Score{
		Polarity:     clamp(p, -1, 1),
		Subjectivity: clamp(sumS/float64(matched), 0, 1),
	}, nil
}

// lookup tries the word as written, then with elongations squashed
func (s *LexiconScorer) lookup(tok string) (Entry, bool) {
	if e, ok := s.lx.Lookup(tok); ok {
		return e, true
	}
	for _, n := range []int{2, 1} {
		if sq := normalize.SquashRuns(tok, n); sq != tok {
			if e, ok := s.lx.Lookup(sq); ok {
				return e, true
			}
		}
	}
	return Entry{}, false
}

func (s *LexiconScorer) negated(toks []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
		if toks[j] == "!" {
			return false
		}
		if s.lx.IsNegation(toks[j]) {
			return true
		}
	}
	return false
}

func validUTF8(s string) bool { return strings.ToValidUTF8(s, "") == s }

package sentiment

import (
	_ "embed"
	"os"
	"strings"

	perr "sentibot/internal/platform/errors"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var embeddedLexicon []byte

// Entry scores one lexicon word
type Entry struct {
	Polarity     float64 `yaml:"polarity"     validate:"gte=-1,lte=1"`
	Subjectivity float64 `yaml:"subjectivity" validate:"gte=0,lte=1"`
}

// Lexicon is the word list behind LexiconScorer
type Lexicon struct {
	Version      int                `yaml:"version"      validate:"required,eq=1"`
	Exclamation  float64            `yaml:"exclamation"  validate:"gte=1,lte=2"`
	Words        map[string]Entry   `yaml:"words"        validate:"required,min=1,dive"`
	Intensifiers map[string]float64 `yaml:"intensifiers" validate:"dive,gt=0,lte=3"`
	Negations    []string           `yaml:"negations"    validate:"dive,required"`

	negations map[string]struct{}
}

// LoadLexicon parses the lexicon compiled into the binary
func LoadLexicon() (*Lexicon, error) { return parseLexicon(embeddedLexicon, "embedded") }

// LoadLexiconFile parses a lexicon override from disk
func LoadLexiconFile(path string) (*Lexicon, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "read lexicon %s", path)
	}
	return parseLexicon(raw, path)
}

func parseLexicon(raw []byte, src string) (*Lexicon, error) {
	var lx Lexicon
	if err := yaml.Unmarshal(raw, &lx); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "parse lexicon %s", src)
	}
	if lx.Exclamation == 0 {
		lx.Exclamation = 1
	}
	if err := validator.New().Struct(lx); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "invalid lexicon %s", src)
	}

	words := make(map[string]Entry, len(lx.Words))
	for w, e := range lx.Words {
		words[strings.ToLower(strings.TrimSpace(w))] = e
	}
	lx.Words = words

	ints := make(map[string]float64, len(lx.Intensifiers))
	for w, f := range lx.Intensifiers {
		ints[strings.ToLower(strings.TrimSpace(w))] = f
	}
	lx.Intensifiers = ints

	lx.negations = make(map[string]struct{}, len(lx.Negations))
	for _, n := range lx.Negations {
		lx.negations[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
	}
	return &lx, nil
}

// Lookup returns the entry for a normalized word
func (lx *Lexicon) Lookup(word string) (Entry, bool) {
	e, ok := lx.Words[word]
	return e, ok
}

// Intensity returns the multiplier for an intensifier word, or 1
func (lx *Lexicon) Intensity(word string) (float64, bool) {
	f, ok := lx.Intensifiers[word]
	if !ok {
		return 1, false
	}
	return f, true
}

// IsNegation reports whether word flips the sentiment of what follows
func (lx *Lexicon) IsNegation(word string) bool {
	_, ok := lx.negations[word]
	return ok
}

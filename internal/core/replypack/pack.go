// Package replypack loads the chat content: greeting and goodbye phrase sets,
// per-class reply catalogs and the fixed messages of the dialogue loop
package replypack

import (
	_ "embed"
	"os"
	"strings"

	"sentibot/internal/core/normalize"
	perr "sentibot/internal/platform/errors"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed pack.yaml
var embedded []byte

// Phrases are the exact-match intent sets
type Phrases struct {
	Greetings []string `yaml:"greetings" validate:"required,min=1,dive,required"`
	Goodbyes  []string `yaml:"goodbyes"  validate:"required,min=1,dive,required"`
}

// Replies are the tone-matched catalogs keyed by sentiment class
type Replies struct {
	Positive []string `yaml:"positive" validate:"required,min=1,dive,required"`
	Negative []string `yaml:"negative" validate:"required,min=1,dive,required"`
	Neutral  []string `yaml:"neutral"  validate:"required,min=1,dive,required"`
}

// Messages are the fixed lines the loop prints outside the catalogs
type Messages struct {
	Welcome    string `yaml:"welcome"     validate:"required"`
	Farewell   string `yaml:"farewell"    validate:"required"`
	Greeting   string `yaml:"greeting"    validate:"required"`
	Prompt     string `yaml:"prompt"      validate:"required"`
	Apology    string `yaml:"apology"     validate:"required"`
	Oops       string `yaml:"oops"        validate:"required"`
	NonEnglish string `yaml:"non_english" validate:"required"`
}

// Pack is the immutable content handed to the dialogue engine
type Pack struct {
	Version  int      `yaml:"version"  validate:"required,eq=1"`
	BotName  string   `yaml:"bot_name" validate:"required"`
	Phrases  Phrases  `yaml:"phrases"`
	Replies  Replies  `yaml:"replies"`
	Messages Messages `yaml:"messages"`
}

// Load returns the pack compiled into the binary
func Load() (*Pack, error) { return parse(embedded, "embedded") }

// LoadFile returns a pack override read from disk
func LoadFile(path string) (*Pack, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "replypack: read %s", path)
	}
	return parse(raw, path)
}

func parse(raw []byte, src string) (*Pack, error) {
	var p Pack
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "replypack: parse %s", src)
	}

	// blank entries count as missing
	p.Phrases.Greetings = phraseSet(p.Phrases.Greetings)
	p.Phrases.Goodbyes = phraseSet(p.Phrases.Goodbyes)
	p.Replies.Positive = trimAll(p.Replies.Positive)
	p.Replies.Negative = trimAll(p.Replies.Negative)
	p.Replies.Neutral = trimAll(p.Replies.Neutral)

	if err := validator.New().Struct(p); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "replypack: invalid %s", src)
	}
	return &p, nil
}

// phraseSet normalizes phrases the way input is normalized, deduped in order
func phraseSet(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = normalize.Text(s)
		if s == "" {
			out = append(out, "")
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

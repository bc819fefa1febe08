// Package service runs the dialogue turn pipeline
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sentibot/internal/core/catalog"
	"sentibot/internal/core/langhint"
	"sentibot/internal/core/normalize"
	"sentibot/internal/core/phrases"
	"sentibot/internal/core/replypack"
	"sentibot/internal/core/sentiment"
	perr "sentibot/internal/platform/errors"
	"sentibot/internal/platform/logger"
	"sentibot/internal/services/dialogue/domain"
	idom "sentibot/internal/services/interactions/domain"

	"github.com/google/uuid"
)

// Components are the collaborators one Engine is built from
// Matcher and Catalog default to ones built from Pack
type Components struct {
	Pack       *replypack.Pack
	Matcher    *phrases.Matcher
	Classifier *sentiment.Classifier
	Guard      *langhint.Guard
	Catalog    *catalog.Catalog
	Turns      idom.LoggerPort
	Log        *logger.Logger

	// BotName overrides Pack.BotName when set
	BotName string
}

// Engine executes turns; one turn is in flight at a time
type Engine struct {
	botName string
	msg     replypack.Messages
	match   *phrases.Matcher
	cls     *sentiment.Classifier
	guard   *langhint.Guard
	cat     *catalog.Catalog
	turns   idom.LoggerPort
	log     *logger.Logger
	now     func() time.Time
}

// New builds an Engine and panics on missing collaborators
func New(c Components) *Engine {
	if c.Pack == nil {
		panic("dialogue.New requires a reply pack")
	}
	if c.Classifier == nil {
		panic("dialogue.New requires a sentiment classifier")
	}
	if c.Guard == nil {
		panic("dialogue.New requires a language guard")
	}
	if c.Turns == nil {
		panic("dialogue.New requires an interaction logger")
	}
	if c.Matcher == nil {
		c.Matcher = phrases.NewMatcher(c.Pack.Phrases.Greetings, c.Pack.Phrases.Goodbyes)
	}
	if c.Catalog == nil {
		r := c.Pack.Replies
		c.Catalog = catalog.New(r.Positive, r.Negative, r.Neutral, nil)
	}
	if c.Log == nil {
		c.Log = logger.Nop()
	}
	name := strings.TrimSpace(c.BotName)
	if name == "" {
		name = c.Pack.BotName
	}
	return &Engine{
		botName: name,
		msg:     c.Pack.Messages,
		match:   c.Matcher,
		cls:     c.Classifier,
		guard:   c.Guard,
		cat:     c.Catalog,
		turns:   c.Turns,
		log:     c.Log,
		now:     time.Now,
	}
}

// BotName is the prefix of every agent line
func (e *Engine) BotName() string { return e.botName }

// Welcome is the line printed before the first prompt; it is never persisted
func (e *Engine) Welcome() string { return e.msg.Welcome }

// Step executes exactly one turn for raw input
func (e *Engine) Step(ctx context.Context, raw string) (out domain.Outcome) {
	log := logger.From(e.log, ctx)
	norm := ""
	defer func() {
		if rec := recover(); rec != nil {
			err := perr.FromPanic(rec)
			log.Error().Err(err).Msg("turn failed unexpectedly")
			out = e.commit(ctx, e.turn(raw, norm, sentiment.Result{Class: sentiment.Error}, e.msg.Oops), domain.Running, e.msg.Oops)
		}
	}()

	norm = normalize.Text(raw)
	log.Info().Str("input", norm).Msg("user input")

	if norm == "" {
		return e.commit(ctx, e.turn(raw, norm, sentiment.Result{Class: sentiment.Error}, e.msg.Prompt), domain.Running, e.msg.Prompt)
	}

	switch e.match.Match(norm) {
	case phrases.IntentGoodbye:
		log.Info().Msg("user ended chat with a goodbye")
		return e.commit(ctx, e.turn(raw, norm, sentiment.Result{Class: sentiment.Neutral}, e.msg.Farewell), domain.Terminated, e.msg.Farewell)
	case phrases.IntentGreeting:
		return e.commit(ctx, e.turn(raw, norm, sentiment.Result{Class: sentiment.Neutral}, e.msg.Greeting), domain.Running, e.msg.Greeting)
	}

	warning := e.guard.Check(ctx, norm)
	if warning != "" {
		log.Warn().Str("input", norm).Msg("non target language input")
	}

	res := e.cls.Classify(ctx, norm)
	if res.Class == sentiment.Error {
		lines := withWarning(warning, e.msg.Apology)
		return e.commit(ctx, e.turn(raw, norm, res, strings.Join(lines, "\n")), domain.Running, lines...)
	}

	reply, ok := e.cat.Pick(res.Class)
	if !ok {
		log.Error().Str("class", string(res.Class)).Msg("no catalog reply for class")
		return e.commit(ctx, e.turn(raw, norm, sentiment.Result{Class: sentiment.Error}, e.msg.Oops), domain.Running, e.msg.Oops)
	}

	lines := compose(warning, res, reply)
	response := strings.TrimSpace(warning + "\n" + strings.Join(lines[len(lines)-3:], "\n"))
	return e.commit(ctx, e.turn(raw, norm, res, response), domain.Running, lines...)
}

// Interrupt ends the session as if the user said goodbye with no input
// The turn is persisted even though ctx is already canceled
func (e *Engine) Interrupt(ctx context.Context) domain.Outcome {
	logger.From(e.log, ctx).Info().Msg("chat session ended by interrupt")
	ctx = context.WithoutCancel(ctx)
	return e.commit(ctx, e.turn("", "", sentiment.Result{Class: sentiment.Neutral}, e.msg.Farewell), domain.Terminated, e.msg.Farewell)
}

// withWarning prefixes lines with the language warning when there is one
func withWarning(warning string, lines ...string) []string {
	if warning == "" {
		return lines
	}
	return append([]string{warning}, lines...)
}

// compose returns the printed lines of a scored turn
func compose(warning string, res sentiment.Result, reply string) []string {
	return withWarning(warning,
		fmt.Sprintf("You expressed a %s sentiment.", res.Class),
		fmt.Sprintf("Polarity: %.2f, Subjectivity: %.2f", res.Polarity, res.Subjectivity),
		reply,
	)
}

func (e *Engine) turn(raw, norm string, res sentiment.Result, response string) idom.Turn {
	t := idom.Turn{
		ID:        uuid.NewString(),
		RawInput:  raw,
		UserInput: norm,
		Sentiment: res.Class,
		Response:  response,
		Timestamp: e.now().UTC(),
	}
	if res.Class != sentiment.Error {
		t.Polarity, t.Subjectivity = res.Polarity, res.Subjectivity
	}
	return t
}

// commit persists a fully formed turn; a storage failure is soft
func (e *Engine) commit(ctx context.Context, t idom.Turn, next domain.State, lines ...string) domain.Outcome {
	if t.SessionID == "" {
		t.SessionID = logger.SessionID(ctx)
	}
	out := domain.Outcome{Next: next, Turn: t, Lines: lines}
	if err := e.append(ctx, t); err != nil {
		logger.From(e.log, ctx).Error().Err(err).
			Bool("transient", perr.IsTransient(err)).
			Msg("failed to save interaction")
		out.Err = err
		return out
	}
	out.Persisted = true
	return out
}

func (e *Engine) append(ctx context.Context, t idom.Turn) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = perr.Wrap(perr.FromPanic(rec), perr.ErrorCodePersistence, "append turn")
		}
	}()
	return e.turns.Append(ctx, t)
}

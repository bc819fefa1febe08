package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"testing"

	"sentibot/internal/core/catalog"
	"sentibot/internal/core/langhint"
	"sentibot/internal/core/replypack"
	"sentibot/internal/core/sentiment"
	perr "sentibot/internal/platform/errors"
	kit "sentibot/internal/platform/testkit"
	"sentibot/internal/services/dialogue/domain"
	idom "sentibot/internal/services/interactions/domain"
)

// memTurns is an in-memory LoggerPort
type memTurns struct {
	mu    sync.Mutex
	turns []idom.Turn
	err   error
}

func (m *memTurns) Append(ctx context.Context, t idom.Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.turns = append(m.turns, t)
	return nil
}

func (m *memTurns) all() []idom.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.turns)
}

type fixture struct {
	eng    *Engine
	turns  *memTurns
	pack   *replypack.Pack
	scores int
}

// newFixture builds an engine over the embedded pack; scorer nil means the lexicon scorer
func newFixture(t *testing.T, scorer sentiment.Scorer) *fixture {
	t.Helper()
	pack, err := replypack.Load()
	if err != nil {
		t.Fatalf("load pack: %v", err)
	}
	if scorer == nil {
		lx, err := sentiment.LoadLexicon()
		if err != nil {
			t.Fatalf("load lexicon: %v", err)
		}
		scorer = sentiment.NewLexiconScorer(lx)
	}
	f := &fixture{turns: &memTurns{}, pack: pack}
	counting := sentiment.ScorerFunc(func(ctx context.Context, text string) (sentiment.Score, error) {
		f.scores++
		return scorer.Score(ctx, text)
	})
	r := pack.Replies
	f.eng = New(Components{
		Pack:       pack,
		Classifier: sentiment.NewClassifier(counting, nil),
		Guard:      langhint.NewGuard(langhint.NewIdentifier(), "en", pack.Messages.NonEnglish, nil),
		Catalog:    catalog.New(r.Positive, r.Negative, r.Neutral, rand.NewPCG(1, 2)),
		Turns:      f.turns,
	})
	return f
}

func (f *fixture) inAnyCatalog(s string) bool {
	r := f.pack.Replies
	return slices.Contains(r.Positive, s) || slices.Contains(r.Negative, s) || slices.Contains(r.Neutral, s)
}

func TestStep_ScoredTurnComposesReply(t *testing.T) {
	f := newFixture(t, nil)
	o := f.eng.Step(context.Background(), "I love this!")

	if o.Next != domain.Running || !o.Persisted || o.Err != nil {
		t.Fatalf("outcome = %+v", o)
	}
	if o.Turn.Sentiment != sentiment.Positive || o.Turn.Polarity <= 0 {
		t.Fatalf("turn = %+v", o.Turn)
	}
	if o.Turn.UserInput != "i love this!" || o.Turn.RawInput != "I love this!" {
		t.Fatalf("input fields = %q / %q", o.Turn.UserInput, o.Turn.RawInput)
	}
	if len(o.Lines) != 3 {
		t.Fatalf("lines = %q", o.Lines)
	}
	if o.Lines[0] != "You expressed a positive sentiment." {
		t.Fatalf("line 0 = %q", o.Lines[0])
	}
	wantMetrics := fmt.Sprintf("Polarity: %.2f, Subjectivity: %.2f", o.Turn.Polarity, o.Turn.Subjectivity)
	if o.Lines[1] != wantMetrics {
		t.Fatalf("line 1 = %q, want %q", o.Lines[1], wantMetrics)
	}
	if !slices.Contains(f.pack.Replies.Positive, o.Lines[2]) {
		t.Fatalf("reply %q not from positive catalog", o.Lines[2])
	}
	if o.Turn.Response != strings.Join(o.Lines, "\n") {
		t.Fatalf("response = %q", o.Turn.Response)
	}
	if got := f.turns.all(); len(got) != 1 || got[0].ID != o.Turn.ID {
		t.Fatalf("persisted = %+v", got)
	}
}

func TestStep_EmptyInputPromptsAndLogsError(t *testing.T) {
	f := newFixture(t, nil)
	for _, in := range []string{"", "   ", "\t\n"} {
		o := f.eng.Step(context.Background(), in)
		if o.Next != domain.Running || len(o.Lines) != 1 || o.Lines[0] != f.pack.Messages.Prompt {
			t.Fatalf("%q: outcome = %+v", in, o)
		}
		if o.Turn.Sentiment != sentiment.Error || o.Turn.Polarity != 0 || o.Turn.Subjectivity != 0 {
			t.Fatalf("%q: turn = %+v", in, o.Turn)
		}
	}
	if f.scores != 0 {
		t.Fatalf("empty input was scored %d times", f.scores)
	}
}

func TestStep_GoodbyeTerminatesInAnyCase(t *testing.T) {
	for _, in := range []string{"bye", "  BYE  ", "Take Care", "GoodBye\t"} {
		f := newFixture(t, nil)
		o := f.eng.Step(context.Background(), in)
		if o.Next != domain.Terminated || o.Lines[0] != f.pack.Messages.Farewell {
			t.Fatalf("%q: outcome = %+v", in, o)
		}
		if o.Turn.Sentiment != sentiment.Neutral || o.Turn.Polarity != 0 || f.scores != 0 {
			t.Fatalf("%q: turn = %+v scores=%d", in, o.Turn, f.scores)
		}
	}
}

func TestStep_FoldedGoodbyeTerminatesAndPersistsNormalized(t *testing.T) {
	for _, tc := range [][2]string{
		{"ＢＹＥ", "bye"},
		{"bye\u200b", "bye"},
		{"\ufeffTake Care", "take care"},
	} {
		in, want := tc[0], tc[1]
		f := newFixture(t, nil)
		o := f.eng.Step(context.Background(), in)
		if o.Next != domain.Terminated {
			t.Fatalf("%q: next = %v", in, o.Next)
		}
		if o.Turn.UserInput != want || o.Turn.RawInput != in {
			t.Fatalf("%q: user_input = %q raw = %q", in, o.Turn.UserInput, o.Turn.RawInput)
		}
	}
}

func TestStep_GreetingNeverScores(t *testing.T) {
	f := newFixture(t, nil)
	for _, in := range []string{"hello", "Hi", "  what's up "} {
		o := f.eng.Step(context.Background(), in)
		if o.Next != domain.Running || o.Lines[0] != f.pack.Messages.Greeting || o.Turn.Sentiment != sentiment.Neutral {
			t.Fatalf("%q: outcome = %+v", in, o)
		}
	}
	if f.scores != 0 {
		t.Fatalf("greetings scored %d times", f.scores)
	}
	// substrings do not match
	f.eng.Step(context.Background(), "hello there friend")
	if f.scores != 1 {
		t.Fatalf("non exact greeting should be scored once, got %d", f.scores)
	}
}

func TestStep_ScorerFailureApologizes(t *testing.T) {
	f := newFixture(t, sentiment.ScorerFunc(func(context.Context, string) (sentiment.Score, error) {
		return sentiment.Score{Polarity: 0.9, Subjectivity: 0.9}, errors.New("model offline")
	}))
	o := f.eng.Step(context.Background(), "the weather is nice")
	if o.Lines[0] != f.pack.Messages.Apology || f.inAnyCatalog(o.Lines[0]) {
		t.Fatalf("lines = %q", o.Lines)
	}
	if o.Turn.Sentiment != sentiment.Error || o.Turn.Polarity != 0 || o.Turn.Subjectivity != 0 || !o.Persisted {
		t.Fatalf("turn = %+v", o.Turn)
	}
}

func TestStep_ScorerFailureKeepsLanguageWarning(t *testing.T) {
	f := newFixture(t, sentiment.ScorerFunc(func(context.Context, string) (sentiment.Score, error) {
		return sentiment.Score{}, errors.New("model offline")
	}))
	o := f.eng.Step(context.Background(), "c'est la vie et je suis content")
	want := []string{f.pack.Messages.NonEnglish, f.pack.Messages.Apology}
	if !slices.Equal(o.Lines, want) {
		t.Fatalf("lines = %q, want %q", o.Lines, want)
	}
	if o.Turn.Response != strings.Join(want, "\n") || o.Turn.Sentiment != sentiment.Error {
		t.Fatalf("turn = %+v", o.Turn)
	}
}

func TestStep_SharedStopWordsDoNotWarn(t *testing.T) {
	f := newFixture(t, nil)
	for _, in := range []string{"come on", "come back soon", "die hard"} {
		o := f.eng.Step(context.Background(), in)
		if len(o.Lines) != 3 || o.Lines[0] == f.pack.Messages.NonEnglish {
			t.Fatalf("%q: lines = %q", in, o.Lines)
		}
		if strings.HasPrefix(o.Turn.Response, f.pack.Messages.NonEnglish) {
			t.Fatalf("%q: response = %q", in, o.Turn.Response)
		}
	}
}

func TestStep_ZeroPolarityIsNeutral(t *testing.T) {
	f := newFixture(t, sentiment.ScorerFunc(func(context.Context, string) (sentiment.Score, error) {
		return sentiment.Score{Polarity: 0, Subjectivity: 0.3}, nil
	}))
	o := f.eng.Step(context.Background(), "the table is made of wood")
	if o.Turn.Sentiment != sentiment.Neutral || !slices.Contains(f.pack.Replies.Neutral, o.Lines[2]) {
		t.Fatalf("outcome = %+v", o)
	}
	if o.Lines[1] != "Polarity: 0.00, Subjectivity: 0.30" {
		t.Fatalf("metrics = %q", o.Lines[1])
	}
}

func TestStep_NonEnglishWarningIsPrepended(t *testing.T) {
	f := newFixture(t, sentiment.ScorerFunc(func(context.Context, string) (sentiment.Score, error) {
		return sentiment.Score{Polarity: 0.4, Subjectivity: 0.5}, nil
	}))
	o := f.eng.Step(context.Background(), "hola amigo, estoy muy feliz y tú")
	if len(o.Lines) != 4 || o.Lines[0] != f.pack.Messages.NonEnglish {
		t.Fatalf("lines = %q", o.Lines)
	}
	if !strings.HasPrefix(o.Turn.Response, f.pack.Messages.NonEnglish+"\nYou expressed a positive sentiment.") {
		t.Fatalf("response = %q", o.Turn.Response)
	}
	if o.Turn.Sentiment != sentiment.Positive {
		t.Fatalf("warning must not replace scoring: %+v", o.Turn)
	}
}

func TestStep_PersistenceFailureIsSoft(t *testing.T) {
	f := newFixture(t, nil)
	f.turns.err = perr.New(perr.ErrorCodePersistence, "disk full")
	o := f.eng.Step(context.Background(), "I love this!")
	if o.Persisted || !perr.IsCode(o.Err, perr.ErrorCodePersistence) {
		t.Fatalf("outcome = %+v", o)
	}
	if o.Next != domain.Running || len(o.Lines) != 3 {
		t.Fatalf("turn should still complete: %+v", o)
	}
}

func TestStep_UnexpectedFailureRecovers(t *testing.T) {
	f := newFixture(t, nil)
	f.eng.cat = nil // Pick on a nil catalog panics
	o := f.eng.Step(context.Background(), "I love this!")
	if o.Next != domain.Running || o.Lines[0] != f.pack.Messages.Oops {
		t.Fatalf("outcome = %+v", o)
	}
	if o.Turn.Sentiment != sentiment.Error || o.Turn.Polarity != 0 || o.Turn.UserInput != "i love this!" || !o.Persisted {
		t.Fatalf("turn = %+v", o.Turn)
	}
}

func TestStep_EmptyCatalogIsUnexpected(t *testing.T) {
	f := newFixture(t, nil)
	f.eng.cat = catalog.New(nil, nil, nil, nil)
	o := f.eng.Step(context.Background(), "I love this!")
	if o.Lines[0] != f.pack.Messages.Oops || o.Turn.Sentiment != sentiment.Error {
		t.Fatalf("outcome = %+v", o)
	}
}

func TestInterrupt_PersistsAfterCancel(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := f.eng.Interrupt(ctx)
	if o.Next != domain.Terminated || o.Lines[0] != f.pack.Messages.Farewell || !o.Persisted {
		t.Fatalf("outcome = %+v", o)
	}
	if o.Turn.UserInput != "" || o.Turn.Sentiment != sentiment.Neutral {
		t.Fatalf("turn = %+v", o.Turn)
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	pack, _ := replypack.Load()
	cls := sentiment.NewClassifier(sentiment.ScorerFunc(func(context.Context, string) (sentiment.Score, error) {
		return sentiment.Score{}, nil
	}), nil)
	guard := langhint.NewGuard(langhint.NewIdentifier(), "", "w", nil)
	turns := &memTurns{}

	kit.MustPanic(t, func() { New(Components{Classifier: cls, Guard: guard, Turns: turns}) })
	kit.MustPanic(t, func() { New(Components{Pack: pack, Guard: guard, Turns: turns}) })
	kit.MustPanic(t, func() { New(Components{Pack: pack, Classifier: cls, Turns: turns}) })
	kit.MustPanic(t, func() { New(Components{Pack: pack, Classifier: cls, Guard: guard}) })

	e := New(Components{Pack: pack, Classifier: cls, Guard: guard, Turns: turns, BotName: " Sage "})
	if e.BotName() != "Sage" || e.Welcome() != pack.Messages.Welcome {
		t.Fatalf("bot name = %q", e.BotName())
	}
}

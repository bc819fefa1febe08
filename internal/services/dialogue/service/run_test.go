package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"sentibot/internal/core/sentiment"
	kit "sentibot/internal/platform/testkit"
)

func TestRun_TranscriptUntilGoodbye(t *testing.T) {
	f := newFixture(t, nil)
	var out bytes.Buffer
	in := strings.NewReader("I love this!\n\nhello\nbye\nnever read\n")

	if err := f.eng.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := out.String()
	m := f.pack.Messages
	if !strings.HasPrefix(got, "ChatBot: "+m.Welcome+"\nYou: ") {
		t.Fatalf("transcript start = %q", got)
	}
	kit.MustContain(t, got, "ChatBot: You expressed a positive sentiment.\n")
	kit.MustContain(t, got, "ChatBot: Polarity: ")
	kit.MustContain(t, got, "You: ChatBot: "+m.Prompt+"\n")
	kit.MustContain(t, got, "You: ChatBot: "+m.Greeting+"\n")
	if !strings.HasSuffix(got, "You: ChatBot: "+m.Farewell+"\n") {
		t.Fatalf("transcript end = %q", got)
	}
	if strings.Count(got, "You: ") != 4 {
		t.Fatalf("expected four prompts in %q", got)
	}

	turns := f.turns.all()
	want := []sentiment.Class{sentiment.Positive, sentiment.Error, sentiment.Neutral, sentiment.Neutral}
	if len(turns) != len(want) {
		t.Fatalf("persisted %d turns, want %d", len(turns), len(want))
	}
	for i, c := range want {
		if turns[i].Sentiment != c {
			t.Fatalf("turn %d sentiment = %s, want %s", i, turns[i].Sentiment, c)
		}
	}
	if turns[3].UserInput != "bye" {
		t.Fatalf("goodbye turn input = %q", turns[3].UserInput)
	}
}

func TestRun_EndOfInputIsInterrupt(t *testing.T) {
	f := newFixture(t, nil)
	var out bytes.Buffer
	if err := f.eng.Run(context.Background(), strings.NewReader("hello"), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasSuffix(out.String(), "You: \nChatBot: "+f.pack.Messages.Farewell+"\n") {
		t.Fatalf("transcript = %q", out.String())
	}
	turns := f.turns.all()
	if len(turns) != 2 || turns[1].UserInput != "" || turns[1].Sentiment != sentiment.Neutral {
		t.Fatalf("turns = %+v", turns)
	}
}

func TestRun_CancelPersistsFarewell(t *testing.T) {
	f := newFixture(t, nil)
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if err := f.eng.Run(ctx, pr, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	_ = pw.Close()

	want := "ChatBot: " + f.pack.Messages.Welcome + "\nYou: \nChatBot: " + f.pack.Messages.Farewell + "\n"
	if out.String() != want {
		t.Fatalf("transcript = %q, want %q", out.String(), want)
	}
	turns := f.turns.all()
	if len(turns) != 1 || turns[0].UserInput != "" || turns[0].Sentiment != sentiment.Neutral || turns[0].Response != f.pack.Messages.Farewell {
		t.Fatalf("turns = %+v", turns)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestRun_WriteFailureStops(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.eng.Run(context.Background(), strings.NewReader("hi\n"), failWriter{}); err == nil {
		t.Fatalf("expected write error")
	}
	if n := len(f.turns.all()); n != 0 {
		t.Fatalf("no turn should run when output is gone, got %d", n)
	}
}

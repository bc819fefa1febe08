package service

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"sentibot/internal/platform/logger"
	"sentibot/internal/services/dialogue/domain"
)

// Prompt is written before every read
const Prompt = "You: "

// maxLine bounds one console line
const maxLine = 1 << 20

// Run prints the welcome line and loops until goodbye, interrupt or end of input
// ctx cancellation is the interrupt; end of input is treated the same way
func (e *Engine) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	log := logger.From(e.log, ctx)
	log.Info().Str("bot", e.botName).Msg("chat session started")

	if err := e.say(out, e.msg.Welcome); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done, log)

	for {
		if _, err := io.WriteString(out, Prompt); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return e.finish(ctx, out)
		case line, ok := <-lines:
			if !ok {
				log.Info().Msg("end of input")
				return e.finish(ctx, out)
			}
			o := e.Step(ctx, line)
			if err := e.say(out, o.Lines...); err != nil {
				return err
			}
			if o.Next == domain.Terminated {
				return nil
			}
		}
	}
}

// finish runs the interrupt turn and prints its farewell on a fresh line
func (e *Engine) finish(ctx context.Context, out io.Writer) error {
	o := e.Interrupt(ctx)
	if _, err := io.WriteString(out, "\n"); err != nil {
		return err
	}
	return e.say(out, o.Lines...)
}

func (e *Engine) say(out io.Writer, lines ...string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintf(out, "%s: %s\n", e.botName, l); err != nil {
			return err
		}
	}
	return nil
}

// readLines feeds lines from in until it ends or done is closed
// The channel is closed on end of input or a read error
func readLines(in io.Reader, done <-chan struct{}, log *logger.Logger) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 0, 4096), maxLine)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-done:
				return
			}
		}
		if err := sc.Err(); err != nil {
			log.Warn().Err(err).Msg("input read failed")
		}
	}()
	return ch
}

package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sentibot/internal/core/sentiment"
	perr "sentibot/internal/platform/errors"
	"sentibot/internal/platform/logger"
	"sentibot/internal/services/interactions/domain"
)

// File keeps the whole log as one JSON array and rewrites it on every append
type File struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
}

// NewFile returns a file backend rooted at path
func NewFile(path string, log *logger.Logger) *File {
	if path == "" {
		panic("interactions.NewFile requires a path")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &File{path: path, log: log}
}

// Path returns the log location
func (f *File) Path() string { return f.path }

// fileTurn is the on-disk record; timestamps decode leniently
type fileTurn struct {
	Timestamp    string          `json:"timestamp"`
	UserInput    string          `json:"user_input"`
	Sentiment    sentiment.Class `json:"sentiment"`
	Polarity     float64         `json:"polarity"`
	Subjectivity float64         `json:"subjectivity"`
	Response     string          `json:"response"`
}

// layouts accepted on read, newest writer first
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, l := range layouts {
		if ts, err := time.Parse(l, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Load returns the filtered log; a missing, unreadable or unparsable file is empty
func (f *File) Load(ctx context.Context, flt domain.Filter) ([]domain.Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return flt.Apply(f.readAll(ctx)), nil
}

// Append reads the current log, adds t and atomically replaces the file
func (f *File) Append(ctx context.Context, t domain.Turn) error {
	if err := ctx.Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodePersistence, "append turn")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	all := append(f.readAll(ctx), t)
	out := make([]fileTurn, 0, len(all))
	for _, x := range all {
		out = append(out, fileTurn{
			Timestamp:    x.Timestamp.Format(time.RFC3339Nano),
			UserInput:    x.UserInput,
			Sentiment:    x.Sentiment,
			Polarity:     x.Polarity,
			Subjectivity: x.Subjectivity,
			Response:     x.Response,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(out); err != nil {
		return perr.Wrap(err, perr.ErrorCodePersistence, "encode interaction log")
	}
	if err := writeAtomic(f.path, buf.Bytes()); err != nil {
		return perr.Wrapf(err, perr.ErrorCodePersistence, "write %s", f.path)
	}
	return nil
}

func (f *File) readAll(ctx context.Context) []domain.Turn {
	log := logger.From(f.log, ctx)
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", f.path).Msg("interaction log unreadable, starting empty")
		}
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var recs []fileTurn
	if err := json.Unmarshal(raw, &recs); err != nil {
		log.Warn().Err(err).Str("path", f.path).Msg("interaction log corrupt, starting empty")
		return nil
	}
	out := make([]domain.Turn, 0, len(recs))
	for i, r := range recs {
		ts, ok := parseTimestamp(r.Timestamp)
		if !ok {
			log.Warn().Int("index", i).Str("timestamp", r.Timestamp).Msg("interaction log corrupt, starting empty")
			return nil
		}
		out = append(out, domain.Turn{
			Timestamp:    ts,
			UserInput:    r.UserInput,
			Sentiment:    r.Sentiment,
			Polarity:     r.Polarity,
			Subjectivity: r.Subjectivity,
			Response:     r.Response,
		})
	}
	return out
}

// writeAtomic writes to a sibling temp file and renames it over path
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

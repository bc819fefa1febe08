// Package service contains the interaction log workflows
package service

import (
	"context"
	"strings"
	"time"

	"sentibot/internal/core/sentiment"
	perr "sentibot/internal/platform/errors"
	"sentibot/internal/platform/logger"
	"sentibot/internal/services/interactions/domain"
	"sentibot/internal/services/interactions/repo"

	"github.com/google/uuid"
)

// DefaultHardLimit caps List when no limit is configured
const DefaultHardLimit = 500

// Service defines the service contract for the interaction log
type Service interface{ domain.ServicePort }

// Svc implements the Service interface over one Storage backend
type Svc struct {
	st        repo.Storage
	hardLimit int
	log       *logger.Logger
	now       func() time.Time
}

// New creates an interaction log service
func New(st repo.Storage, hardLimit int, log *logger.Logger) *Svc {
	if st == nil {
		panic("interactions.Service requires a non nil Storage")
	}
	if hardLimit <= 0 {
		hardLimit = DefaultHardLimit
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Svc{st: st, hardLimit: hardLimit, log: log, now: time.Now}
}

// Append persists one fully formed turn
// Missing ids and timestamp are filled; the session id comes from ctx when unset
func (s *Svc) Append(ctx context.Context, t domain.Turn) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.SessionID == "" {
		t.SessionID = logger.SessionID(ctx)
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = s.now()
	}
	t.Timestamp = t.Timestamp.UTC()

	log := logger.From(s.log, ctx)
	if err := s.st.Append(ctx, t); err != nil {
		if !perr.IsCode(err, perr.ErrorCodePersistence) {
			err = perr.Wrap(err, perr.ErrorCodePersistence, "append turn")
		}
		log.Error().Err(err).Str("turn_id", t.ID).Msg("interaction not persisted")
		return err
	}
	log.Debug().
		Str("turn_id", t.ID).
		Str("sentiment", string(t.Sentiment)).
		Msg("interaction persisted")
	return nil
}

// List returns the newest matching turns in log order, capped by the hard limit
func (s *Svc) List(ctx context.Context, in domain.ListInput) ([]domain.TurnView, error) {
	f, err := s.filter(in)
	if err != nil {
		return nil, err
	}
	turns, err := s.st.Load(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TurnView, 0, len(turns))
	for _, t := range turns {
		out = append(out, View(t))
	}
	return out, nil
}

// Stats counts turns per class and averages the scores of non error turns
func (s *Svc) Stats(ctx context.Context) (domain.Stats, error) {
	turns, err := s.st.Load(ctx, domain.Filter{})
	if err != nil {
		return domain.Stats{}, err
	}
	st := domain.Stats{
		ByClass: map[sentiment.Class]int{
			sentiment.Positive: 0,
			sentiment.Negative: 0,
			sentiment.Neutral:  0,
			sentiment.Error:    0,
		},
	}
	var sumP, sumS float64
	for _, t := range turns {
		st.Total++
		st.ByClass[t.Sentiment]++
		if t.Sentiment == sentiment.Error {
			continue
		}
		st.Scored++
		sumP += t.Polarity
		sumS += t.Subjectivity
	}
	if st.Scored > 0 {
		st.MeanPolarity = sumP / float64(st.Scored)
		st.MeanSubjectivity = sumS / float64(st.Scored)
	}
	return st, nil
}

func (s *Svc) filter(in domain.ListInput) (domain.Filter, error) {
	var f domain.Filter
	if c := sentiment.Class(strings.ToLower(strings.TrimSpace(in.Sentiment))); c != "" {
		if !c.Valid() {
			return f, perr.WithField(perr.InvalidArgf("unknown sentiment %q", in.Sentiment), "sentiment")
		}
		f.Sentiment = c
	}
	if in.Since != "" {
		ts, err := time.Parse(time.RFC3339, in.Since)
		if err != nil {
			return f, perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "since must be RFC 3339"), "since")
		}
		f.Since = ts
	}
	switch {
	case in.Limit < 0:
		return f, perr.WithField(perr.InvalidArgf("limit must be positive"), "limit")
	case in.Limit == 0 || in.Limit > s.hardLimit:
		f.Limit = s.hardLimit
	default:
		f.Limit = in.Limit
	}
	return f, nil
}

// View is the wire shape of t
func View(t domain.Turn) domain.TurnView {
	return domain.TurnView{
		Timestamp:    t.Timestamp.UTC().Format(time.RFC3339Nano),
		UserInput:    t.UserInput,
		Sentiment:    string(t.Sentiment),
		Polarity:     t.Polarity,
		Subjectivity: t.Subjectivity,
		Response:     t.Response,
	}
}

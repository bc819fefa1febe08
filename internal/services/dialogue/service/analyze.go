package service

import (
	"context"

	"sentibot/internal/core/normalize"
	"sentibot/internal/core/phrases"
	"sentibot/internal/core/sentiment"
	"sentibot/internal/services/dialogue/domain"
)

// Analyze runs normalization, intent matching, the language guard and the classifier on one text
// Nothing is persisted and no reply is picked; greetings, goodbyes and empty text are not scored
func (e *Engine) Analyze(ctx context.Context, in domain.AnalyzeInput) (domain.Analysis, error) {
	norm := normalize.Text(in.Text)
	intent := e.match.Match(norm)
	out := domain.Analysis{
		Text:       in.Text,
		Normalized: norm,
		Intent:     intent.String(),
		Sentiment:  string(sentiment.Neutral),
	}
	switch {
	case norm == "":
		out.Sentiment = string(sentiment.Error)
		out.Error = e.msg.Prompt
		return out, nil
	case intent != phrases.IntentNone:
		return out, nil
	}

	out.Warning = e.guard.Check(ctx, norm)
	res := e.cls.Classify(ctx, norm)
	out.Sentiment = string(res.Class)
	if res.Class == sentiment.Error {
		out.Error = e.msg.Apology
		return out, nil
	}
	out.Polarity, out.Subjectivity = res.Polarity, res.Subjectivity
	return out, nil
}

package domain

import "sentibot/internal/core/sentiment"

// ListInput is the query for reading turns back
type ListInput struct {
	Sentiment string `json:"sentiment,omitempty" validate:"omitempty,oneof=positive negative neutral error" example:"positive"`
	Since     string `json:"since,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00" example:"2025-01-01T00:00:00Z"`
	Limit     int    `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"50"`
}

// TurnView is the wire shape of a persisted turn
type TurnView struct {
	Timestamp    string  `json:"timestamp"`
	UserInput    string  `json:"user_input"`
	Sentiment    string  `json:"sentiment"`
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
	Response     string  `json:"response"`
}

// Stats summarizes the log
// Means cover every turn not labelled error
type Stats struct {
	Total            int                     `json:"total"`
	ByClass          map[sentiment.Class]int `json:"by_class"`
	Scored           int                     `json:"scored"`
	MeanPolarity     float64                 `json:"mean_polarity"`
	MeanSubjectivity float64                 `json:"mean_subjectivity"`
}

package domain

// AnalyzeInput is the body of a stateless analysis request
type AnalyzeInput struct {
	Text string `json:"text" validate:"max=4096" example:"I love this!"`
}

// Analysis is what one turn would compute for Text, without replying or persisting
type Analysis struct {
	Text         string  `json:"text"`
	Normalized   string  `json:"normalized"`
	Intent       string  `json:"intent"`
	Warning      string  `json:"warning,omitempty"`
	Sentiment    string  `json:"sentiment"`
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
	Error        string  `json:"error,omitempty"`
}

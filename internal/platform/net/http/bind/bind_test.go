package bind

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "sentibot/internal/platform/errors"
)

type analyzeReq struct {
	Text string `json:"text" validate:"required,max=16"`
}

type historyQuery struct {
	Sentiment string `json:"sentiment,omitempty" validate:"omitempty,oneof=positive negative neutral error"`
	Since     string `json:"since,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Limit     int    `json:"limit,omitempty" validate:"omitempty,min=1,max=500"`
	Secret    int    `json:"-" validate:"max=0"`
	Plain     int    `validate:"max=0"`
}

func TestParseJSON(t *testing.T) {
	cases := []struct {
		name   string
		method string
		body   string
		opts   []JSONOptions
		want   string
		code   perr.ErrorCode
	}{
		{"ok", http.MethodPost, `{"text":"i love this"}`, nil, "i love this", perr.ErrorCodeUnknown},
		{"trailing whitespace ok", http.MethodPost, "{\"text\":\"hi\"}\n  ", nil, "hi", perr.ErrorCodeUnknown},
		{"empty post", http.MethodPost, ``, nil, "", perr.ErrorCodeJSON},
		{"empty get", http.MethodGet, ``, nil, "", perr.ErrorCodeUnknown},
		{"empty allowed", http.MethodPost, ``, []JSONOptions{{AllowEmptyBody: true}}, "", perr.ErrorCodeUnknown},
		{"broken", http.MethodPost, `{"text":`, nil, "", perr.ErrorCodeJSON},
		{"unknown field", http.MethodPost, `{"text":"hi","mood":1}`, nil, "", perr.ErrorCodeJSON},
		{"unknown allowed", http.MethodPost, `{"text":"hi","mood":1}`, []JSONOptions{{AllowUnknown: true}}, "hi", perr.ErrorCodeUnknown},
		{"second document", http.MethodPost, `{"text":"hi"} {"text":"again"}`, nil, "", perr.ErrorCodeJSON},
		{"over limit", http.MethodPost, `{"text":"hello"}`, []JSONOptions{{MaxBytes: 6}}, "", perr.ErrorCodeJSON},
		{"unlimited", http.MethodPost, `{"text":"hello"}`, []JSONOptions{{MaxBytes: -1}}, "hello", perr.ErrorCodeUnknown},
		{"missing text", http.MethodPost, `{}`, nil, "", perr.ErrorCodeValidation},
		{"too long", http.MethodPost, `{"text":"this is far too long"}`, nil, "", perr.ErrorCodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/v1/dialogue/analyze", strings.NewReader(tc.body))
			got, err := ParseJSON[analyzeReq](req, tc.opts...)
			if code := perr.CodeOf(err); code != tc.code || (err == nil) != (tc.code == perr.ErrorCodeUnknown) {
				t.Fatalf("err = %v (code %v) want code %v", err, code, tc.code)
			}
			if got.Text != tc.want {
				t.Fatalf("text = %q want %q", got.Text, tc.want)
			}
		})
	}
}

func TestParseJSON_NonObjectPayload(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`5`))
	if _, err := ParseJSON[int](req); perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("err = %v", err)
	}
}

func TestStruct_FieldNamesAndMessages(t *testing.T) {
	cases := []struct {
		in        historyQuery
		wantField string
		wantMsg   string
	}{
		{historyQuery{Limit: 501}, "limit", "limit must be at most 500"},
		{historyQuery{Sentiment: "angry"}, "sentiment", "sentiment must be one of [positive negative neutral error]"},
		{historyQuery{Since: "yesterday"}, "since", "since must be a timestamp like 2006-01-02T15:04:05Z07:00"},
		{historyQuery{Secret: 1}, "Secret", "Secret must be at most 0"},
		{historyQuery{Plain: 1}, "Plain", "Plain must be at most 0"},
	}
	for _, tc := range cases {
		err := Struct(tc.in)
		fe, ok := perr.As(err)
		if !ok || fe.Code() != perr.ErrorCodeValidation {
			t.Fatalf("Struct(%+v) = %v", tc.in, err)
		}
		if fe.Field() != tc.wantField || err.Error() != tc.wantMsg {
			t.Fatalf("field=%q msg=%q want %q %q", fe.Field(), err.Error(), tc.wantField, tc.wantMsg)
		}
	}
	if err := Struct(historyQuery{Sentiment: "neutral", Since: "2025-01-01T00:00:00Z", Limit: 50}); err != nil {
		t.Fatalf("valid query rejected: %v", err)
	}
}

func TestFirstViolation_PlainError(t *testing.T) {
	if f, m := firstViolation(errors.New("boom")); f != "" || m != "boom" {
		t.Fatalf("firstViolation = %q %q", f, m)
	}
}

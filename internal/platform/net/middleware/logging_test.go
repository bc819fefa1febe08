package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sentibot/internal/platform/logger"
	pnet "sentibot/internal/platform/net"
	"sentibot/internal/platform/net/middleware"

	"github.com/rs/zerolog"
)

type accessLine struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Bytes     int    `json:"bytes"`
	Slow      bool   `json:"slow"`
	RequestID string `json:"request_id"`
}

func TestAccessLogZerolog(t *testing.T) {
	cases := []struct {
		name      string
		slow      time.Duration
		sleep     time.Duration
		status    int
		body      string
		wantLevel string
		wantSlow  bool
	}{
		{"created", 0, 0, http.StatusCreated, "ok", "info", false},
		{"implicit 200", 0, 0, 0, "hello", "info", false},
		{"slow", 5 * time.Millisecond, 10 * time.Millisecond, http.StatusOK, "zzz", "warn", true},
		{"server error wins over slow", 5 * time.Millisecond, 10 * time.Millisecond, http.StatusBadGateway, "", "error", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := logger.Logger(zerolog.New(&buf))
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(c.sleep)
				if c.status != 0 {
					w.WriteHeader(c.status)
				}
				_, _ = io.WriteString(w, c.body)
			})
			h := middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: c.slow, Log: &base})(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/interactions", nil)
			req = req.WithContext(pnet.WithRequest(req.Context(), "rid-7"))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Body.String() != c.body {
				t.Fatalf("body = %q", rec.Body.String())
			}
			var line accessLine
			if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
				t.Fatalf("decode %q: %v", buf.String(), err)
			}
			wantStatus := c.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}
			if line.Level != c.wantLevel || line.Slow != c.wantSlow || line.Status != wantStatus {
				t.Fatalf("line = %+v", line)
			}
			if line.Message != "request done" || line.Path != "/api/v1/interactions" || line.Bytes != len(c.body) || line.RequestID != "rid-7" {
				t.Fatalf("line = %+v", line)
			}
		})
	}
}

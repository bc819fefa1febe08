package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "sentibot/internal/platform/errors"
	pnet "sentibot/internal/platform/net"
	phttp "sentibot/internal/platform/net/http"
)

func requestWithID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(pnet.WithRequest(req.Context(), rid))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v (%q)", err, rec.Body.String())
	}
	return env
}

func TestRespondData_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.RespondData(rec, requestWithID(http.MethodGet, "/api/v1/interactions/stats", "rid-1"), http.StatusOK,
		map[string]int{"positive": 2})

	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type = %q", ct)
	}
	env := decode(t, rec)
	if env.StatusCode != 200 || env.Status != "OK" || env.RequestID != "rid-1" || env.Code != 0 || env.Error != "" {
		t.Fatalf("envelope = %+v", env)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte(`"code"`)) {
		t.Fatalf("success body carries an error code: %s", rec.Body.String())
	}
	if data, _ := env.Data.(map[string]any); data["positive"] != float64(2) {
		t.Fatalf("data = %#v", env.Data)
	}
}

func TestRespondError_MapsCodes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   perr.ErrorCode
		msg    string
	}{
		{"not found", perr.New(perr.ErrorCodeNotFound, "no turns"), http.StatusNotFound, perr.ErrorCodeNotFound, "no turns"},
		{"validation", perr.New(perr.ErrorCodeValidation, "text too long"), http.StatusBadRequest, perr.ErrorCodeValidation, "text too long"},
		{"scoring", perr.New(perr.ErrorCodeScoring, "no score"), http.StatusUnprocessableEntity, perr.ErrorCodeScoring, "no score"},
		{"unavailable", perr.Unavailablef("pg down"), http.StatusServiceUnavailable, perr.ErrorCodeUnavailable, "pg down"},
		{
			"persistence hides cause",
			perr.WithOp(perr.Wrap(errors.New("pq: disk full"), perr.ErrorCodePersistence, "sqlite: insert"), "interactions.sqlite"),
			http.StatusInternalServerError, perr.ErrorCodePersistence, "sqlite: insert",
		},
		{"plain", errors.New("boom"), http.StatusInternalServerError, perr.ErrorCodeUnknown, "boom"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			phttp.RespondError(rec, requestWithID(http.MethodGet, "/err", "rid-3"), c.err)
			if rec.Code != c.status {
				t.Fatalf("status = %d, want %d", rec.Code, c.status)
			}
			env := decode(t, rec)
			if env.Code != c.code || env.Error != c.msg || env.RequestID != "rid-3" || env.StatusCode != c.status || env.Data != nil {
				t.Fatalf("envelope = %+v", env)
			}
		})
	}
}

func TestHandle(t *testing.T) {
	ok := phttp.Handle(func(*http.Request) (any, error) { return []string{"hello"}, nil })
	rec := httptest.NewRecorder()
	ok(rec, requestWithID(http.MethodGet, "/ok", "rid-4"))
	if env := decode(t, rec); rec.Code != http.StatusOK || env.RequestID != "rid-4" || env.Data == nil {
		t.Fatalf("ok: %d %+v", rec.Code, env)
	}

	fail := phttp.Handle(func(*http.Request) (any, error) {
		return "ignored", perr.New(perr.ErrorCodeNotFound, "nope")
	})
	rec = httptest.NewRecorder()
	fail(rec, requestWithID(http.MethodGet, "/err", "rid-5"))
	if env := decode(t, rec); rec.Code != http.StatusNotFound || env.Code != perr.ErrorCodeNotFound || env.Data != nil {
		t.Fatalf("fail: %d %+v", rec.Code, env)
	}
}

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const boxSource = `package com.example;

public abstract class Box<@Reify(Widget.class) T> {
	public abstract T newT();
	public abstract Class<T> classT();
}
`

const widgetSource = `package com.example;

public class Widget {
	public Widget() {}
}
`

func newTestServer(t *testing.T) (*Server, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	return New(Options{Format: "java"}, zap.New(core)), logs
}

func post(t *testing.T, s *Server, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	_, err := uuid.Parse(rec.Header().Get(HeaderRequestID))
	assert.NoError(t, err)
}

func TestServer_Reify(t *testing.T) {
	s, logs := newTestServer(t)

	rec := post(t, s, "/v1/reify", ReifyRequest{Sources: map[string]string{
		"Box.rdecl":    boxSource,
		"Widget.rdecl": widgetSource,
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ReifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, rec.Header().Get(HeaderRequestID), resp.RequestID)
	assert.Equal(t, 1, resp.Requests)
	assert.Equal(t, 0, resp.Failed)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "com/example/Box$Widget.java", resp.Files[0].Path)
	assert.Contains(t, resp.Files[0].Content, "public class Box$Widget extends Box<Widget> {")
	assert.Contains(t, resp.Files[0].Content, "return new Widget();")
	assert.Contains(t, resp.Files[0].Content, "return Widget.class;")

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/v1/reify", fields[FieldPath])
	assert.EqualValues(t, http.StatusOK, fields[FieldStatus])
	assert.Equal(t, resp.RequestID, fields[FieldRequestID])
}

func TestServer_ReifyQueryOverrides(t *testing.T) {
	s, _ := newTestServer(t)

	rec := post(t, s, "/v1/reify?format=json&separator=_", ReifyRequest{Sources: map[string]string{
		"Box.rdecl":    boxSource,
		"Widget.rdecl": widgetSource,
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ReifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "com/example/Box_Widget.json", resp.Files[0].Path)
	assert.Contains(t, resp.Files[0].Content, `"strategy": "new-instance"`)
}

func TestServer_ReifyFailuresAreDiagnostics(t *testing.T) {
	s, _ := newTestServer(t)

	rec := post(t, s, "/v1/reify", ReifyRequest{Sources: map[string]string{
		"Box.rdecl": `package com.example;

public abstract class Box<@Reify(Widget.class) T> {
	public abstract T newT(int size);
}
`,
		"Widget.rdecl": widgetSource,
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ReifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Failed)
	assert.Empty(t, resp.Files)

	var severities []string
	for _, d := range resp.Diagnostics {
		severities = append(severities, d.Severity.String())
	}
	assert.Contains(t, severities, "ERROR")
	assert.Contains(t, rec.Body.String(), `"severity":"ERROR"`)
}

func TestServer_ReifyBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   any
		status int
		want   string
	}{
		{
			name:   "no sources",
			target: "/v1/reify",
			body:   map[string]any{},
			status: http.StatusBadRequest,
			want:   "sources",
		},
		{
			name:   "unknown file kind",
			target: "/v1/reify",
			body:   ReifyRequest{Sources: map[string]string{"Box.java": boxSource}},
			status: http.StatusBadRequest,
			want:   "Box.java",
		},
		{
			name:   "unknown format",
			target: "/v1/reify?format=kotlin",
			body:   ReifyRequest{Sources: map[string]string{"Box.rdecl": boxSource}},
			status: http.StatusBadRequest,
			want:   "format",
		},
		{
			name:   "syntax error",
			target: "/v1/reify",
			body:   ReifyRequest{Sources: map[string]string{"Box.rdecl": "package com.example;\nclass {"}},
			status: http.StatusUnprocessableEntity,
			want:   "Box.rdecl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t)
			rec := post(t, s, tt.target, tt.body)

			assert.Equal(t, tt.status, rec.Code)
			var httpErr HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &httpErr))
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.NotEmpty(t, httpErr.RequestID)
			require.NotEmpty(t, httpErr.Details)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestServer_MalformedJSON(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/reify", strings.NewReader(`{"sources":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
}

func TestServer_NotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v2/reify", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var httpErr HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &httpErr))
	assert.Equal(t, "Not Found", httpErr.Message)
}

func TestServer_KeepsClientRequestID(t *testing.T) {
	s, _ := newTestServer(t)
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(HeaderRequestID))
}

package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bulletinmirror/pkg/api"
)

// accessEntry одна JSON-запись access-лога
type accessEntry struct {
	Level      string `json:"level"`
	Msg        string `json:"msg"`
	RequestID  string `json:"request_id"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	RemoteAddr string `json:"remote_addr"`
	UserAgent  string `json:"user_agent"`
	Caller     string `json:"caller"`
	Status     int    `json:"status"`
	Bytes      int64  `json:"bytes_written"`
	DurationMS int64  `json:"duration_ms"`
}

func jsonLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewJSONHandler(buf, nil)), buf
}

func decodeEntries(t *testing.T, buf *bytes.Buffer) []accessEntry {
	t.Helper()
	var entries []accessEntry
	dec := json.NewDecoder(buf)
	for dec.More() {
		var e accessEntry
		require.NoError(t, dec.Decode(&e))
		entries = append(entries, e)
	}
	return entries
}

func TestLoggingMiddleware_AccessEntry(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		body   string
		level  string
	}{
		{name: "accounts listed", path: "/api/v1/mirror/accounts", status: http.StatusOK, body: `{"result_code":"OK"}`, level: "INFO"},
		{name: "stranger", path: "/api/v1/mirror/accounts", status: http.StatusForbidden, body: `{"result_code":"NOT_AUTHORIZED"}`, level: "WARN"},
		{name: "busy", path: "/api/v1/mirror/accounts/acct1/available", status: http.StatusTooManyRequests, level: "WARN"},
		{name: "store failure", path: "/api/v1/mirror/accounts/acct1/bulletins", status: http.StatusInternalServerError, body: "x", level: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := jsonLogger()
			h := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.RemoteAddr = "192.0.2.7:40000"
			req.Header.Set("User-Agent", "bulletinmirror/1.0")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			entries := decodeEntries(t, buf)
			require.Len(t, entries, 1)
			e := entries[0]
			assert.Equal(t, "HTTP request", e.Msg)
			assert.Equal(t, tt.level, e.Level)
			assert.Equal(t, tt.status, e.Status)
			assert.Equal(t, int64(len(tt.body)), e.Bytes)
			assert.Equal(t, tt.path, e.Path)
			assert.Equal(t, http.MethodGet, e.Method)
			assert.Equal(t, "192.0.2.7:40000", e.RemoteAddr)
			assert.Equal(t, "bulletinmirror/1.0", e.UserAgent)
			assert.Empty(t, e.Caller)
			assert.GreaterOrEqual(t, e.DurationMS, int64(0))
		})
	}
}

func TestLoggingMiddleware_ImplicitOK(t *testing.T) {
	logger, buf := jsonLogger()
	h := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("chunk-"))
		_, _ = w.Write([]byte("data"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/mirror/chunk", nil))

	entries := decodeEntries(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, http.StatusOK, entries[0].Status)
	assert.Equal(t, int64(10), entries[0].Bytes)
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	var seen string
	logger, buf := jsonLogger()
	h := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	fixed := uuid.NewString()
	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "absent", header: ""},
		{name: "valid uuid", header: fixed, keep: true},
		{name: "log injection", header: "abc\nlevel=ERROR msg=forged"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/mirror/accounts", nil)
			if tt.header != "" {
				req.Header.Set(api.HeaderRequestID, tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			_, err := uuid.Parse(seen)
			require.NoError(t, err)
			if tt.keep {
				assert.Equal(t, tt.header, seen)
			}
			assert.Equal(t, seen, w.Header().Get(api.HeaderRequestID))

			entries := decodeEntries(t, buf)
			require.Len(t, entries, 1)
			assert.Equal(t, seen, entries[0].RequestID)
		})
	}

	assert.Empty(t, GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestSanitizePath(t *testing.T) {
	key := strings.Repeat("k", 43)
	code := strings.Repeat("k", 12) + "…"

	tests := map[string]string{
		"/api/v1/health":                                        "/api/v1/health",
		"/api/v1/mirror/accounts":                               "/api/v1/mirror/accounts",
		"/api/v1/mirror/accounts/":                              "/api/v1/mirror/accounts/",
		"/api/v1/mirror/accounts/acct1/available":               "/api/v1/mirror/accounts/acct1/available",
		"/api/v1/mirror/accounts/" + key:                        "/api/v1/mirror/accounts/" + code,
		"/api/v1/mirror/accounts/" + key + "/bulletins/B-1/raw": "/api/v1/mirror/accounts/" + code + "/bulletins/B-1/raw",
	}

	for in, want := range tests {
		assert.Equal(t, want, sanitizePath(in), in)
	}
}

func TestLoggingWithSkip(t *testing.T) {
	logger, buf := jsonLogger()
	var ids []string
	h := LoggingWithSkip(logger, []string{"/api/v1/health"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, GetRequestID(r.Context()))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Zero(t, buf.Len(), "health probes stay out of the access log")

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/mirror/accounts", nil))
	entries := decodeEntries(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/v1/mirror/accounts", entries[0].Path)

	require.Len(t, ids, 2)
	assert.Empty(t, ids[0])
	assert.NotEmpty(t, ids[1])
}

func TestStatusRecorder_Unwrap(t *testing.T) {
	w := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	assert.Same(t, w, sr.Unwrap())
	require.NoError(t, http.NewResponseController(sr).Flush())
	assert.True(t, w.Flushed)
}

func TestStatusRecorder_FirstStatusWins(t *testing.T) {
	tests := []struct {
		name  string
		write func(w http.ResponseWriter)
		want  int
	}{
		{
			name: "late 504 after body",
			write: func(w http.ResponseWriter) {
				_, _ = w.Write([]byte(`{"result_code":"OK"}`))
				w.WriteHeader(http.StatusGatewayTimeout)
			},
			want: http.StatusOK,
		},
		{
			name: "second WriteHeader",
			write: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: http.StatusTooManyRequests,
		},
		{
			name:  "nothing written",
			write: func(http.ResponseWriter) {},
			want:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := jsonLogger()
			h := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.write(w)
			}))

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/mirror/accounts", nil))

			assert.Equal(t, tt.want, w.Code, "client saw the first status")
			entries := decodeEntries(t, buf)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0].Status)
		})
	}
}

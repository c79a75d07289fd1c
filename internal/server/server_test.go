package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bulletinmirror/internal/server/handlers"
	"github.com/iudanet/bulletinmirror/pkg/api"
)

func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := setupTestLogger()

	service := &handlers.MirrorServiceMock{
		IsAuthorizedForMirroringFunc: func(ctx context.Context, callerID string) bool { return callerID == "peer" },
		ListAccountsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"acct1"}, nil
		},
	}
	opts := Options{
		Addr: "127.0.0.1:0",
		Verify: func(token string) (string, error) {
			if token != "valid" {
				return "", assert.AnError
			}
			return "peer", nil
		},
		RateLimit: 2,
	}
	return New(opts,
		handlers.NewMirrorHandler(logger, service, false),
		handlers.NewHealthHandler(logger, "test", "", nil, nil),
		logger,
	)
}

func serve(t *testing.T, h http.Handler, path, token string) (*httptest.ResponseRecorder, api.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var body api.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRouter_HealthWithoutToken(t *testing.T) {
	s := newTestServer(t)
	defer s.limiter.Stop()

	w, _ := serve(t, s.Handler(), "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_MirrorRequiresToken(t *testing.T) {
	s := newTestServer(t)
	defer s.limiter.Stop()

	w, body := serve(t, s.Handler(), "/api/v1/mirror/accounts", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, api.ResultNotAuthorized, body.ResultCode)

	w, body = serve(t, s.Handler(), "/api/v1/mirror/accounts", "valid")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, api.ResultOK, body.ResultCode)
	assert.NotEmpty(t, w.Header().Get(api.HeaderRequestID))
}

func TestRouter_RateLimitPerPeer(t *testing.T) {
	s := newTestServer(t)
	defer s.limiter.Stop()

	for range 2 {
		w, _ := serve(t, s.Handler(), "/api/v1/mirror/accounts", "valid")
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, body := serve(t, s.Handler(), "/api/v1/mirror/accounts", "valid")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, api.ResultNoServer, body.ResultCode)
}

func TestRouter_UnknownRoute(t *testing.T) {
	s := newTestServer(t)
	defer s.limiter.Stop()

	w, body := serve(t, s.Handler(), "/api/v2/whatever", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, api.ResultUnknownCommand, body.ResultCode)
}

func TestServer_RunAndShutdown(t *testing.T) {
	s := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/api/v1/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

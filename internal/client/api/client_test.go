package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bulletinmirror/internal/crypto"
	"github.com/iudanet/bulletinmirror/internal/jwt"
	"github.com/iudanet/bulletinmirror/internal/mirror"
	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/server"
	"github.com/iudanet/bulletinmirror/internal/server/handlers"
	"github.com/iudanet/bulletinmirror/internal/server/middleware"
	"github.com/iudanet/bulletinmirror/internal/server/storage/boltdb"
	"github.com/iudanet/bulletinmirror/internal/supplier"
	"github.com/iudanet/bulletinmirror/internal/transfer"
	"github.com/iudanet/bulletinmirror/pkg/api"
)

func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// peerFixture поднимает поставщика (bbolt + supplier + HTTP) и клиента к нему
type peerFixture struct {
	store          *boltdb.Storage
	supplierSigner *crypto.Signer
	pullerSigner   *crypto.Signer
	client         *Client
	httpServer     *httptest.Server
}

func newPeerFixture(t *testing.T, legacyOnly bool, maxChunk int64) *peerFixture {
	t.Helper()
	logger := setupTestLogger()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "supplier.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	supplierSigner, err := crypto.GenerateSigner()
	require.NoError(t, err)
	pullerSigner, err := crypto.GenerateSigner()
	require.NoError(t, err)

	auth := &supplier.AuthorizerMock{
		IsAuthorizedCallerFunc: func(ctx context.Context, publicKey string) (bool, error) {
			return publicKey == pullerSigner.PublicKeyString(), nil
		},
	}
	service := supplier.NewService(store, auth, supplierSigner, maxChunk, logger)

	limiter := middleware.NewRateLimiter(1000, time.Minute, logger)
	t.Cleanup(limiter.Stop)

	router := server.NewRouter(
		server.Options{Verify: jwt.Verify},
		handlers.NewMirrorHandler(logger, service, legacyOnly),
		handlers.NewHealthHandler(logger, "test", supplierSigner.PublicCode(), store, nil),
		limiter,
		logger,
	)
	httpServer := httptest.NewServer(router)
	t.Cleanup(httpServer.Close)

	return &peerFixture{
		store:          store,
		supplierSigner: supplierSigner,
		pullerSigner:   pullerSigner,
		client:         NewClient(httpServer.URL, jwt.NewIssuer(pullerSigner, time.Minute), 5*time.Second, logger),
		httpServer:     httpServer,
	}
}

func (f *peerFixture) save(t *testing.T, account, local string, status models.RecordStatus, mtime int64, payload []byte) models.UniversalID {
	t.Helper()
	uid := models.NewUniversalID(account, local)
	b := models.NewBulletin(uid, status, mtime, payload)
	receipt := models.NewUploadRecord(uid, b.PayloadDigest, mtime, f.supplierSigner.Sign)
	require.NoError(t, f.store.SaveUploaded(context.Background(), b, payload, receipt))
	return uid
}

func TestClient_Enumeration(t *testing.T) {
	f := newPeerFixture(t, false, 0)
	ctx := context.Background()

	account := f.supplierSigner.PublicKeyString()
	f.save(t, account, "D-1", models.StatusDraft, 100, []byte("draft"))
	f.save(t, account, "S-1", models.StatusSealed, 200, []byte("sealed"))

	accounts, err := f.client.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{account}, accounts)

	items, err := f.client.ListAvailableItems(ctx, account)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, account, item.UID.AccountID)
		assert.Contains(t, []models.RecordStatus{models.StatusDraft, models.StatusSealed}, item.Status)
		assert.NotEmpty(t, item.HeaderSignature)
	}

	legacy, err := f.client.ListBulletinsForMirroring(ctx, account)
	require.NoError(t, err)
	require.Len(t, legacy, 1)
	assert.Equal(t, "S-1", legacy[0].LocalID)
}

func TestClient_ReceiptAndChunks(t *testing.T) {
	f := newPeerFixture(t, false, 16)
	ctx := context.Background()

	payload := bytes.Repeat([]byte("abcdefgh"), 9)
	uid := f.save(t, "acct1", "S-1", models.StatusSealed, 1, payload)

	receipt, err := f.client.GetUploadRecord(ctx, uid)
	require.NoError(t, err)
	assert.False(t, receipt.IsEmpty())

	var buf bytes.Buffer
	total, err := transfer.NewFetcher(setupTestLogger(), 64).Fetch(ctx, transfer.SourceFunc(
		func(ctx context.Context, offset, maxSize int64) (*transfer.Chunk, error) {
			return f.client.GetChunk(ctx, uid, offset, maxSize)
		}), &buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), total)
	assert.Equal(t, payload, buf.Bytes())
}

func TestClient_LargeChunk(t *testing.T) {
	const size = 8 << 20
	f := newPeerFixture(t, false, size)
	ctx := context.Background()

	payload := bytes.Repeat([]byte{0xa5, 0x01, 0x5a, 0xff}, size/4)
	uid := f.save(t, "acct1", "S-big", models.StatusSealed, 1, payload)

	chunk, err := f.client.GetChunk(ctx, uid, 0, size)
	require.NoError(t, err)
	assert.Equal(t, api.ResultOK, chunk.ResultCode)
	assert.Equal(t, int64(size), chunk.TotalSize)
	assert.True(t, bytes.Equal(payload, chunk.Payload))
}

func TestClient_LargeListing(t *testing.T) {
	const count = 40000
	signer, err := crypto.GenerateSigner()
	require.NoError(t, err)

	sig := bytes.Repeat([]byte{7}, 64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := api.AvailableResponse{Response: api.Response{ResultCode: api.ResultOK}}
		for i := range count {
			resp.Items = append(resp.Items, api.MirroringItem{
				AccountID:       "acct1",
				LocalID:         fmt.Sprintf("S-%06d", i),
				Status:          models.StatusSealed.String(),
				HeaderSignature: sig,
				ModifiedMillis:  int64(i),
			})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, jwt.NewIssuer(signer, time.Minute), 5*time.Second, setupTestLogger())
	items, err := client.ListAvailableItems(context.Background(), "acct1")
	require.NoError(t, err)
	require.Len(t, items, count)
	assert.Equal(t, "S-039999", items[count-1].UID.LocalID)
}

func TestClient_MalformedSuccess(t *testing.T) {
	signer, err := crypto.GenerateSigner()
	require.NoError(t, err)

	tests := []struct {
		wantErr error
		name    string
		body    string
	}{
		{name: "html page", body: "<html>maintenance</html>", wantErr: mirror.ErrMalformedResponse},
		{name: "no result code", body: `{"data":"AAAA"}`, wantErr: mirror.ErrMalformedResponse},
		{name: "cut off", body: `{"result_code":"OK","data":"AAAA`, wantErr: mirror.ErrServerUnavailable},
		{name: "oversized chunk", body: `{"result_code":"OK","data":"` + strings.Repeat("A", 200<<10) + `"}`, wantErr: mirror.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, jwt.NewIssuer(signer, time.Minute), time.Second, setupTestLogger())
			_, err := client.GetChunk(context.Background(), models.NewUniversalID("acct1", "S-1"), 0, 16)
			assert.ErrorIs(t, err, tt.wantErr)

			var resultErr *mirror.ResultError
			assert.False(t, errors.As(err, &resultErr), "a 200 body must not turn into a result code")
		})
	}
}

func TestChunkResponseLimit(t *testing.T) {
	assert.Equal(t, int64(base64.StdEncoding.EncodedLen(8<<20)+envelopeOverhead), chunkResponseLimit(8<<20))
	assert.Equal(t, chunkResponseLimit(transfer.MaxChunkSizeLimit), chunkResponseLimit(0), "supplier decides the size")
	assert.Greater(t, chunkResponseLimit(transfer.MaxChunkSizeLimit), transfer.MaxChunkSizeLimit*4/3)
}

func TestClient_NotFound(t *testing.T) {
	f := newPeerFixture(t, false, 0)
	ctx := context.Background()

	_, err := f.client.GetUploadRecord(ctx, models.NewUniversalID("acct1", "missing"))
	assert.ErrorIs(t, err, mirror.ErrNotFound)

	_, err = f.client.GetChunk(ctx, models.NewUniversalID("acct1", "missing"), 0, 10)
	assert.ErrorIs(t, err, mirror.ErrNotFound)
}

func TestClient_LegacySupplier(t *testing.T) {
	f := newPeerFixture(t, true, 0)

	_, err := f.client.ListAvailableItems(context.Background(), "acct1")
	assert.ErrorIs(t, err, mirror.ErrUnsupported)
}

func TestClient_NotAuthorized(t *testing.T) {
	f := newPeerFixture(t, false, 0)

	stranger, err := crypto.GenerateSigner()
	require.NoError(t, err)
	client := NewClient(f.httpServer.URL, jwt.NewIssuer(stranger, time.Minute), time.Second, setupTestLogger())

	_, err = client.ListAccounts(context.Background())
	assert.ErrorIs(t, err, mirror.ErrNotAuthorized)
}

func TestClient_ServerUnavailable(t *testing.T) {
	signer, err := crypto.GenerateSigner()
	require.NoError(t, err)

	// Сервер закрыт до запроса
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewClient(srv.URL, jwt.NewIssuer(signer, time.Minute), time.Second, setupTestLogger())
	_, err = client.ListAccounts(context.Background())
	assert.ErrorIs(t, err, mirror.ErrServerUnavailable)
}

func TestClient_ContextCancellation(t *testing.T) {
	signer, err := crypto.GenerateSigner()
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(srv.URL, jwt.NewIssuer(signer, time.Minute), 5*time.Second, setupTestLogger())
	_, err = client.ListAccounts(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, mirror.ErrServerUnavailable)
}

func TestClient_ResponseMapping(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		body    string
		status  int
	}{
		{name: "no server", status: http.StatusOK, body: `{"result_code":"NO_SERVER"}`, wantErr: mirror.ErrServerUnavailable},
		{name: "unknown command", status: http.StatusNotFound, body: `{"result_code":"UNKNOWN_COMMAND"}`, wantErr: mirror.ErrUnsupported},
		{name: "plain 404", status: http.StatusNotFound, body: "404 page not found", wantErr: mirror.ErrUnsupported},
		{name: "bad gateway", status: http.StatusBadGateway, body: "<html>", wantErr: mirror.ErrServerUnavailable},
		{name: "plain 403", status: http.StatusForbidden, body: "forbidden", wantErr: mirror.ErrNotAuthorized},
	}

	signer, err := crypto.GenerateSigner()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, jwt.NewIssuer(signer, time.Minute), time.Second, setupTestLogger())
			_, err := client.ListAccounts(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_UnexpectedResultCode(t *testing.T) {
	signer, err := crypto.GenerateSigner()
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result_code":"INVALID_DATA"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, jwt.NewIssuer(signer, time.Minute), time.Second, setupTestLogger())
	_, err = client.ListAccounts(context.Background())

	var resultErr *mirror.ResultError
	require.True(t, errors.As(err, &resultErr))
	assert.Equal(t, api.ResultInvalidData, resultErr.Code)
}

func TestClient_SendsPeerToken(t *testing.T) {
	signer, err := crypto.GenerateSigner()
	require.NoError(t, err)

	var caller string
	srv := httptest.NewServer(middleware.PeerAuthMiddleware(setupTestLogger(), jwt.Verify)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, _ = handlers.GetCallerID(r.Context())
			_, _ = w.Write([]byte(`{"result_code":"OK","accounts":[]}`))
		})))
	defer srv.Close()

	client := NewClient(srv.URL, jwt.NewIssuer(signer, time.Minute), time.Second, setupTestLogger())
	_, err = client.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, signer.PublicKeyString(), caller)
}

// TestClient_EngineOverHTTP прогоняет полный цикл зеркалирования через HTTP
func TestClient_EngineOverHTTP(t *testing.T) {
	f := newPeerFixture(t, false, 30000)
	ctx := context.Background()

	account := "acct1"
	payload := bytes.Repeat([]byte{0x5a}, 50000)
	uid := f.save(t, account, "S-1", models.StatusSealed, 100, payload)

	local, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "puller.db"), setupTestLogger())
	require.NoError(t, err)
	defer func() { _ = local.Close() }()

	engine, err := mirror.NewEngine(mirror.Config{
		PeerID:        "supplier",
		PeerPublicKey: f.supplierSigner.PublicKeyString(),
		TempDir:       filepath.Join(t.TempDir(), "tmp"),
		MaxChunkSize:  30000,
	}, f.client, local, nil, setupTestLogger())
	require.NoError(t, err)

	// список аккаунтов, список документов, загрузка
	for range 3 {
		engine.Tick(ctx)
	}

	got, err := local.GetPayload(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	receipt, err := local.GetUploadRecord(ctx, uid)
	require.NoError(t, err)
	assert.False(t, receipt.IsEmpty())
	assert.Equal(t, int64(1), engine.Status().Pulled)
}

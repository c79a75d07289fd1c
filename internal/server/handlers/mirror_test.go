package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bulletinmirror/internal/crypto"
	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/server/storage/boltdb"
	"github.com/iudanet/bulletinmirror/internal/supplier"
	"github.com/iudanet/bulletinmirror/internal/transfer"
	"github.com/iudanet/bulletinmirror/pkg/api"
)

const testCaller = "caller-key"

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

func newTestRouter(h *MirrorHandler) chi.Router {
	r := chi.NewRouter()
	r.NotFound(NotFound(setupTestLogger()))
	h.RegisterRoutes(r)
	return r
}

// doRequest выполняет запрос от имени caller (пустой caller - без идентичности)
func doRequest(t *testing.T, router http.Handler, caller, path string, out any) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if caller != "" {
		req = req.WithContext(WithCallerID(req.Context(), caller))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func allowAll() *MirrorServiceMock {
	return &MirrorServiceMock{
		IsAuthorizedForMirroringFunc: func(ctx context.Context, callerID string) bool {
			return callerID == testCaller
		},
	}
}

// supplierFixture поднимает настоящий supplier поверх bbolt
type supplierFixture struct {
	store  *boltdb.Storage
	signer *crypto.Signer
	router chi.Router
}

func newSupplierFixture(t *testing.T, legacyOnly bool) *supplierFixture {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "bulletins.db"), setupTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	signer, err := crypto.GenerateSigner()
	require.NoError(t, err)

	auth := &supplier.AuthorizerMock{
		IsAuthorizedCallerFunc: func(ctx context.Context, publicKey string) (bool, error) {
			return publicKey == testCaller, nil
		},
	}
	service := supplier.NewService(store, auth, signer, 4, setupTestLogger())

	return &supplierFixture{
		store:  store,
		signer: signer,
		router: newTestRouter(NewMirrorHandler(setupTestLogger(), service, legacyOnly)),
	}
}

func (f *supplierFixture) save(t *testing.T, account, local string, status models.RecordStatus, payload string) models.UniversalID {
	t.Helper()
	uid := models.NewUniversalID(account, local)
	b := models.NewBulletin(uid, status, 100, []byte(payload))
	receipt := models.NewUploadRecord(uid, b.PayloadDigest, 100, f.signer.Sign)
	require.NoError(t, f.store.SaveUploaded(context.Background(), b, []byte(payload), receipt))
	return uid
}

func TestMirrorHandler_EndToEnd(t *testing.T) {
	f := newSupplierFixture(t, false)
	f.save(t, "acct1", "D-1", models.StatusDraft, "draft")
	f.save(t, "acct1", "S-1", models.StatusSealed, "sealed payload")

	var accounts api.AccountsResponse
	resp := doRequest(t, f.router, testCaller, "/api/v1/mirror/accounts", &accounts)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, api.ResultOK, accounts.ResultCode)
	assert.Equal(t, []string{"acct1"}, accounts.Accounts)

	var available api.AvailableResponse
	resp = doRequest(t, f.router, testCaller, "/api/v1/mirror/accounts/acct1/available", &available)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, available.Items, 2)

	var legacy api.BulletinsResponse
	resp = doRequest(t, f.router, testCaller, "/api/v1/mirror/accounts/acct1/bulletins", &legacy)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, legacy.Bulletins, 1)
	assert.Equal(t, "S-1", legacy.Bulletins[0].LocalID)

	var receipt api.ReceiptResponse
	resp = doRequest(t, f.router, testCaller, "/api/v1/mirror/accounts/acct1/bulletins/S-1/receipt", &receipt)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, receipt.UploadRecord)

	// Максимальный размер части на сервере 4 байта
	var data []byte
	offset := 0
	for {
		var chunk api.ChunkResponse
		path := "/api/v1/mirror/accounts/acct1/bulletins/S-1/chunk?max=100&offset=" + strconv.Itoa(offset)
		resp = doRequest(t, f.router, "", path, &chunk)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.LessOrEqual(t, chunk.ChunkSize, int64(4))
		data = append(data, chunk.Data...)
		offset += int(chunk.ChunkSize)
		if chunk.ResultCode == api.ResultOK {
			break
		}
		require.Equal(t, api.ResultChunkOK, chunk.ResultCode)
	}
	assert.Equal(t, "sealed payload", string(data))
}

func TestMirrorHandler_Unauthorized(t *testing.T) {
	f := newSupplierFixture(t, false)
	f.save(t, "acct1", "S-1", models.StatusSealed, "sealed")

	paths := []string{
		"/api/v1/mirror/accounts",
		"/api/v1/mirror/accounts/acct1/available",
		"/api/v1/mirror/accounts/acct1/bulletins",
		"/api/v1/mirror/accounts/acct1/bulletins/S-1/receipt",
	}

	for _, path := range paths {
		for _, caller := range []string{"", "stranger"} {
			t.Run(path+"/"+caller, func(t *testing.T) {
				var body map[string]any
				resp := doRequest(t, f.router, caller, path, &body)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
				assert.Equal(t, api.ResultNotAuthorized, body["result_code"])
				// никакой части данных в ответе отказа
				assert.NotContains(t, body, "accounts")
				assert.NotContains(t, body, "items")
				assert.NotContains(t, body, "bulletins")
				assert.NotContains(t, body, "upload_record")
			})
		}
	}
}

func TestMirrorHandler_LegacyOnly(t *testing.T) {
	f := newSupplierFixture(t, true)
	f.save(t, "acct1", "S-1", models.StatusSealed, "sealed")

	var rich api.Response
	resp := doRequest(t, f.router, testCaller, "/api/v1/mirror/accounts/acct1/available", &rich)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, api.ResultUnknownCommand, rich.ResultCode)

	var legacy api.BulletinsResponse
	resp = doRequest(t, f.router, testCaller, "/api/v1/mirror/accounts/acct1/bulletins", &legacy)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, legacy.Bulletins, 1)
}

func TestMirrorHandler_UnknownRoute(t *testing.T) {
	router := newTestRouter(NewMirrorHandler(setupTestLogger(), allowAll(), false))

	var body api.Response
	resp := doRequest(t, router, testCaller, "/api/v1/mirror/unknown", &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, api.ResultUnknownCommand, body.ResultCode)
}

func TestMirrorHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		name       string
		wantCode   string
		wantStatus int
	}{
		{name: "not found", err: supplier.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: api.ResultNotFound},
		{name: "invalid", err: supplier.ErrInvalidRequest, wantStatus: http.StatusBadRequest, wantCode: api.ResultInvalidData},
		{name: "internal", err: errors.New("disk failure"), wantStatus: http.StatusInternalServerError, wantCode: api.ResultServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := allowAll()
			mock.GetChunkFunc = func(ctx context.Context, uid models.UniversalID, offset, maxSize int64) (*transfer.Chunk, error) {
				return nil, tt.err
			}
			mock.GetUploadRecordFunc = func(ctx context.Context, uid models.UniversalID) (models.UploadRecord, error) {
				return "", tt.err
			}
			router := newTestRouter(NewMirrorHandler(setupTestLogger(), mock, false))

			var chunk api.Response
			resp := doRequest(t, router, testCaller, "/api/v1/mirror/accounts/acct1/bulletins/S-1/chunk", &chunk)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, chunk.ResultCode)

			var receipt api.Response
			resp = doRequest(t, router, testCaller, "/api/v1/mirror/accounts/acct1/bulletins/S-1/receipt", &receipt)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, receipt.ResultCode)
		})
	}
}

func TestMirrorHandler_ListAvailableErrorMidway(t *testing.T) {
	mock := allowAll()
	mock.ListAvailableItemsFunc = func(ctx context.Context, accountID string) iter.Seq2[models.MirroringInfo, error] {
		return func(yield func(models.MirroringInfo, error) bool) {
			if !yield(models.MirroringInfo{UID: models.NewUniversalID(accountID, "A")}, nil) {
				return
			}
			yield(models.MirroringInfo{}, errors.New("storage gone"))
		}
	}
	router := newTestRouter(NewMirrorHandler(setupTestLogger(), mock, false))

	var body map[string]any
	resp := doRequest(t, router, testCaller, "/api/v1/mirror/accounts/acct1/available", &body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, api.ResultServerError, body["result_code"])
	assert.NotContains(t, body, "items", "частичный список не отдаётся")
}

func TestMirrorHandler_ChunkParams(t *testing.T) {
	mock := allowAll()
	mock.GetChunkFunc = func(ctx context.Context, uid models.UniversalID, offset, maxSize int64) (*transfer.Chunk, error) {
		return &transfer.Chunk{ResultCode: transfer.ResultOK, Payload: []byte("x"), TotalSize: 11, ChunkSize: 1}, nil
	}
	router := newTestRouter(NewMirrorHandler(setupTestLogger(), mock, false))

	var ok api.ChunkResponse
	resp := doRequest(t, router, "", "/api/v1/mirror/accounts/acct%2B1/bulletins/S-1/chunk?offset=10&max=5", &ok)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, api.ResultOK, ok.ResultCode)

	calls := mock.GetChunkCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, models.NewUniversalID("acct+1", "S-1"), calls[0].Uid)
	assert.Equal(t, int64(10), calls[0].Offset)
	assert.Equal(t, int64(5), calls[0].MaxSize)
	assert.Empty(t, mock.IsAuthorizedForMirroringCalls(), "chunk route relies on the peer token only")

	var bad api.Response
	resp = doRequest(t, router, "", "/api/v1/mirror/accounts/acct1/bulletins/S-1/chunk?offset=abc", &bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, api.ResultInvalidData, bad.ResultCode)
}

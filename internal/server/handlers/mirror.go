package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/supplier"
	"github.com/iudanet/bulletinmirror/internal/transfer"
	"github.com/iudanet/bulletinmirror/pkg/api"
)

//go:generate moq -out mirror_mock.go . MirrorService

// MirrorService определяет интерфейс поставщика документов
type MirrorService interface {
	IsAuthorizedForMirroring(ctx context.Context, callerID string) bool
	ListAccounts(ctx context.Context) ([]string, error)
	ListAvailableItems(ctx context.Context, accountID string) iter.Seq2[models.MirroringInfo, error]
	ListBulletinsForMirroring(ctx context.Context, accountID string) ([]models.LegacyBulletinInfo, error)
	GetUploadRecord(ctx context.Context, uid models.UniversalID) (models.UploadRecord, error)
	GetChunk(ctx context.Context, uid models.UniversalID, offset, maxSize int64) (*transfer.Chunk, error)
}

// MirrorHandler handles peer mirroring requests
type MirrorHandler struct {
	logger     *slog.Logger
	service    MirrorService
	legacyOnly bool
}

// NewMirrorHandler creates a new mirror handler. With legacyOnly the rich
// enumeration route answers UNKNOWN_COMMAND, as an older server would.
func NewMirrorHandler(logger *slog.Logger, service MirrorService, legacyOnly bool) *MirrorHandler {
	return &MirrorHandler{
		logger:     logger.With("component", "mirror-api"),
		service:    service,
		legacyOnly: legacyOnly,
	}
}

// RegisterRoutes mounts the mirroring routes on r.
func (h *MirrorHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/mirror/accounts", func(r chi.Router) {
		r.Get("/", h.ListAccounts)
		r.Get("/{account}/available", h.ListAvailable)
		r.Get("/{account}/bulletins", h.ListBulletins)
		r.Get("/{account}/bulletins/{localID}/receipt", h.GetReceipt)
		r.Get("/{account}/bulletins/{localID}/chunk", h.GetChunk)
	})
}

// ListAccounts обрабатывает GET /api/v1/mirror/accounts
func (h *MirrorHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if accounts == nil {
		accounts = []string{}
	}

	writeJSON(w, h.logger, http.StatusOK, api.AccountsResponse{
		Response: api.Response{ResultCode: api.ResultOK},
		Accounts: accounts,
	})
}

// ListAvailable обрабатывает GET /api/v1/mirror/accounts/{account}/available
func (h *MirrorHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	if h.legacyOnly {
		writeResult(w, h.logger, http.StatusNotFound, api.ResultUnknownCommand, "")
		return
	}
	if !h.authorize(w, r) {
		return
	}
	account, ok := h.accountParam(w, r)
	if !ok {
		return
	}

	// Собираем весь ответ до записи: при ошибке клиент не получит частичный список
	items := make([]api.MirroringItem, 0)
	for info, err := range h.service.ListAvailableItems(r.Context(), account) {
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		items = append(items, api.MirroringItem{
			AccountID:       info.UID.AccountID,
			LocalID:         info.UID.LocalID,
			Status:          info.Status.String(),
			ModifiedMillis:  info.ModifiedMillis,
			HeaderSignature: info.HeaderSignature,
		})
	}

	h.logger.Debug("Listed available items",
		"account", models.PublicCode(account),
		"items", len(items),
	)
	writeJSON(w, h.logger, http.StatusOK, api.AvailableResponse{
		Response: api.Response{ResultCode: api.ResultOK},
		Items:    items,
	})
}

// ListBulletins обрабатывает GET /api/v1/mirror/accounts/{account}/bulletins
func (h *MirrorHandler) ListBulletins(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	account, ok := h.accountParam(w, r)
	if !ok {
		return
	}

	infos, err := h.service.ListBulletinsForMirroring(r.Context(), account)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	bulletins := make([]api.LegacyItem, 0, len(infos))
	for _, info := range infos {
		bulletins = append(bulletins, api.LegacyItem{
			LocalID:         info.LocalID,
			HeaderSignature: info.HeaderSignature,
		})
	}

	writeJSON(w, h.logger, http.StatusOK, api.BulletinsResponse{
		Response:  api.Response{ResultCode: api.ResultOK},
		Bulletins: bulletins,
	})
}

// GetReceipt обрабатывает GET .../bulletins/{localID}/receipt
func (h *MirrorHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	uid, ok := h.uidParam(w, r)
	if !ok {
		return
	}

	receipt, err := h.service.GetUploadRecord(r.Context(), uid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.ReceiptResponse{
		Response:     api.Response{ResultCode: api.ResultOK},
		UploadRecord: string(receipt),
	})
}

// GetChunk обрабатывает GET .../bulletins/{localID}/chunk?offset=&max=
// Allow-list здесь не проверяется: личность вызывающего уже подтверждена токеном.
func (h *MirrorHandler) GetChunk(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.uidParam(w, r)
	if !ok {
		return
	}

	offset, err := parseInt(r.URL.Query().Get("offset"), 0)
	if err != nil {
		writeResult(w, h.logger, http.StatusBadRequest, api.ResultInvalidData, "invalid offset")
		return
	}
	maxSize, err := parseInt(r.URL.Query().Get("max"), 0)
	if err != nil {
		writeResult(w, h.logger, http.StatusBadRequest, api.ResultInvalidData, "invalid max")
		return
	}

	chunk, err := h.service.GetChunk(r.Context(), uid, offset, maxSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.ChunkResponse{
		Response:  api.Response{ResultCode: chunk.ResultCode},
		Data:      chunk.Payload,
		TotalSize: chunk.TotalSize,
		ChunkSize: chunk.ChunkSize,
	})
}

// authorize проверяет, что вызывающий входит в список разрешённых пиров
func (h *MirrorHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	callerID, ok := GetCallerID(r.Context())
	if !ok || !h.service.IsAuthorizedForMirroring(r.Context(), callerID) {
		writeResult(w, h.logger, http.StatusForbidden, api.ResultNotAuthorized, "")
		return false
	}
	return true
}

func (h *MirrorHandler) accountParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	account, err := url.PathUnescape(chi.URLParam(r, "account"))
	if err != nil || account == "" {
		writeResult(w, h.logger, http.StatusBadRequest, api.ResultInvalidData, "invalid account")
		return "", false
	}
	return account, true
}

func (h *MirrorHandler) uidParam(w http.ResponseWriter, r *http.Request) (models.UniversalID, bool) {
	account, ok := h.accountParam(w, r)
	if !ok {
		return models.UniversalID{}, false
	}
	localID, err := url.PathUnescape(chi.URLParam(r, "localID"))
	if err != nil {
		writeResult(w, h.logger, http.StatusBadRequest, api.ResultInvalidData, "invalid local id")
		return models.UniversalID{}, false
	}

	uid := models.NewUniversalID(account, localID)
	if err := uid.Validate(); err != nil {
		writeResult(w, h.logger, http.StatusBadRequest, api.ResultInvalidData, err.Error())
		return models.UniversalID{}, false
	}
	return uid, true
}

// writeError превращает ошибку поставщика в код результата
func (h *MirrorHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, supplier.ErrNotFound):
		writeResult(w, h.logger, http.StatusNotFound, api.ResultNotFound, "")
	case errors.Is(err, supplier.ErrInvalidRequest):
		writeResult(w, h.logger, http.StatusBadRequest, api.ResultInvalidData, err.Error())
	default:
		h.logger.Error("Mirroring request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeResult(w, h.logger, http.StatusInternalServerError, api.ResultServerError, "")
	}
}

// NotFound отвечает UNKNOWN_COMMAND на неизвестные маршруты
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, logger, http.StatusNotFound, api.ResultUnknownCommand, "")
	}
}

// MethodNotAllowed отвечает UNKNOWN_COMMAND на неподдерживаемые методы
func MethodNotAllowed(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, logger, http.StatusMethodNotAllowed, api.ResultUnknownCommand, "")
	}
}

func parseInt(s string, def int64) (int64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func writeResult(w http.ResponseWriter, logger *slog.Logger, status int, code, message string) {
	writeJSON(w, logger, status, api.Response{ResultCode: code, Message: message})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// Package api реализует mirror.Gateway поверх HTTP API зеркалирования пира.
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/bulletinmirror/internal/mirror"
	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/transfer"
	"github.com/iudanet/bulletinmirror/pkg/api"
)

// DefaultTimeout общий таймаут HTTP клиента
const DefaultTimeout = 30 * time.Second

// envelopeOverhead запас на JSON-конверт вокруг данных части
const envelopeOverhead = 64 << 10

// chunkResponseLimit - наибольшее тело ответа с частью размером до maxSize.
// Данные передаются в base64. Перечисления не ограничиваются.
func chunkResponseLimit(maxSize int64) int64 {
	if maxSize <= 0 || maxSize > transfer.MaxChunkSizeLimit {
		maxSize = transfer.MaxChunkSizeLimit
	}
	return int64(base64.StdEncoding.EncodedLen(int(maxSize))) + envelopeOverhead
}

// TokenSource выпускает токен для каждого запроса
type TokenSource interface {
	Issue() (string, error)
}

// Client представляет HTTP клиент к одному пиру-поставщику
type Client struct {
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
	baseURL    string
}

var _ mirror.Gateway = (*Client)(nil)

// NewClient создает новый API клиент. timeout <= 0 означает DefaultTimeout.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		logger:  logger.With("component", "mirror-client", "address", baseURL),
		httpClient: &http.Client{
			Timeout: timeout,
			// Не следуем редиректам: токен адресован именно этому пиру
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// ListAccounts returns accounts the supplier offers.
func (c *Client) ListAccounts(ctx context.Context) ([]string, error) {
	var resp api.AccountsResponse
	if err := c.doRequest(ctx, "/api/v1/mirror/accounts", 0, &resp, &resp.Response); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return resp.Accounts, nil
}

// ListAvailableItems returns drafts and sealed items of one account.
func (c *Client) ListAvailableItems(ctx context.Context, accountID string) ([]models.MirroringInfo, error) {
	var resp api.AvailableResponse
	if err := c.doRequest(ctx, accountPath(accountID)+"/available", 0, &resp, &resp.Response); err != nil {
		return nil, fmt.Errorf("list available items: %w", err)
	}

	items := make([]models.MirroringInfo, 0, len(resp.Items))
	for _, item := range resp.Items {
		// Неизвестный статус оставляем нулевым: резолвер такой элемент отклонит
		status, err := models.ParseRecordStatus(item.Status)
		if err != nil {
			c.logger.Debug("Supplier reported unknown status", "status", item.Status, "local_id", item.LocalID)
		}
		items = append(items, models.MirroringInfo{
			UID:             models.NewUniversalID(item.AccountID, item.LocalID),
			Status:          status,
			ModifiedMillis:  item.ModifiedMillis,
			HeaderSignature: item.HeaderSignature,
		})
	}
	return items, nil
}

// ListBulletinsForMirroring returns sealed items in the legacy shape.
func (c *Client) ListBulletinsForMirroring(ctx context.Context, accountID string) ([]models.LegacyBulletinInfo, error) {
	var resp api.BulletinsResponse
	if err := c.doRequest(ctx, accountPath(accountID)+"/bulletins", 0, &resp, &resp.Response); err != nil {
		return nil, fmt.Errorf("list bulletins: %w", err)
	}

	items := make([]models.LegacyBulletinInfo, 0, len(resp.Bulletins))
	for _, b := range resp.Bulletins {
		items = append(items, models.LegacyBulletinInfo{LocalID: b.LocalID, HeaderSignature: b.HeaderSignature})
	}
	return items, nil
}

// GetUploadRecord fetches the receipt of one bulletin.
func (c *Client) GetUploadRecord(ctx context.Context, uid models.UniversalID) (models.UploadRecord, error) {
	var resp api.ReceiptResponse
	if err := c.doRequest(ctx, bulletinPath(uid)+"/receipt", 0, &resp, &resp.Response); err != nil {
		return "", fmt.Errorf("get upload record: %w", err)
	}
	return models.UploadRecord(resp.UploadRecord), nil
}

// GetChunk fetches one chunk of a bulletin payload.
func (c *Client) GetChunk(ctx context.Context, uid models.UniversalID, offset, maxSize int64) (*transfer.Chunk, error) {
	query := url.Values{}
	query.Set("offset", strconv.FormatInt(offset, 10))
	query.Set("max", strconv.FormatInt(maxSize, 10))

	var resp api.ChunkResponse
	if err := c.doRequest(ctx, bulletinPath(uid)+"/chunk?"+query.Encode(), chunkResponseLimit(maxSize), &resp, &resp.Response); err != nil {
		return nil, fmt.Errorf("get chunk at %d: %w", offset, err)
	}

	return &transfer.Chunk{
		ResultCode: resp.ResultCode,
		Payload:    resp.Data,
		TotalSize:  resp.TotalSize,
		ChunkSize:  resp.ChunkSize,
	}, nil
}

// doRequest выполняет GET запрос и потоково декодирует ответ в result.
// envelope указывает на вложенный api.Response внутри result.
// limit > 0 ограничивает размер тела ответа.
func (c *Client) doRequest(ctx context.Context, path string, limit int64, result any, envelope *api.Response) error {
	token, err := c.tokens.Issue()
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(api.HeaderRequestID, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Отмена контекста не считается недоступностью пира
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", mirror.ErrServerUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var body io.Reader = resp.Body
	var limited *io.LimitedReader
	if limit > 0 {
		limited = &io.LimitedReader{R: resp.Body, N: limit + 1}
		body = limited
	}

	decodeErr := json.NewDecoder(body).Decode(result)
	if decodeErr == nil && envelope.ResultCode != "" {
		return resultError(envelope.ResultCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode)
	}

	// 2xx без корректного конверта
	switch {
	case limited != nil && limited.N <= 0:
		return fmt.Errorf("%w: response exceeds %d bytes", mirror.ErrMalformedResponse, limit)
	case ctx.Err() != nil:
		return ctx.Err()
	case decodeErr == nil:
		return fmt.Errorf("%w: result code missing", mirror.ErrMalformedResponse)
	case errors.Is(decodeErr, io.ErrUnexpectedEOF), isNetError(decodeErr):
		// соединение оборвалось посреди тела
		return fmt.Errorf("%w: %w", mirror.ErrServerUnavailable, decodeErr)
	default:
		return fmt.Errorf("%w: %w", mirror.ErrMalformedResponse, decodeErr)
	}
}

func isNetError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}

// resultError переводит код результата в ошибку
func resultError(code string) error {
	switch code {
	case api.ResultOK, api.ResultChunkOK:
		return nil
	case api.ResultNoServer:
		return mirror.ErrServerUnavailable
	case api.ResultNotAuthorized:
		return mirror.ErrNotAuthorized
	case api.ResultNotFound:
		return mirror.ErrNotFound
	case api.ResultUnknownCommand:
		return mirror.ErrUnsupported
	default:
		return &mirror.ResultError{Code: code}
	}
}

// statusError используется, когда тело ответа не является конвертом с кодом
func statusError(status int) error {
	switch {
	case status == http.StatusNotFound, status == http.StatusMethodNotAllowed:
		return mirror.ErrUnsupported
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return mirror.ErrNotAuthorized
	case status == http.StatusTooManyRequests, status >= 500:
		return fmt.Errorf("%w: HTTP %d", mirror.ErrServerUnavailable, status)
	default:
		return &mirror.ResultError{Code: "HTTP " + strconv.Itoa(status)}
	}
}

func accountPath(accountID string) string {
	return "/api/v1/mirror/accounts/" + url.PathEscape(accountID)
}

func bulletinPath(uid models.UniversalID) string {
	return accountPath(uid.AccountID) + "/bulletins/" + url.PathEscape(uid.LocalID)
}

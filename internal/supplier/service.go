// Package supplier отвечает на запросы зеркалирования от других серверов:
// перечисление аккаунтов и документов, выдача receipt и частей документа.
package supplier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/iudanet/bulletinmirror/internal/crypto"
	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/server/storage"
	"github.com/iudanet/bulletinmirror/internal/transfer"
)

//go:generate moq -out service_mock.go . Store Authorizer

var (
	// ErrNotFound - документ или receipt отсутствует (или скрыт)
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest - некорректный id или смещение
	ErrInvalidRequest = errors.New("invalid request")
)

// Store is the local bulletin storage read by the supplier.
type Store interface {
	ListAccounts(ctx context.Context) ([]string, error)
	ListAccountBulletins(ctx context.Context, accountID string) ([]*models.Bulletin, error)
	GetUploadRecord(ctx context.Context, uid models.UniversalID) (models.UploadRecord, error)
	IsHidden(ctx context.Context, uid models.UniversalID) (bool, error)
	ViewPayload(ctx context.Context, uid models.UniversalID, fn func(b *models.Bulletin, payload io.ReaderAt) error) error
}

// Authorizer decides which callers may mirror from us.
type Authorizer interface {
	IsAuthorizedCaller(ctx context.Context, publicKey string) (bool, error)
}

// Service serves mirroring requests. Safe for concurrent use: every call reads
// its own storage snapshot and no lock is held between calls.
type Service struct {
	store        Store
	auth         Authorizer
	signer       *crypto.Signer
	logger       *slog.Logger
	maxChunkSize int64
}

// NewService creates a Service. maxChunkSize <= 0 means transfer.DefaultMaxChunkSize.
func NewService(store Store, auth Authorizer, signer *crypto.Signer, maxChunkSize int64, logger *slog.Logger) *Service {
	if maxChunkSize <= 0 {
		maxChunkSize = transfer.DefaultMaxChunkSize
	}
	return &Service{
		store:        store,
		auth:         auth,
		signer:       signer,
		logger:       logger.With("component", "supplier"),
		maxChunkSize: maxChunkSize,
	}
}

// IsAuthorizedForMirroring reports whether callerID is in the allow-list.
// Ошибка хранилища означает отказ.
func (s *Service) IsAuthorizedForMirroring(ctx context.Context, callerID string) bool {
	ok, err := s.auth.IsAuthorizedCaller(ctx, callerID)
	if err != nil {
		s.logger.Error("Failed to check mirroring caller",
			"caller", models.PublicCode(callerID),
			"error", err,
		)
		return false
	}
	if !ok {
		s.logger.Warn("Mirroring request from unauthorized caller", "caller", models.PublicCode(callerID))
	}
	return ok
}

// ListAccounts returns all accounts with at least one stored bulletin.
func (s *Service) ListAccounts(ctx context.Context) ([]string, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// ListAvailableItems returns a lazy sequence of every visible bulletin of the
// account, drafts included. Каждый проход по последовательности читает свежий
// снимок хранилища и подписывает заголовки заново.
func (s *Service) ListAvailableItems(ctx context.Context, accountID string) iter.Seq2[models.MirroringInfo, error] {
	return func(yield func(models.MirroringInfo, error) bool) {
		for b, err := range s.visible(ctx, accountID) {
			if err != nil {
				yield(models.MirroringInfo{}, err)
				return
			}

			info := models.MirroringInfo{
				UID:             b.UID,
				Status:          b.Status,
				ModifiedMillis:  b.ModifiedMillis,
				HeaderSignature: s.signer.SignHeader(b.UID, b.Status, b.PayloadDigest),
			}
			if !yield(info, nil) {
				return
			}
		}
	}
}

// ListBulletinsForMirroring returns sealed bulletins only, in the legacy shape.
func (s *Service) ListBulletinsForMirroring(ctx context.Context, accountID string) ([]models.LegacyBulletinInfo, error) {
	result := make([]models.LegacyBulletinInfo, 0)
	for b, err := range s.visible(ctx, accountID) {
		if err != nil {
			return nil, err
		}
		if !b.IsSealed() {
			continue
		}
		result = append(result, models.LegacyBulletinInfo{
			LocalID:         b.UID.LocalID,
			HeaderSignature: s.signer.SignHeader(b.UID, b.Status, b.PayloadDigest),
		})
	}
	return result, nil
}

// GetUploadRecord returns the receipt of a visible bulletin.
func (s *Service) GetUploadRecord(ctx context.Context, uid models.UniversalID) (models.UploadRecord, error) {
	if err := s.checkVisible(ctx, uid); err != nil {
		return "", err
	}

	receipt, err := s.store.GetUploadRecord(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrUploadRecordNotFound) {
			return "", fmt.Errorf("%w: upload record %s", ErrNotFound, uid)
		}
		return "", fmt.Errorf("failed to get upload record: %w", err)
	}
	return receipt, nil
}

// GetChunk returns one chunk of the bulletin payload. maxSize is clamped to the
// configured maximum. Only data of uid itself is ever read.
func (s *Service) GetChunk(ctx context.Context, uid models.UniversalID, offset, maxSize int64) (*transfer.Chunk, error) {
	if err := s.checkVisible(ctx, uid); err != nil {
		return nil, err
	}
	if maxSize <= 0 || maxSize > s.maxChunkSize {
		maxSize = s.maxChunkSize
	}

	var chunk *transfer.Chunk
	err := s.store.ViewPayload(ctx, uid, func(b *models.Bulletin, payload io.ReaderAt) error {
		var err error
		chunk, err = transfer.ServeChunk(payload, b.PayloadSize, offset, maxSize)
		return err
	})
	switch {
	case err == nil:
		return chunk, nil
	case errors.Is(err, storage.ErrBulletinNotFound):
		return nil, fmt.Errorf("%w: bulletin %s", ErrNotFound, uid)
	case errors.Is(err, transfer.ErrInvalidOffset):
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	default:
		return nil, fmt.Errorf("failed to read chunk: %w", err)
	}
}

// visible перечисляет документы аккаунта с корректными id из одного снимка
func (s *Service) visible(ctx context.Context, accountID string) iter.Seq2[*models.Bulletin, error] {
	return func(yield func(*models.Bulletin, error) bool) {
		bulletins, err := s.store.ListAccountBulletins(ctx, accountID)
		if err != nil {
			yield(nil, fmt.Errorf("failed to list bulletins: %w", err))
			return
		}

		for _, b := range bulletins {
			if b.UID.AccountID != accountID {
				continue
			}
			if err := b.UID.Validate(); err != nil {
				s.logger.Warn("Not offering bulletin with invalid id", "item", b.UID.String(), "error", err)
				continue
			}
			if !yield(b, nil) {
				return
			}
		}
	}
}

// checkVisible отклоняет некорректные и скрытые id
func (s *Service) checkVisible(ctx context.Context, uid models.UniversalID) error {
	if err := uid.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	hidden, err := s.store.IsHidden(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to check hidden marker: %w", err)
	}
	if hidden {
		return fmt.Errorf("%w: %s", ErrNotFound, uid)
	}
	return nil
}

package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.etcd.io/bbolt"

	"github.com/iudanet/bulletinmirror/internal/crypto"
	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/server/storage"
)

// SaveUploaded stores a bulletin accepted from a local client
func (s *Storage) SaveUploaded(ctx context.Context, b *models.Bulletin, payload []byte, receipt models.UploadRecord) error {
	if err := checkBulletin(b, payload, receipt); err != nil {
		return err
	}

	return s.update(func(tx *bbolt.Tx) error {
		if getValue(tx, bucketHidden, b.UID.AccountID, b.UID.LocalID) != nil {
			return storage.ErrRecordHidden
		}

		existing, err := readBulletin(tx, b.UID)
		if err != nil {
			return err
		}
		if existing != nil && !existing.Status.CanBeReplacedBy(b.Status) {
			return storage.ErrSealedExists
		}

		if err := writeBulletin(tx, b, payload, receipt); err != nil {
			return err
		}

		// запечатанный документ или более новый черновик вытесняет запрос на удаление
		tomb, err := readTombstone(tx, b.UID)
		if err != nil && !errors.Is(err, storage.ErrCorruptRecord) {
			return err
		}
		if tomb != nil && (b.IsSealed() || !tomb.Supersedes(b.ModifiedMillis)) {
			return deleteValue(tx, bucketTombstones, b.UID.AccountID, b.UID.LocalID)
		}
		return nil
	})
}

// CommitMirrored stores a bulletin pulled from a peer together with its receipt.
// Состояние перепроверяется внутри транзакции: пока шла загрузка, документ мог
// быть загружен локальным клиентом, скрыт или удалён запросом на удаление.
// Судьбу tombstone решает текущее состояние; dropTombstone - лишь то, что
// ожидал вызывающий на момент решения о загрузке.
func (s *Storage) CommitMirrored(
	ctx context.Context,
	b *models.Bulletin,
	payload []byte,
	receipt models.UploadRecord,
	dropTombstone bool,
) error {
	if err := checkBulletin(b, payload, receipt); err != nil {
		return err
	}

	return s.update(func(tx *bbolt.Tx) error {
		if getValue(tx, bucketHidden, b.UID.AccountID, b.UID.LocalID) != nil {
			return storage.ErrRecordHidden
		}

		existing, err := readBulletin(tx, b.UID)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.IsSealed() {
				return storage.ErrSealedExists
			}
			if !b.IsSealed() && existing.ModifiedMillis >= b.ModifiedMillis {
				return storage.ErrStaleDraft
			}
		}

		tomb, err := readTombstone(tx, b.UID)
		if err != nil && !errors.Is(err, storage.ErrCorruptRecord) {
			return err
		}
		if tomb != nil && !b.IsSealed() && tomb.Supersedes(b.ModifiedMillis) {
			return storage.ErrTombstoned
		}
		if dropTombstone != (tomb != nil) {
			s.logger.DebugContext(ctx, "Delete request changed during pull",
				"item", b.UID.String(),
				"expected", dropTombstone,
				"present", tomb != nil,
			)
		}

		if err := writeBulletin(tx, b, payload, receipt); err != nil {
			return err
		}
		if tomb != nil {
			return deleteValue(tx, bucketTombstones, b.UID.AccountID, b.UID.LocalID)
		}
		return nil
	})
}

// GetBulletin retrieves bulletin metadata
func (s *Storage) GetBulletin(ctx context.Context, uid models.UniversalID) (*models.Bulletin, error) {
	var b *models.Bulletin

	err := s.view(func(tx *bbolt.Tx) error {
		var err error
		b, err = readBulletin(tx, uid)
		if err != nil {
			return err
		}
		if b == nil {
			return storage.ErrBulletinNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return b, nil
}

// GetPayload returns a copy of the stored payload
func (s *Storage) GetPayload(ctx context.Context, uid models.UniversalID) ([]byte, error) {
	var payload []byte

	err := s.ViewPayload(ctx, uid, func(b *models.Bulletin, r io.ReaderAt) error {
		payload = make([]byte, b.PayloadSize)
		if b.PayloadSize == 0 {
			return nil
		}
		_, err := r.ReadAt(payload, 0)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return payload, nil
}

// ViewPayload calls fn with a reader over the payload inside one read transaction
func (s *Storage) ViewPayload(
	ctx context.Context,
	uid models.UniversalID,
	fn func(b *models.Bulletin, payload io.ReaderAt) error,
) error {
	return s.view(func(tx *bbolt.Tx) error {
		b, err := readBulletin(tx, uid)
		if err != nil {
			return err
		}
		if b == nil {
			return storage.ErrBulletinNotFound
		}

		data := getValue(tx, bucketPayloads, uid.AccountID, uid.LocalID)
		if int64(len(data)) != b.PayloadSize {
			return fmt.Errorf("%w: payload of %s has %d bytes, expected %d",
				storage.ErrCorruptRecord, uid, len(data), b.PayloadSize)
		}

		return fn(b, bytes.NewReader(data))
	})
}

// GetUploadRecord retrieves the receipt of a bulletin
func (s *Storage) GetUploadRecord(ctx context.Context, uid models.UniversalID) (models.UploadRecord, error) {
	var receipt models.UploadRecord

	err := s.view(func(tx *bbolt.Tx) error {
		data := getValue(tx, bucketReceipts, uid.AccountID, uid.LocalID)
		if data == nil {
			return storage.ErrUploadRecordNotFound
		}
		receipt = models.UploadRecord(data)
		return nil
	})
	if err != nil {
		return "", err
	}

	return receipt, nil
}

// ListAccounts returns accounts that have at least one bulletin
func (s *Storage) ListAccounts(ctx context.Context) ([]string, error) {
	var accounts []string

	err := s.view(func(tx *bbolt.Tx) error {
		return forEachAccount(tx, bucketBulletins, func(account []byte, b *bbolt.Bucket) error {
			if key, _ := b.Cursor().First(); key != nil {
				accounts = append(accounts, string(account))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// ListAccountBulletins returns a snapshot of visible bulletins of one account.
// Повреждённые записи пропускаются с логированием, перечисление не прерывается.
func (s *Storage) ListAccountBulletins(ctx context.Context, accountID string) ([]*models.Bulletin, error) {
	var result []*models.Bulletin

	err := s.view(func(tx *bbolt.Tx) error {
		metas := accountBucket(tx, bucketBulletins, accountID)
		if metas == nil {
			return nil
		}
		hidden := accountBucket(tx, bucketHidden, accountID)

		return metas.ForEach(func(k, v []byte) error {
			if hidden != nil && hidden.Get(k) != nil {
				return nil
			}

			b := &models.Bulletin{}
			if err := json.Unmarshal(v, b); err != nil {
				s.logger.Error("Skipping corrupt bulletin metadata",
					"account", models.PublicCode(accountID),
					"local_id", string(k),
					"error", err,
				)
				return nil
			}
			result = append(result, b)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// LocalView returns hidden flag, stored status and tombstone of uid in one snapshot
func (s *Storage) LocalView(ctx context.Context, uid models.UniversalID) (models.LocalView, error) {
	view := models.LocalView{UID: uid}

	err := s.view(func(tx *bbolt.Tx) error {
		view.Hidden = getValue(tx, bucketHidden, uid.AccountID, uid.LocalID) != nil

		b, err := readBulletin(tx, uid)
		if err != nil {
			return err
		}
		if b != nil {
			view.Status = b.Status
			view.ModifiedMillis = b.ModifiedMillis
		}

		view.Tombstone, err = readTombstone(tx, uid)
		return err
	})
	if err != nil {
		return models.LocalView{}, err
	}

	return view, nil
}

// checkBulletin проверяет согласованность метаданных с payload и receipt
func checkBulletin(b *models.Bulletin, payload []byte, receipt models.UploadRecord) error {
	if err := b.UID.Validate(); err != nil {
		return err
	}
	if b.Status != models.StatusDraft && b.Status != models.StatusSealed {
		return fmt.Errorf("invalid status %d", b.Status)
	}
	if int64(len(payload)) != b.PayloadSize || !crypto.EqualDigest(crypto.Digest(payload), b.PayloadDigest) {
		return fmt.Errorf("payload does not match bulletin %s metadata", b.UID)
	}
	if receipt.IsEmpty() {
		return fmt.Errorf("bulletin %s has no upload record", b.UID)
	}
	return nil
}

// readBulletin возвращает nil без ошибки, если документа нет
func readBulletin(tx *bbolt.Tx, uid models.UniversalID) (*models.Bulletin, error) {
	data := getValue(tx, bucketBulletins, uid.AccountID, uid.LocalID)
	if data == nil {
		return nil, nil
	}

	b := &models.Bulletin{}
	if err := json.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("%w: bulletin %s: %v", storage.ErrCorruptRecord, uid, err)
	}
	return b, nil
}

// writeBulletin пишет метаданные, payload и receipt в текущей транзакции
func writeBulletin(tx *bbolt.Tx, b *models.Bulletin, payload []byte, receipt models.UploadRecord) error {
	meta, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal bulletin: %w", err)
	}

	acct, local := b.UID.AccountID, b.UID.LocalID
	if err := putValue(tx, bucketBulletins, acct, local, meta); err != nil {
		return err
	}
	if err := putValue(tx, bucketPayloads, acct, local, payload); err != nil {
		return err
	}
	return putValue(tx, bucketReceipts, acct, local, []byte(receipt))
}

package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/server/storage"
)

// DeleteDraft removes a draft and writes the client's delete request atomically.
// Запрос сохраняется и тогда, когда черновика локально нет: он блокирует
// получение устаревших копий от других серверов.
func (s *Storage) DeleteDraft(ctx context.Context, uid models.UniversalID, req *models.DeleteRequest) error {
	if err := uid.Validate(); err != nil {
		return err
	}
	if err := req.Validate(uid); err != nil {
		return err
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal delete request: %w", err)
	}

	return s.update(func(tx *bbolt.Tx) error {
		existing, err := readBulletin(tx, uid)
		if err != nil {
			return err
		}
		if existing != nil && existing.IsSealed() {
			return storage.ErrNotDraft
		}

		for _, top := range [][]byte{bucketBulletins, bucketPayloads, bucketReceipts} {
			if err := deleteValue(tx, top, uid.AccountID, uid.LocalID); err != nil {
				return err
			}
		}

		return putValue(tx, bucketTombstones, uid.AccountID, uid.LocalID, data)
	})
}

// GetTombstone retrieves the delete request stored for uid
func (s *Storage) GetTombstone(ctx context.Context, uid models.UniversalID) (*models.DeleteRequest, error) {
	var req *models.DeleteRequest

	err := s.view(func(tx *bbolt.Tx) error {
		var err error
		req, err = readTombstone(tx, uid)
		if err != nil {
			return err
		}
		if req == nil {
			return storage.ErrTombstoneNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return req, nil
}

// DeleteTombstone removes the delete request stored for uid, if any
func (s *Storage) DeleteTombstone(ctx context.Context, uid models.UniversalID) error {
	return s.update(func(tx *bbolt.Tx) error {
		return deleteValue(tx, bucketTombstones, uid.AccountID, uid.LocalID)
	})
}

// readTombstone возвращает nil без ошибки, если запроса на удаление нет
func readTombstone(tx *bbolt.Tx, uid models.UniversalID) (*models.DeleteRequest, error) {
	data := getValue(tx, bucketTombstones, uid.AccountID, uid.LocalID)
	if data == nil {
		return nil, nil
	}

	req := &models.DeleteRequest{}
	if err := json.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("%w: delete request %s: %v", storage.ErrCorruptRecord, uid, err)
	}
	if err := req.Validate(uid); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCorruptRecord, err)
	}
	return req, nil
}

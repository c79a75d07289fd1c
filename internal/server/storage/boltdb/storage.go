// Package boltdb хранит документы сервера в BoltDB.
//
// Каждый вид записи лежит в своём верхнем bucket, внутри которого заведён
// вложенный bucket на аккаунт; ключ записи - local id:
//
//	bulletins/<account>/<localID>  метаданные (JSON)
//	payloads/<account>/<localID>   подписанный поток байт документа
//	receipts/<account>/<localID>   upload record
//	tombstones/<account>/<localID> delete request (JSON)
//	hidden/<account>/<localID>     маркер скрытия
package boltdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/bulletinmirror/internal/server/storage"
)

var (
	// BoltDB bucket names
	bucketBulletins  = []byte("bulletins")
	bucketPayloads   = []byte("payloads")
	bucketReceipts   = []byte("receipts")
	bucketTombstones = []byte("tombstones")
	bucketHidden     = []byte("hidden")

	allBuckets = [][]byte{bucketBulletins, bucketPayloads, bucketReceipts, bucketTombstones, bucketHidden}
)

// hiddenMarker значение ключа в bucket hidden
var hiddenMarker = []byte{1}

// Storage represents BoltDB storage of bulletins
type Storage struct {
	db     *bbolt.DB
	logger *slog.Logger
	closed atomic.Bool
}

var _ storage.BulletinStorage = (*Storage)(nil)

// New opens the bulletin store at dbPath, creating the file and the top-level
// buckets on first use.
func New(ctx context.Context, dbPath string, logger *slog.Logger) (*Storage, error) {
	// Timeout: второй процесс на том же файле получит ошибку, а не зависнет
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bulletin store %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}

	logger.DebugContext(ctx, "Bulletin store opened", "path", dbPath)
	return &Storage{db: db, logger: logger}, nil
}

// Close releases the file lock. Repeated calls are no-ops.
func (s *Storage) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) view(fn func(tx *bbolt.Tx) error) error {
	if s.closed.Load() {
		return storage.ErrStorageClosed
	}
	return s.db.View(fn)
}

func (s *Storage) update(fn func(tx *bbolt.Tx) error) error {
	if s.closed.Load() {
		return storage.ErrStorageClosed
	}
	return s.db.Update(fn)
}

// accountBucket возвращает вложенный bucket аккаунта или nil, если его нет
func accountBucket(tx *bbolt.Tx, top []byte, accountID string) *bbolt.Bucket {
	root := tx.Bucket(top)
	if root == nil {
		return nil
	}
	return root.Bucket([]byte(accountID))
}

// accountBucketForWrite возвращает вложенный bucket аккаунта, создавая его
func accountBucketForWrite(tx *bbolt.Tx, top []byte, accountID string) (*bbolt.Bucket, error) {
	root := tx.Bucket(top)
	if root == nil {
		return nil, fmt.Errorf("%s bucket not found", top)
	}
	b, err := root.CreateBucketIfNotExists([]byte(accountID))
	if err != nil {
		return nil, fmt.Errorf("failed to create account bucket in %s: %w", top, err)
	}
	return b, nil
}

// getValue читает значение; результат действителен только внутри транзакции
func getValue(tx *bbolt.Tx, top []byte, accountID, localID string) []byte {
	b := accountBucket(tx, top, accountID)
	if b == nil {
		return nil
	}
	return b.Get([]byte(localID))
}

// deleteValue удаляет ключ, если bucket аккаунта существует
func deleteValue(tx *bbolt.Tx, top []byte, accountID, localID string) error {
	b := accountBucket(tx, top, accountID)
	if b == nil {
		return nil
	}
	if err := b.Delete([]byte(localID)); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", top, err)
	}
	return nil
}

func putValue(tx *bbolt.Tx, top []byte, accountID, localID string, value []byte) error {
	b, err := accountBucketForWrite(tx, top, accountID)
	if err != nil {
		return err
	}
	if err := b.Put([]byte(localID), value); err != nil {
		return fmt.Errorf("failed to write to %s: %w", top, err)
	}
	return nil
}

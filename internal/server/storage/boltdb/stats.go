package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/server/storage"
)

// Stats counts stored records
func (s *Storage) Stats(ctx context.Context) (*storage.Stats, error) {
	stats := &storage.Stats{}

	err := s.view(func(tx *bbolt.Tx) error {
		err := forEachAccount(tx, bucketBulletins, func(_ []byte, b *bbolt.Bucket) error {
			counted := false
			return b.ForEach(func(_, v []byte) error {
				if !counted {
					stats.Accounts++
					counted = true
				}
				var meta models.Bulletin
				if err := json.Unmarshal(v, &meta); err != nil {
					return nil
				}
				if meta.IsSealed() {
					stats.Sealed++
				} else {
					stats.Drafts++
				}
				return nil
			})
		})
		if err != nil {
			return err
		}

		err = forEachAccount(tx, bucketTombstones, func(_ []byte, b *bbolt.Bucket) error {
			stats.Tombstones += b.Stats().KeyN
			return nil
		})
		if err != nil {
			return err
		}

		return forEachAccount(tx, bucketHidden, func(_ []byte, b *bbolt.Bucket) error {
			stats.Hidden += b.Stats().KeyN
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// forEachAccount обходит вложенные buckets аккаунтов верхнего bucket top
func forEachAccount(tx *bbolt.Tx, top []byte, fn func(account []byte, b *bbolt.Bucket) error) error {
	root := tx.Bucket(top)
	if root == nil {
		return fmt.Errorf("%s bucket not found", top)
	}
	return root.ForEach(func(k, v []byte) error {
		if v != nil {
			return nil
		}
		return fn(k, root.Bucket(k))
	})
}

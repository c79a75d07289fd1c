package boltdb

import (
	"context"

	"go.etcd.io/bbolt"

	"github.com/iudanet/bulletinmirror/internal/models"
)

// Hide marks uid as suppressed
func (s *Storage) Hide(ctx context.Context, uid models.UniversalID) error {
	if err := uid.Validate(); err != nil {
		return err
	}
	return s.update(func(tx *bbolt.Tx) error {
		return putValue(tx, bucketHidden, uid.AccountID, uid.LocalID, hiddenMarker)
	})
}

// IsHidden reports whether uid is suppressed
func (s *Storage) IsHidden(ctx context.Context, uid models.UniversalID) (bool, error) {
	var hidden bool
	err := s.view(func(tx *bbolt.Tx) error {
		hidden = getValue(tx, bucketHidden, uid.AccountID, uid.LocalID) != nil
		return nil
	})
	return hidden, err
}

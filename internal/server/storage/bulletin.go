package storage

import (
	"context"
	"io"

	"github.com/iudanet/bulletinmirror/internal/models"
)

// BulletinStorage defines persistence of bulletins, their receipts,
// delete requests (tombstones) and hidden markers.
//
// Writes of a bulletin together with its receipt are atomic: a reader never
// observes a document without its receipt.
type BulletinStorage interface {
	// SaveUploaded stores a bulletin accepted from a local client.
	// A sealed bulletin is never replaced (ErrSealedExists).
	SaveUploaded(ctx context.Context, b *models.Bulletin, payload []byte, receipt models.UploadRecord) error

	// CommitMirrored stores a bulletin pulled from a peer and its receipt, and
	// removes a superseded tombstone in the same transaction. The tombstone is
	// re-read inside the transaction: a draft it still blocks fails with
	// ErrTombstoned. dropTombstone is the caller's expectation only.
	CommitMirrored(ctx context.Context, b *models.Bulletin, payload []byte, receipt models.UploadRecord, dropTombstone bool) error

	// DeleteDraft removes a draft and records the client's delete request.
	// Returns ErrNotDraft for sealed bulletins.
	DeleteDraft(ctx context.Context, uid models.UniversalID, req *models.DeleteRequest) error

	// Hide marks the id as suppressed. Hidden ids are never offered or accepted.
	Hide(ctx context.Context, uid models.UniversalID) error

	// IsHidden reports whether the id is suppressed.
	IsHidden(ctx context.Context, uid models.UniversalID) (bool, error)

	// LocalView returns the local state of uid in a single snapshot.
	// A malformed tombstone yields ErrCorruptRecord.
	LocalView(ctx context.Context, uid models.UniversalID) (models.LocalView, error)

	// ListAccounts returns all accounts with at least one stored bulletin.
	ListAccounts(ctx context.Context) ([]string, error)

	// ListAccountBulletins returns a snapshot of the visible (not hidden)
	// bulletins of one account.
	ListAccountBulletins(ctx context.Context, accountID string) ([]*models.Bulletin, error)

	// GetBulletin returns bulletin metadata or ErrBulletinNotFound.
	GetBulletin(ctx context.Context, uid models.UniversalID) (*models.Bulletin, error)

	// GetPayload returns a copy of the stored payload.
	GetPayload(ctx context.Context, uid models.UniversalID) ([]byte, error)

	// ViewPayload calls fn with the bulletin and a reader over its payload.
	// The reader is valid only during fn.
	ViewPayload(ctx context.Context, uid models.UniversalID, fn func(b *models.Bulletin, payload io.ReaderAt) error) error

	// GetUploadRecord returns the receipt or ErrUploadRecordNotFound.
	GetUploadRecord(ctx context.Context, uid models.UniversalID) (models.UploadRecord, error)

	// GetTombstone returns the delete request or ErrTombstoneNotFound.
	GetTombstone(ctx context.Context, uid models.UniversalID) (*models.DeleteRequest, error)

	// DeleteTombstone removes the delete request if present.
	DeleteTombstone(ctx context.Context, uid models.UniversalID) error

	// Stats returns record counters.
	Stats(ctx context.Context) (*Stats, error)
}

// Stats holds bulletin store counters.
type Stats struct {
	Accounts   int `json:"accounts"`
	Drafts     int `json:"drafts"`
	Sealed     int `json:"sealed"`
	Tombstones int `json:"tombstones"`
	Hidden     int `json:"hidden"`
}

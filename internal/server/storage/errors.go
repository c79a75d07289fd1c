package storage

import "errors"

// Common storage errors
var (
	// ErrBulletinNotFound indicates that no bulletin is stored for the id
	ErrBulletinNotFound = errors.New("bulletin not found")

	// ErrSealedExists indicates an attempt to replace a sealed bulletin
	ErrSealedExists = errors.New("sealed bulletin already exists")

	// ErrStaleDraft indicates a draft that is not newer than the stored one
	ErrStaleDraft = errors.New("draft is not newer than stored copy")

	// ErrTombstoned indicates a draft blocked by a delete request at or after its mtime
	ErrTombstoned = errors.New("draft is superseded by a delete request")

	// ErrNotDraft indicates a draft-only operation on a sealed bulletin
	ErrNotDraft = errors.New("bulletin is not a draft")

	// ErrRecordHidden indicates a write for a hidden (suppressed) id
	ErrRecordHidden = errors.New("bulletin is hidden")

	// ErrCorruptRecord indicates stored metadata that cannot be decoded or trusted
	ErrCorruptRecord = errors.New("corrupt stored record")

	// ErrUploadRecordNotFound indicates that no receipt is stored for the id
	ErrUploadRecordNotFound = errors.New("upload record not found")

	// ErrTombstoneNotFound indicates that no delete request is stored for the id
	ErrTombstoneNotFound = errors.New("delete request not found")

	// ErrStorageClosed indicates use of a closed storage
	ErrStorageClosed = errors.New("storage closed")

	// ErrPeerNotFound indicates that peer was not found in the registry
	ErrPeerNotFound = errors.New("peer not found")

	// ErrInvalidPeer indicates a peer descriptor with missing fields
	ErrInvalidPeer = errors.New("invalid peer")
)

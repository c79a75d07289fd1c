package storage

import (
	"context"

	"github.com/iudanet/bulletinmirror/internal/models"
)

// PeerStorage defines persistence of configured mirroring peers
type PeerStorage interface {
	// UpsertPeer creates or updates a peer by ID
	UpsertPeer(ctx context.Context, peer *models.Peer) error

	// GetPeer retrieves peer by ID
	// Returns ErrPeerNotFound if peer doesn't exist
	GetPeer(ctx context.Context, id string) (*models.Peer, error)

	// ListPeers returns peers that replicate in the given direction.
	// DirectionBoth peers match any direction; empty direction returns all peers.
	ListPeers(ctx context.Context, direction models.Direction) ([]*models.Peer, error)

	// DeletePeer deletes peer by ID
	// Returns ErrPeerNotFound if peer doesn't exist
	DeletePeer(ctx context.Context, id string) error

	// IsAuthorizedCaller reports whether publicKey belongs to a peer allowed to pull from us
	IsAuthorizedCaller(ctx context.Context, publicKey string) (bool, error)
}

// PullJournal records bulletins pulled from peers
type PullJournal interface {
	// RecordPull appends one journal entry
	RecordPull(ctx context.Context, rec *models.PullRecord) error

	// ListPulls returns the newest entries for a peer, at most limit
	ListPulls(ctx context.Context, peerID string, limit int) ([]*models.PullRecord, error)
}

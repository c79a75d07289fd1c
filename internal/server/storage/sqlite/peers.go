package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/server/storage"
)

// UpsertPeer creates or updates a peer by ID
func (s *Storage) UpsertPeer(ctx context.Context, peer *models.Peer) error {
	if err := validatePeer(peer); err != nil {
		return err
	}

	now := time.Now().UTC()
	if peer.CreatedAt.IsZero() {
		peer.CreatedAt = now
	}
	peer.UpdatedAt = now

	query := `
		INSERT INTO peers (id, address, public_key, direction, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			address = excluded.address,
			public_key = excluded.public_key,
			direction = excluded.direction,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		peer.ID,
		peer.Address,
		peer.PublicKey,
		string(peer.Direction),
		peer.CreatedAt,
		peer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert peer: %w", err)
	}

	return nil
}

// GetPeer retrieves peer by ID
func (s *Storage) GetPeer(ctx context.Context, id string) (*models.Peer, error) {
	query := `
		SELECT id, address, public_key, direction, created_at, updated_at
		FROM peers
		WHERE id = ?
	`

	peer, err := scanPeer(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrPeerNotFound
		}
		return nil, fmt.Errorf("failed to get peer: %w", err)
	}

	return peer, nil
}

// ListPeers returns peers for the given direction ordered by ID
func (s *Storage) ListPeers(ctx context.Context, direction models.Direction) ([]*models.Peer, error) {
	query := `
		SELECT id, address, public_key, direction, created_at, updated_at
		FROM peers
	`
	var args []any
	if direction != "" {
		query += ` WHERE direction IN (?, ?)`
		args = append(args, string(direction), string(models.DirectionBoth))
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query peers: %w", err)
	}
	defer rows.Close()

	peers := make([]*models.Peer, 0)
	for rows.Next() {
		peer, err := scanPeer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan peer: %w", err)
		}
		peers = append(peers, peer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating peers: %w", err)
	}

	return peers, nil
}

// DeletePeer deletes peer by ID together with its pull journal
func (s *Storage) DeletePeer(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM peers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete peer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return storage.ErrPeerNotFound
	}

	return nil
}

// IsAuthorizedCaller reports whether publicKey belongs to an inbound peer
func (s *Storage) IsAuthorizedCaller(ctx context.Context, publicKey string) (bool, error) {
	if publicKey == "" {
		return false, nil
	}

	query := `
		SELECT COUNT(1)
		FROM peers
		WHERE public_key = ? AND direction IN (?, ?)
	`

	var count int
	err := s.db.QueryRowContext(ctx, query,
		publicKey,
		string(models.DirectionInbound),
		string(models.DirectionBoth),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check caller: %w", err)
	}

	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPeer(row rowScanner) (*models.Peer, error) {
	peer := &models.Peer{}
	var direction string

	err := row.Scan(
		&peer.ID,
		&peer.Address,
		&peer.PublicKey,
		&direction,
		&peer.CreatedAt,
		&peer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	peer.Direction = models.Direction(direction)
	return peer, nil
}

func validatePeer(peer *models.Peer) error {
	switch {
	case peer == nil:
		return fmt.Errorf("%w: nil", storage.ErrInvalidPeer)
	case peer.ID == "":
		return fmt.Errorf("%w: empty id", storage.ErrInvalidPeer)
	case peer.PublicKey == "":
		return fmt.Errorf("%w: %s has no public key", storage.ErrInvalidPeer, peer.ID)
	}

	if _, err := models.ParseDirection(string(peer.Direction)); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInvalidPeer, err)
	}
	if peer.CallsOut() && peer.Address == "" {
		return fmt.Errorf("%w: outbound peer %s has no address", storage.ErrInvalidPeer, peer.ID)
	}
	return nil
}

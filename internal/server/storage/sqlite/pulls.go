package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/bulletinmirror/internal/models"
)

// defaultPullsLimit ограничение для ListPulls при limit <= 0
const defaultPullsLimit = 100

// RecordPull appends a journal entry for a bulletin pulled from a peer
func (s *Storage) RecordPull(ctx context.Context, rec *models.PullRecord) error {
	if rec.PulledAt.IsZero() {
		rec.PulledAt = time.Now().UTC()
	}

	query := `
		INSERT INTO mirror_pulls (peer_id, account_id, local_id, status, size, pulled_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.PeerID,
		rec.UID.AccountID,
		rec.UID.LocalID,
		rec.Status.String(),
		rec.Size,
		rec.PulledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record pull: %w", err)
	}

	return nil
}

// ListPulls returns the newest journal entries of a peer
func (s *Storage) ListPulls(ctx context.Context, peerID string, limit int) ([]*models.PullRecord, error) {
	if limit <= 0 {
		limit = defaultPullsLimit
	}

	query := `
		SELECT peer_id, account_id, local_id, status, size, pulled_at
		FROM mirror_pulls
		WHERE peer_id = ?
		ORDER BY pulled_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, peerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pulls: %w", err)
	}
	defer rows.Close()

	records := make([]*models.PullRecord, 0)
	for rows.Next() {
		rec := &models.PullRecord{}
		var status string

		if err := rows.Scan(
			&rec.PeerID,
			&rec.UID.AccountID,
			&rec.UID.LocalID,
			&status,
			&rec.Size,
			&rec.PulledAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pull: %w", err)
		}

		rec.Status, err = models.ParseRecordStatus(status)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pull status: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pulls: %w", err)
	}

	return records, nil
}

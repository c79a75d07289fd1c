package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedTombstone indicates a stored delete request that cannot be trusted.
var ErrMalformedTombstone = errors.New("malformed delete request")

// DeleteRequestIdentifier is the first line of every delete request record.
const DeleteRequestIdentifier = "Draft Delete Request 1.0"

// DeleteRequest (tombstone) - подписанная запись о запросе клиента на удаление
// черновика. Хранится по UniversalID удалённого документа, пока не будет
// вытеснена более новой версией того же документа от другого сервера.
type DeleteRequest struct {
	AccountID       string `json:"account_id"`
	OriginalRequest string `json:"original_request"` // OriginalRequest исходный запрос клиента
	Identifier      string `json:"identifier"`
	Signature       []byte `json:"signature"`
	TimestampMillis int64  `json:"timestamp_millis"`
}

// NewDeleteRequest creates a tombstone for a client's delete request.
func NewDeleteRequest(accountID, originalRequest string, signature []byte, timestampMillis int64) *DeleteRequest {
	return &DeleteRequest{
		Identifier:      DeleteRequestIdentifier,
		AccountID:       accountID,
		OriginalRequest: originalRequest,
		Signature:       signature,
		TimestampMillis: timestampMillis,
	}
}

// Validate reports ErrMalformedTombstone when a required field is missing or
// the record belongs to another account.
func (d *DeleteRequest) Validate(uid UniversalID) error {
	switch {
	case d.Identifier != DeleteRequestIdentifier:
		return fmt.Errorf("%w: identifier %q", ErrMalformedTombstone, d.Identifier)
	case d.AccountID != uid.AccountID:
		return fmt.Errorf("%w: account mismatch", ErrMalformedTombstone)
	case d.TimestampMillis <= 0:
		return fmt.Errorf("%w: timestamp %d", ErrMalformedTombstone, d.TimestampMillis)
	case strings.TrimSpace(d.OriginalRequest) == "":
		return fmt.Errorf("%w: empty original request", ErrMalformedTombstone)
	case len(d.Signature) == 0:
		return fmt.Errorf("%w: missing signature", ErrMalformedTombstone)
	}
	return nil
}

// Supersedes reports whether the tombstone blocks a draft modified at modifiedMillis.
// A tombstone at or after the draft's modification time wins.
func (d *DeleteRequest) Supersedes(modifiedMillis int64) bool {
	return d.TimestampMillis >= modifiedMillis
}

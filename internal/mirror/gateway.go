package mirror

import (
	"context"

	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/transfer"
)

//go:generate moq -out gateway_mock.go . Gateway
//go:generate moq -out store_mock.go . Store Journal

// Gateway is the puller's view of one supplier.
// Транспортные ошибки возвращаются как ErrServerUnavailable,
// неизвестный вызов - как ErrUnsupported.
type Gateway interface {
	ListAccounts(ctx context.Context) ([]string, error)
	ListAvailableItems(ctx context.Context, accountID string) ([]models.MirroringInfo, error)
	ListBulletinsForMirroring(ctx context.Context, accountID string) ([]models.LegacyBulletinInfo, error)
	GetUploadRecord(ctx context.Context, uid models.UniversalID) (models.UploadRecord, error)
	GetChunk(ctx context.Context, uid models.UniversalID, offset, maxSize int64) (*transfer.Chunk, error)
}

// Store is the local bulletin storage as seen by the puller.
type Store interface {
	LocalView(ctx context.Context, uid models.UniversalID) (models.LocalView, error)
	CommitMirrored(ctx context.Context, b *models.Bulletin, payload []byte, receipt models.UploadRecord, dropTombstone bool) error
}

// Journal records successful pulls.
type Journal interface {
	RecordPull(ctx context.Context, rec *models.PullRecord) error
}

// Capability describes which enumeration call a supplier understands.
type Capability int

const (
	// CapabilityRich - поставщик перечисляет черновики и запечатанные документы с mtime
	CapabilityRich Capability = iota
	// CapabilityLegacySealedOnly - только запечатанные документы без mtime
	CapabilityLegacySealedOnly
)

func (c Capability) String() string {
	switch c {
	case CapabilityRich:
		return "rich"
	case CapabilityLegacySealedOnly:
		return "legacy-sealed-only"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Capability) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

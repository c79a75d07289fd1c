package mirror

import "github.com/iudanet/bulletinmirror/internal/models"

// Причины решения для логов
const (
	ReasonHidden          = "hidden locally"
	ReasonSealedExists    = "sealed copy exists locally"
	ReasonNewDraft        = "new draft"
	ReasonNewerDraft      = "draft newer than local copy"
	ReasonStaleDraft      = "local draft is not older"
	ReasonTombstoned      = "delete request at or after draft modification"
	ReasonSealedMissing   = "sealed copy missing locally"
	ReasonUnknownStatus   = "unknown candidate status"
	ReasonForeignAccount  = "item outside requested account"
	ReasonInvalidIdentity = "invalid universal id"
)

// Decision is the outcome of Want.
type Decision struct {
	Reason string
	// Wanted - документ нужно загрузить
	Wanted bool
	// DropTombstone - принятие документа вытесняет локальный запрос на удаление
	DropTombstone bool
}

// Want decides whether a candidate offered by a supplier should be pulled,
// given the local state of the same UniversalID.
//
// Правила по приоритету:
//  1. скрытый id не нужен никогда;
//  2. локальный запечатанный документ никогда не заменяется;
//  3. черновик нужен, если локальной копии нет или она строго старше, и нет
//     запроса на удаление с временем не раньше изменения черновика;
//  4. запечатанный документ без локальной запечатанной копии нужен всегда,
//     независимо от запроса на удаление черновика.
func Want(local models.LocalView, candidate models.MirroringInfo) Decision {
	if local.Hidden {
		return Decision{Reason: ReasonHidden}
	}
	if local.HasSealed() {
		return Decision{Reason: ReasonSealedExists}
	}

	switch candidate.Status {
	case models.StatusDraft:
		if local.HasRecord() && local.ModifiedMillis >= candidate.ModifiedMillis {
			return Decision{Reason: ReasonStaleDraft}
		}
		if local.Tombstone != nil && local.Tombstone.Supersedes(candidate.ModifiedMillis) {
			return Decision{Reason: ReasonTombstoned}
		}

		reason := ReasonNewDraft
		if local.HasRecord() {
			reason = ReasonNewerDraft
		}
		return Decision{
			Wanted:        true,
			Reason:        reason,
			DropTombstone: local.Tombstone != nil,
		}

	case models.StatusSealed:
		return Decision{
			Wanted:        true,
			Reason:        ReasonSealedMissing,
			DropTombstone: local.Tombstone != nil,
		}

	default:
		return Decision{Reason: ReasonUnknownStatus}
	}
}

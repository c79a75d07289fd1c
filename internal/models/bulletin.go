package models

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidUniversalID возвращается для пустых или некорректных идентификаторов
var ErrInvalidUniversalID = errors.New("invalid universal id")

// keySeparator разделяет account и local id в ключах хранилища
const keySeparator = "\x00"

// UniversalID идентифицирует один логический документ (bulletin).
// LocalID уникален в пределах аккаунта. Значение неизменяемо.
type UniversalID struct {
	AccountID string `json:"account_id"` // AccountID публичный ключ автора
	LocalID   string `json:"local_id"`   // LocalID идентификатор внутри аккаунта
}

// NewUniversalID creates a UniversalID from its parts.
func NewUniversalID(accountID, localID string) UniversalID {
	return UniversalID{AccountID: accountID, LocalID: localID}
}

// Validate checks that both parts are present and safe to use as storage keys.
func (u UniversalID) Validate() error {
	if u.AccountID == "" || u.LocalID == "" {
		return fmt.Errorf("%w: empty part", ErrInvalidUniversalID)
	}
	if strings.Contains(u.AccountID, keySeparator) || strings.ContainsAny(u.LocalID, keySeparator+"/") {
		return fmt.Errorf("%w: forbidden character", ErrInvalidUniversalID)
	}
	return nil
}

// Key возвращает байтовый ключ для хранилища
func (u UniversalID) Key() []byte {
	return []byte(u.AccountID + keySeparator + u.LocalID)
}

// String returns a human-readable form used in logs.
func (u UniversalID) String() string {
	return PublicCode(u.AccountID) + "->" + u.LocalID
}

// PublicCode сокращает account id до короткой формы для логов
func PublicCode(accountID string) string {
	const maxLen = 12
	if len(accountID) <= maxLen {
		return accountID
	}
	return accountID[:maxLen] + "…"
}

// RecordStatus is the lifecycle status of a bulletin on one server.
type RecordStatus int

const (
	// StatusDraft черновик, может изменяться и удаляться клиентом
	StatusDraft RecordStatus = iota + 1
	// StatusSealed запечатанный документ, неизменяем
	StatusSealed
)

// String returns the wire name of the status.
func (s RecordStatus) String() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusSealed:
		return "sealed"
	default:
		return "unknown"
	}
}

// ParseRecordStatus parses the wire name produced by String.
func ParseRecordStatus(s string) (RecordStatus, error) {
	switch strings.ToLower(s) {
	case "draft":
		return StatusDraft, nil
	case "sealed":
		return StatusSealed, nil
	default:
		return 0, fmt.Errorf("unknown record status %q", s)
	}
}

// CanBeReplacedBy reports whether a record in status s may be overwritten by a
// record in status next. Sealed records are never replaced.
func (s RecordStatus) CanBeReplacedBy(next RecordStatus) bool {
	return s != StatusSealed
}

// Bulletin описывает метаданные документа, хранящегося на сервере.
// Сам документ (подписанный поток байт) хранится отдельно как payload.
type Bulletin struct {
	UID            UniversalID  `json:"uid"`
	PayloadDigest  []byte       `json:"payload_digest"`  // PayloadDigest SHA-256 от payload
	Status         RecordStatus `json:"status"`          // Status draft или sealed
	ModifiedMillis int64        `json:"modified_millis"` // ModifiedMillis время последнего изменения (mtime)
	PayloadSize    int64        `json:"payload_size"`    // PayloadSize размер payload в байтах
}

// NewBulletin builds bulletin metadata for the given payload.
func NewBulletin(uid UniversalID, status RecordStatus, modifiedMillis int64, payload []byte) *Bulletin {
	digest := sha256.Sum256(payload)
	return &Bulletin{
		UID:            uid,
		Status:         status,
		ModifiedMillis: modifiedMillis,
		PayloadSize:    int64(len(payload)),
		PayloadDigest:  digest[:],
	}
}

// IsSealed reports whether the bulletin is sealed.
func (b *Bulletin) IsSealed() bool {
	return b.Status == StatusSealed
}

// HeaderDigest возвращает байты, которые подписываются как "signature of header".
// Время модификации не входит в дайджест, чтобы подпись из legacy-перечисления
// (без mtime) проверялась так же, как и из полного.
func HeaderDigest(uid UniversalID, status RecordStatus, payloadDigest []byte) []byte {
	h := sha256.New()
	writeField := func(b []byte) {
		var size [8]byte
		binary.BigEndian.PutUint64(size[:], uint64(len(b)))
		h.Write(size[:])
		h.Write(b)
	}
	writeField([]byte(uid.AccountID))
	writeField([]byte(uid.LocalID))
	writeField([]byte(status.String()))
	writeField(payloadDigest)
	return h.Sum(nil)
}

// MirroringInfo описывает удалённый элемент при перечислении у поставщика.
// Не сохраняется, пересчитывается при каждом опросе.
type MirroringInfo struct {
	UID             UniversalID  `json:"uid"`
	HeaderSignature []byte       `json:"header_signature"`
	Status          RecordStatus `json:"status"`
	ModifiedMillis  int64        `json:"modified_millis"`
}

// LegacyBulletinInfo is the sealed-only item shape returned by older suppliers.
type LegacyBulletinInfo struct {
	LocalID         string `json:"local_id"`
	HeaderSignature []byte `json:"header_signature"`
}

// ToMirroringInfo converts a legacy item into a MirroringInfo. Legacy suppliers
// only offer sealed bulletins and do not report modification times.
func (l LegacyBulletinInfo) ToMirroringInfo(accountID string) MirroringInfo {
	return MirroringInfo{
		UID:             NewUniversalID(accountID, l.LocalID),
		Status:          StatusSealed,
		HeaderSignature: l.HeaderSignature,
	}
}

// LocalView is a read-only snapshot of the local state of one UniversalID.
// It is everything the conflict resolver needs to decide wantedness.
type LocalView struct {
	Tombstone      *DeleteRequest
	UID            UniversalID
	Status         RecordStatus // Status нулевой, если записи нет
	ModifiedMillis int64
	Hidden         bool
}

// HasRecord reports whether a document exists locally in any status.
func (v LocalView) HasRecord() bool {
	return v.Status != 0
}

// HasSealed reports whether a sealed document exists locally.
func (v LocalView) HasSealed() bool {
	return v.Status == StatusSealed
}

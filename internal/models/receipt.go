package models

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// UploadRecordIdentifier is the first line of every upload record.
const UploadRecordIdentifier = "Bulletin Upload Record 1.0"

// UploadRecord (receipt) - подписанное подтверждение первичной загрузки.
// Создаётся один раз сервером, принявшим документ, и переносится вместе с
// документом при каждом шаге зеркалирования без изменений.
type UploadRecord string

// NewUploadRecord builds the receipt text for a bulletin accepted by this server
// and signs it with sign.
func NewUploadRecord(uid UniversalID, payloadDigest []byte, acceptedMillis int64, sign func([]byte) []byte) UploadRecord {
	body := strings.Join([]string{
		UploadRecordIdentifier,
		uid.LocalID,
		strconv.FormatInt(acceptedMillis, 10),
		base64.StdEncoding.EncodeToString(payloadDigest),
	}, "\n") + "\n"

	sig := sign([]byte(body))
	return UploadRecord(body + base64.StdEncoding.EncodeToString(sig) + "\n")
}

// IsEmpty reports whether the receipt has no content.
func (r UploadRecord) IsEmpty() bool {
	return strings.TrimSpace(string(r)) == ""
}

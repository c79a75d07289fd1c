// Package api описывает JSON-формат запросов и ответов зеркалирования
// между серверами.
package api

// Коды результата. Каждый ответ содержит ровно один из них.
const (
	ResultOK             = "OK"
	ResultChunkOK        = "CHUNK_OK"
	ResultNoServer       = "NO_SERVER"
	ResultNotFound       = "NOT_FOUND"
	ResultNotAuthorized  = "NOT_AUTHORIZED"
	ResultInvalidData    = "INVALID_DATA"
	ResultServerError    = "SERVER_ERROR"
	ResultUnknownCommand = "UNKNOWN_COMMAND"
)

// HeaderRequestID заголовок с идентификатором запроса
const HeaderRequestID = "X-Request-ID"

// Response общий конверт ответа
type Response struct {
	ResultCode string `json:"result_code"`
	Message    string `json:"message,omitempty"` // дополнительное сообщение для оператора
}

// AccountsResponse ответ на GET /api/v1/mirror/accounts
type AccountsResponse struct {
	Response
	Accounts []string `json:"accounts"`
}

// MirroringItem один элемент перечисления поставщика
type MirroringItem struct {
	AccountID       string `json:"account_id"`
	LocalID         string `json:"local_id"`
	Status          string `json:"status"` // draft или sealed
	HeaderSignature []byte `json:"header_signature"`
	ModifiedMillis  int64  `json:"modified_millis"`
}

// AvailableResponse ответ на GET .../{account}/available
type AvailableResponse struct {
	Response
	Items []MirroringItem `json:"items"`
}

// LegacyItem элемент перечисления старого формата (только sealed)
type LegacyItem struct {
	LocalID         string `json:"local_id"`
	HeaderSignature []byte `json:"header_signature"`
}

// BulletinsResponse ответ на GET .../{account}/bulletins
type BulletinsResponse struct {
	Response
	Bulletins []LegacyItem `json:"bulletins"`
}

// ReceiptResponse ответ на GET .../bulletins/{localID}/receipt
type ReceiptResponse struct {
	Response
	UploadRecord string `json:"upload_record"`
}

// ChunkResponse ответ на GET .../bulletins/{localID}/chunk.
// ResultCode равен CHUNK_OK для промежуточных частей и OK для последней.
type ChunkResponse struct {
	Response
	Data      []byte `json:"data"`
	TotalSize int64  `json:"total_size"`
	ChunkSize int64  `json:"chunk_size"`
}

// StoreStats счётчики локального хранилища
type StoreStats struct {
	Accounts   int `json:"accounts"`
	Drafts     int `json:"drafts"`
	Sealed     int `json:"sealed"`
	Tombstones int `json:"tombstones"`
	Hidden     int `json:"hidden"`
}

// EngineStatus состояние зеркалирования с одним пиром
type EngineStatus struct {
	SleepUntil      string `json:"sleep_until,omitempty"`
	PeerID          string `json:"peer_id"`
	State           string `json:"state"`
	Capability      string `json:"capability"`
	CurrentAccount  string `json:"current_account,omitempty"`
	PendingAccounts int    `json:"pending_accounts"`
	PendingItems    int    `json:"pending_items"`
	Pulled          int64  `json:"pulled"`
	Failed          int64  `json:"failed"`
}

// HealthResponse ответ на GET /api/v1/health
type HealthResponse struct {
	Stats   *StoreStats    `json:"stats,omitempty"`
	Status  string         `json:"status"`
	Version string         `json:"version,omitempty"`
	Server  string         `json:"server,omitempty"` // публичный код этого сервера
	Engines []EngineStatus `json:"engines,omitempty"`
}

package mirror

import (
	"errors"
	"fmt"
)

var (
	// ErrServerUnavailable - поставщик недоступен (NO_SERVER), повторить позже
	ErrServerUnavailable = errors.New("supplier unavailable")
	// ErrNotAuthorized - поставщик не разрешает нам зеркалирование
	ErrNotAuthorized = errors.New("not authorized for mirroring")
	// ErrUnsupported - поставщик не знает вызова (UNKNOWN_COMMAND)
	ErrUnsupported = errors.New("call not supported by supplier")
	// ErrNotFound - поставщик не нашёл документ или receipt
	ErrNotFound = errors.New("not found on supplier")
	// ErrMalformedResponse - ответ поставщика не разбирается или превышает допустимый размер
	ErrMalformedResponse = errors.New("malformed supplier response")
)

// ResultError is a non-OK result code that has no dedicated sentinel.
type ResultError struct {
	Code string
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("supplier returned %s", e.Code)
}

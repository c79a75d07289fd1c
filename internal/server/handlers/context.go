package handlers

import "context"

// contextKey тип для ключей контекста
type contextKey string

// CallerIDKey ключ для хранения публичного ключа вызывающего сервера в контексте
const CallerIDKey contextKey = "caller_id"

// WithCallerID returns a context carrying the authenticated caller id.
func WithCallerID(ctx context.Context, callerID string) context.Context {
	return context.WithValue(ctx, CallerIDKey, callerID)
}

// GetCallerID извлекает caller_id из контекста запроса
func GetCallerID(ctx context.Context) (string, bool) {
	callerID, ok := ctx.Value(CallerIDKey).(string)
	return callerID, ok && callerID != ""
}

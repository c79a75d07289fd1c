package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"
)

// Digest возвращает SHA-256 от payload документа
func Digest(payload []byte) []byte {
	sum := sha256.Sum256(payload)
	return sum[:]
}

// DigestReader считает SHA-256 потока, не загружая его в память целиком.
// Возвращает дайджест и количество прочитанных байт.
func DigestReader(r io.Reader) ([]byte, int64, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return nil, n, fmt.Errorf("failed to hash stream: %w", err)
	}
	return h.Sum(nil), n, nil
}

// EqualDigest сравнивает дайджесты за постоянное время
func EqualDigest(a, b []byte) bool {
	return len(a) == len(b) && subtle.ConstantTimeCompare(a, b) == 1
}

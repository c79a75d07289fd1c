package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize длина соли Argon2id
	SaltSize = 32
	// SealingKeyLen длина ключа AES-256, которым запечатан seed
	SealingKeyLen = 32
)

// keyFileContext отделяет ключ файла ключей от любых других производных ключей
const keyFileContext = "bulletinmirror key file"

// KDFParams - стоимость Argon2id. Сохраняется в файле ключа, чтобы старые
// файлы открывались и после смены значений по умолчанию.
type KDFParams struct {
	Time     uint32 `json:"time"`
	MemoryKB uint32 `json:"memory_kb"`
	Threads  uint8  `json:"threads"`
}

// DefaultKDF is used for newly written key files.
var DefaultKDF = KDFParams{Time: 1, MemoryKB: 64 * 1024, Threads: 4}

func (p KDFParams) validate() error {
	if p.Time == 0 || p.Threads == 0 || p.MemoryKB < 8*uint32(p.Threads) {
		return fmt.Errorf("invalid argon2id parameters %+v", p)
	}
	return nil
}

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("read random salt: %w", err)
	}
	return salt, nil
}

// DeriveSealingKey выводит ключ запечатывания из пароля оператора.
// Результат детерминирован для одинаковых passphrase, salt и params.
func DeriveSealingKey(passphrase, salt []byte, params KDFParams) ([]byte, error) {
	switch {
	case len(passphrase) == 0:
		return nil, errors.New("empty passphrase")
	case len(salt) != SaltSize:
		return nil, fmt.Errorf("salt is %d bytes, want %d", len(salt), SaltSize)
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	input := append(append(make([]byte, 0, len(passphrase)+len(keyFileContext)), passphrase...), keyFileContext...)
	return argon2.IDKey(input, salt, params.Time, params.MemoryKB, params.Threads, SealingKeyLen), nil
}

package validation

import (
	"fmt"
	"regexp"
)

// PeerIDPattern определяет допустимый формат имени пира
// Латинские буквы, цифры, '_', '-' и '.'; первая буква или цифра
var PeerIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

const (
	// MaxPeerIDLen максимальная длина имени пира
	MaxPeerIDLen = 64
	// MinPassphraseLen минимальная длина пароля ключа сервера
	MinPassphraseLen = 12
)

// ValidatePeerID проверяет имя пира из конфигурации.
// Имя попадает в логи, журнал и имена временных файлов.
func ValidatePeerID(id string) error {
	if id == "" {
		return fmt.Errorf("peer id cannot be empty")
	}

	if len(id) > MaxPeerIDLen {
		return fmt.Errorf("peer id must not exceed %d characters", MaxPeerIDLen)
	}

	if !PeerIDPattern.MatchString(id) {
		return fmt.Errorf("peer id can only contain letters, numbers, '_', '-' and '.', and must start with a letter or number")
	}

	return nil
}

// ValidatePassphrase проверяет минимальные требования к паролю ключа сервера
func ValidatePassphrase(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase cannot be empty")
	}

	if len(passphrase) < MinPassphraseLen {
		return fmt.Errorf("passphrase must be at least %d characters long", MinPassphraseLen)
	}

	return nil
}

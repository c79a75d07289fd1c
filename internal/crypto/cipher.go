package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

// NonceSize длина nonce AES-GCM; nonce хранится префиксом запечатанных данных
const NonceSize = 12

// ErrDecrypt возвращается при неверном пароле или повреждённых данных
var ErrDecrypt = errors.New("decryption failed")

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != SealingKeyLen {
		return nil, fmt.Errorf("sealing key is %d bytes, want %d", len(key), SealingKeyLen)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-256-GCM and returns nonce || ciphertext || tag.
// additional is authenticated but not encrypted.
func Seal(plaintext, key, additional []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, errors.New("nothing to seal")
	}
	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize, NonceSize+len(plaintext)+aesGCM.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}
	return aesGCM.Seal(nonce, nonce, plaintext, additional), nil
}

// Open расшифровывает данные, полученные от Seal, с тем же additional.
func Open(sealed, key, additional []byte) ([]byte, error) {
	if len(sealed) < NonceSize {
		return nil, fmt.Errorf("%w: sealed data too short", ErrDecrypt)
	}
	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, sealed[:NonceSize], sealed[NonceSize:], additional)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return plaintext, nil
}

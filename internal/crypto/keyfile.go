package crypto

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// keyFileVersion версия формата файла ключа
const keyFileVersion = 1

// ErrKeyFileExists возвращается, если файл ключа уже существует
var ErrKeyFileExists = errors.New("key file already exists")

// keyFile is the on-disk layout of a sealed server key.
type keyFile struct {
	PublicKey string    `json:"public_key"`
	Salt      []byte    `json:"salt"`
	Sealed    []byte    `json:"sealed_private_key"`
	KDF       KDFParams `json:"kdf"`
	Version   int       `json:"version"`
}

// SaveKeyFile запечатывает приватный ключ паролем и записывает его в path.
// Существующий файл не перезаписывается.
func SaveKeyFile(path string, signer *Signer, passphrase []byte) error {
	return saveKeyFile(path, signer, passphrase, DefaultKDF)
}

func saveKeyFile(path string, signer *Signer, passphrase []byte, params KDFParams) error {
	salt, err := NewSalt()
	if err != nil {
		return err
	}
	key, err := DeriveSealingKey(passphrase, salt, params)
	if err != nil {
		return err
	}

	pub := signer.PublicKeyString()
	// публичный ключ связан с шифротекстом как additional data
	sealed, err := Seal(signer.PrivateKey().Seed(), key, []byte(pub))
	if err != nil {
		return fmt.Errorf("failed to seal private key: %w", err)
	}

	data, err := json.MarshalIndent(keyFile{
		Version:   keyFileVersion,
		PublicKey: pub,
		Salt:      salt,
		Sealed:    sealed,
		KDF:       params,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal key file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrKeyFileExists, path)
		}
		return fmt.Errorf("failed to create key file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return f.Sync()
}

// LoadKeyFile читает и расшифровывает ключ сервера
func LoadKeyFile(path string, passphrase []byte) (*Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("failed to parse key file: %w", err)
	}
	if kf.Version != keyFileVersion {
		return nil, fmt.Errorf("unsupported key file version %d", kf.Version)
	}

	key, err := DeriveSealingKey(passphrase, kf.Salt, kf.KDF)
	if err != nil {
		return nil, err
	}
	seed, err := Open(kf.Sealed, key, []byte(kf.PublicKey))
	if err != nil {
		return nil, err
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("sealed seed has wrong length %d", len(seed))
	}

	signer, err := NewSigner(ed25519.NewKeyFromSeed(seed))
	if err != nil {
		return nil, err
	}
	if signer.PublicKeyString() != kf.PublicKey {
		return nil, fmt.Errorf("key file public key does not match private key")
	}
	return signer, nil
}

// ReadPublicKey возвращает публичный ключ из файла без пароля
func ReadPublicKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read key file: %w", err)
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return "", fmt.Errorf("failed to parse key file: %w", err)
	}
	return kf.PublicKey, nil
}

package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/iudanet/bulletinmirror/internal/models"
)

var (
	// ErrInvalidPublicKey возвращается для публичного ключа в неверном формате
	ErrInvalidPublicKey = errors.New("invalid public key")
	// ErrBadSignature возвращается, если подпись не проверяется
	ErrBadSignature = errors.New("signature verification failed")
)

// Signer хранит ed25519-ключ сервера. Публичный ключ сервера является его
// идентичностью для других серверов (peer id в allow-list).
type Signer struct {
	private ed25519.PrivateKey
	public  ed25519.PublicKey
}

// GenerateSigner создаёт новый случайный ключ сервера
func GenerateSigner() (*Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}
	return &Signer{private: priv, public: pub}, nil
}

// NewSigner wraps an existing private key.
func NewSigner(private ed25519.PrivateKey) (*Signer, error) {
	if len(private) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(private))
	}
	pub, ok := private.Public().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unexpected public key type")
	}
	return &Signer{private: private, public: pub}, nil
}

// Sign подписывает message приватным ключом сервера
func (s *Signer) Sign(message []byte) []byte {
	return ed25519.Sign(s.private, message)
}

// SignHeader подписывает заголовок документа для перечисления при зеркалировании
func (s *Signer) SignHeader(uid models.UniversalID, status models.RecordStatus, payloadDigest []byte) []byte {
	return s.Sign(models.HeaderDigest(uid, status, payloadDigest))
}

// PrivateKey returns the raw private key.
func (s *Signer) PrivateKey() ed25519.PrivateKey {
	return s.private
}

// PublicKey returns the raw public key.
func (s *Signer) PublicKey() ed25519.PublicKey {
	return s.public
}

// PublicKeyString возвращает публичный ключ в виде строки, пригодной для URL
func (s *Signer) PublicKeyString() string {
	return EncodePublicKey(s.public)
}

// PublicCode возвращает короткую форму публичного ключа для логов
func (s *Signer) PublicCode() string {
	return models.PublicCode(s.PublicKeyString())
}

// EncodePublicKey кодирует публичный ключ в base64 (URL-safe, без padding)
func EncodePublicKey(pub ed25519.PublicKey) string {
	return base64.RawURLEncoding.EncodeToString(pub)
}

// ParsePublicKey разбирает строку, полученную от EncodePublicKey
func ParsePublicKey(s string) (ed25519.PublicKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidPublicKey, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// Verify проверяет подпись message публичным ключом в строковой форме
func Verify(publicKey string, message, signature []byte) error {
	pub, err := ParsePublicKey(publicKey)
	if err != nil {
		return err
	}
	if !ed25519.Verify(pub, message, signature) {
		return ErrBadSignature
	}
	return nil
}

// VerifyHeader проверяет подпись заголовка, выданную SignHeader
func VerifyHeader(publicKey string, uid models.UniversalID, status models.RecordStatus, payloadDigest, signature []byte) error {
	return Verify(publicKey, models.HeaderDigest(uid, status, payloadDigest), signature)
}

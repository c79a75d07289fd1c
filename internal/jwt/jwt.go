// Package jwt выпускает и проверяет короткоживущие токены, которыми сервер
// подписывает свои запросы к пирам. Токен подписан ключом сервера (EdDSA),
// а заголовок kid содержит публичный ключ вызывающего.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iudanet/bulletinmirror/internal/crypto"
)

const (
	// Issuer значение iss во всех токенах
	Issuer = "bulletinmirror"
	// DefaultTTL время жизни токена запроса
	DefaultTTL = time.Minute
	// leeway допустимое расхождение часов между серверами
	leeway = 30 * time.Second
)

// ErrInvalidToken возвращается для любого токена, не прошедшего проверку
var ErrInvalidToken = errors.New("invalid peer token")

// Claims представляет JWT claims запроса пира. Subject - публичный ключ вызывающего.
type Claims struct {
	gojwt.RegisteredClaims
}

// TokenIssuer выпускает токены от имени этого сервера.
type TokenIssuer struct {
	signer *crypto.Signer
	now    func() time.Time
	ttl    time.Duration
}

// NewIssuer creates a TokenIssuer. ttl <= 0 means DefaultTTL.
func NewIssuer(signer *crypto.Signer, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenIssuer{
		signer: signer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue создает новый токен для одного запроса
func (i *TokenIssuer) Issue() (string, error) {
	now := i.now()
	publicKey := i.signer.PublicKeyString()

	claims := Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   publicKey,
			ID:        uuid.NewString(),
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodEdDSA, claims)
	token.Header["kid"] = publicKey

	tokenString, err := token.SignedString(i.signer.PrivateKey())
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify проверяет подпись и срок действия токена и возвращает публичный ключ
// вызывающего. Доверие к самому ключу проверяется отдельно (allow-list пиров).
func Verify(tokenString string) (string, error) {
	return verify(tokenString, time.Now)
}

func verify(tokenString string, now func() time.Time) (string, error) {
	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, func(token *gojwt.Token) (any, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*gojwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, errors.New("missing kid header")
		}
		return crypto.ParsePublicKey(kid)
	},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodEdDSA.Alg()}),
		gojwt.WithIssuer(Issuer),
		gojwt.WithExpirationRequired(),
		gojwt.WithIssuedAt(),
		gojwt.WithLeeway(leeway),
		gojwt.WithTimeFunc(now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	// Subject обязан совпадать с ключом, которым подписан токен
	if kid, _ := token.Header["kid"].(string); claims.Subject != kid {
		return "", fmt.Errorf("%w: subject does not match signing key", ErrInvalidToken)
	}
	return claims.Subject, nil
}

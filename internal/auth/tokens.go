package auth

import (
	"encoding/hex"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"

	"github.com/hkgcity/directory/internal/domain"
)

const (
	tokenIssuer   = "hkgcity-directory"
	tokenAudience = "hkgcity-admin"

	keyBytesSize = 32
	keyHexSize   = 64
)

// Claims - проверенные утверждения токена
type Claims struct {
	TokenID   string
	UserID    string
	Email     string
	Role      domain.AdminRole
	ExpiresAt time.Time
}

// TokenService выпускает и проверяет PASETO v4.local токены
type TokenService struct {
	key paseto.V4SymmetricKey
	ttl time.Duration
}

// NewTokenService создаёт сервис из hex-ключа. Пустой ключ даёт случайный ключ
// процесса: токены не переживут перезапуск.
func NewTokenService(keyHex string, ttl time.Duration) (*TokenService, error) {
	if keyHex == "" {
		return &TokenService{key: paseto.NewV4SymmetricKey(), ttl: ttl}, nil
	}

	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d hex characters (%d bytes), got %d", keyHexSize, keyBytesSize, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string for PASETO key: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{key: key, ttl: ttl}, nil
}

// Generate issues a token for user.
func (s *TokenService) Generate(user *domain.AdminUser) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		TokenID:   uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: now.Add(s.ttl),
	}

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(claims.UserID)
	token.SetJti(claims.TokenID)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(claims.ExpiresAt)

	if err := token.Set("email", claims.Email); err != nil {
		return "", nil, fmt.Errorf("set email claim: %w", err)
	}
	if err := token.Set("role", string(claims.Role)); err != nil {
		return "", nil, fmt.Errorf("set role claim: %w", err)
	}

	return token.V4Encrypt(s.key, nil), claims, nil
}

// Verify decrypts the token and checks issuer, audience and validity window.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims := &Claims{}
	if claims.TokenID, err = token.GetJti(); err != nil {
		return nil, fmt.Errorf("missing jti: %w", err)
	}
	if claims.UserID, err = token.GetSubject(); err != nil {
		return nil, fmt.Errorf("missing subject: %w", err)
	}
	if claims.Email, err = token.GetString("email"); err != nil {
		return nil, fmt.Errorf("missing email: %w", err)
	}
	role, err := token.GetString("role")
	if err != nil {
		return nil, fmt.Errorf("missing role: %w", err)
	}
	claims.Role = domain.AdminRole(role)
	if claims.ExpiresAt, err = token.GetExpiration(); err != nil {
		return nil, fmt.Errorf("missing expiration: %w", err)
	}

	return claims, nil
}

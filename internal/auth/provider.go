// Package auth authenticates admin users. Credentials never leave this package:
// callers only see LoginResult, tokens and the resolved AdminUser.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/config"
	"github.com/hkgcity/directory/internal/domain"
	"github.com/hkgcity/directory/internal/domain/repository"
)

const revokedKeyPrefix = "auth:revoked:"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or revoked token")
)

// LoginResult - результат попытки входа
type LoginResult struct {
	Success   bool              `json:"success"`
	User      *domain.AdminUser `json:"user,omitempty"`
	Token     string            `json:"token,omitempty"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// AuthChangeFunc получает пользователя после входа или nil после выхода
type AuthChangeFunc func(user *domain.AdminUser)

// Provider проверяет учётные данные администратора из конфигурации и выдаёт токены.
// Отозванные токены хранятся в кеше до истечения их срока.
type Provider struct {
	tokens       *TokenService
	cache        repository.CacheRepository
	logger       *zap.Logger
	passwordHash string

	mu        sync.RWMutex
	admin     domain.AdminUser
	listeners map[int]AuthChangeFunc
	nextID    int
}

func NewProvider(
	cfg *config.AuthConfig,
	tokens *TokenService,
	cache repository.CacheRepository,
	logger *zap.Logger,
) *Provider {
	if cfg.AdminPasswordHash == "" {
		logger.Warn("ADMIN_PASSWORD_HASH is empty, admin login is disabled")
	}

	return &Provider{
		tokens:       tokens,
		cache:        cache,
		logger:       logger,
		passwordHash: cfg.AdminPasswordHash,
		admin: domain.AdminUser{
			ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte("admin:"+cfg.AdminEmail)).String(),
			Username: cfg.AdminUsername,
			Email:    cfg.AdminEmail,
			Role:     domain.AdminRoleAdmin,
			IsActive: cfg.AdminEmail != "" && cfg.AdminPasswordHash != "",
		},
		listeners: make(map[int]AuthChangeFunc),
	}
}

// Login accepts the admin email or username as identity.
func (p *Provider) Login(ctx context.Context, identity, secret string) LoginResult {
	identity = strings.ToLower(strings.TrimSpace(identity))

	p.mu.RLock()
	admin := p.admin
	p.mu.RUnlock()

	matches := identity != "" && (identity == admin.Email || identity == strings.ToLower(admin.Username))
	if !admin.IsActive || !matches || !VerifyPassword(p.passwordHash, secret) {
		p.logger.Info("Admin login rejected", zap.String("identity", identity))
		return LoginResult{Error: ErrInvalidCredentials.Error()}
	}

	now := time.Now()
	p.mu.Lock()
	p.admin.LastLogin = &now
	admin = p.admin
	p.mu.Unlock()

	token, claims, err := p.tokens.Generate(&admin)
	if err != nil {
		p.logger.Error("Failed to issue token", zap.Error(err))
		return LoginResult{Error: "failed to issue token"}
	}

	p.logger.Info("Admin logged in", zap.String("user_id", admin.ID))
	p.notify(&admin)

	return LoginResult{
		Success:   true,
		User:      &admin,
		Token:     token,
		ExpiresAt: &claims.ExpiresAt,
	}
}

// Logout revokes the token until its expiry. An already invalid token is a no-op.
func (p *Provider) Logout(ctx context.Context, token string) error {
	claims, err := p.tokens.Verify(token)
	if err != nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl > 0 {
		if err := p.cache.Set(ctx, revokedKeyPrefix+claims.TokenID, []byte("1"), ttl); err != nil {
			return err
		}
	}

	p.logger.Info("Admin logged out", zap.String("user_id", claims.UserID))
	p.notify(nil)
	return nil
}

// CurrentUser resolves the user behind a valid, unrevoked token.
func (p *Provider) CurrentUser(ctx context.Context, token string) (*domain.AdminUser, error) {
	claims, err := p.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	revoked, err := p.cache.Exists(ctx, revokedKeyPrefix+claims.TokenID)
	if err != nil {
		p.logger.Warn("Failed to check token revocation", zap.Error(err))
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	p.mu.RLock()
	admin := p.admin
	p.mu.RUnlock()

	if !admin.IsActive || admin.ID != claims.UserID {
		return nil, ErrInvalidToken
	}

	return &admin, nil
}

// OnAuthChange registers callback and returns a function that unregisters it.
func (p *Provider) OnAuthChange(callback AuthChangeFunc) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = callback
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

func (p *Provider) notify(user *domain.AdminUser) {
	p.mu.RLock()
	callbacks := make([]AuthChangeFunc, 0, len(p.listeners))
	for _, cb := range p.listeners {
		callbacks = append(callbacks, cb)
	}
	p.mu.RUnlock()

	for _, cb := range callbacks {
		cb(user)
	}
}

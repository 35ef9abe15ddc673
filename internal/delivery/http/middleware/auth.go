package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hkgcity/directory/internal/domain"
	"github.com/hkgcity/directory/internal/pkg/errors"
	"github.com/hkgcity/directory/internal/pkg/utils"
)

const userLocalsKey = "admin_user"

// UserResolver возвращает пользователя по токену
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*domain.AdminUser, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAdmin пропускает только запросы с действующим токеном пользователя админки
func RequireAdmin(resolver UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return utils.SendError(c, errors.ErrUnauthorized)
		}

		user, err := resolver.CurrentUser(c.UserContext(), token)
		if err != nil || user == nil {
			return utils.SendError(c, errors.ErrUnauthorized)
		}
		if user.Role != domain.AdminRoleAdmin && user.Role != domain.AdminRoleEditor {
			return utils.SendError(c, errors.ErrForbidden)
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by RequireAdmin, or nil.
func CurrentUser(c *fiber.Ctx) *domain.AdminUser {
	user, _ := c.Locals(userLocalsKey).(*domain.AdminUser)
	return user
}

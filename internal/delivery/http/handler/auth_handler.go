package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/auth"
	"github.com/hkgcity/directory/internal/delivery/http/middleware"
	"github.com/hkgcity/directory/internal/pkg/errors"
	"github.com/hkgcity/directory/internal/pkg/utils"
	"github.com/hkgcity/directory/internal/pkg/validator"
	"github.com/hkgcity/directory/internal/usecase/dto"
)

// AuthHandler - вход и выход администратора
type AuthHandler struct {
	provider *auth.Provider
	logger   *zap.Logger
}

func NewAuthHandler(provider *auth.Provider, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		logger:   logger,
	}
}

// Login godoc
// @Summary Вход администратора
// @Description identity - email или имя пользователя
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Учётные данные"
// @Success 200 {object} utils.SuccessResponse{data=auth.LoginResult}
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendValidationError(c, err)
	}

	result := h.provider.Login(c.Context(), req.Identity, req.Password)
	if !result.Success {
		return utils.SendError(c, errors.ErrInvalidCredentials)
	}

	return utils.SendSuccess(c, result, nil)
}

// Logout godoc
// @Summary Выход: токен отзывается до истечения срока
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.SuccessResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := middleware.BearerToken(c)
	if token == "" {
		return utils.SendError(c, errors.ErrUnauthorized)
	}

	if err := h.provider.Logout(c.Context(), token); err != nil {
		h.logger.Error("Failed to revoke token", zap.Error(err))
		return utils.SendError(c, errors.ErrCacheError)
	}

	return utils.SendSuccess(c, fiber.Map{"logged_out": true}, nil)
}

// Me godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.SuccessResponse{data=domain.AdminUser}
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return utils.SendError(c, errors.ErrUnauthorized)
	}
	return utils.SendSuccess(c, user, nil)
}

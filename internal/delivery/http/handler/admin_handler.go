package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/delivery/http/middleware"
	"github.com/hkgcity/directory/internal/pkg/errors"
	"github.com/hkgcity/directory/internal/pkg/utils"
	"github.com/hkgcity/directory/internal/pkg/validator"
	"github.com/hkgcity/directory/internal/usecase"
	"github.com/hkgcity/directory/internal/usecase/dto"
)

// AdminHandler - управление контентом и статистика для админки
type AdminHandler struct {
	adminUC *usecase.AdminUseCase
	statsUC *usecase.StatsUseCase
	logger  *zap.Logger
}

func NewAdminHandler(adminUC *usecase.AdminUseCase, statsUC *usecase.StatsUseCase, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminUC: adminUC,
		statsUC: statsUC,
		logger:  logger,
	}
}

// List godoc
// @Summary Все записи коллекции, включая неактивные
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param collection path string true "categories, listings, announcements, banners"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/admin/{collection} [get]
func (h *AdminHandler) List(c *fiber.Ctx) error {
	records, err := h.adminUC.List(c.Context(), c.Params("collection"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, records, &utils.Meta{
		Total: len(records),
	})
}

// Create godoc
// @Summary Создание записи
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param collection path string true "Коллекция"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/admin/{collection} [post]
func (h *AdminHandler) Create(c *fiber.Ctx) error {
	body := make(map[string]any)
	if err := c.BodyParser(&body); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	record, err := h.adminUC.Create(c.Context(), c.Params("collection"), body)
	if err != nil {
		return utils.SendError(c, err)
	}

	h.logAction(c, "create", record["id"])
	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, record, nil)
}

// Update godoc
// @Summary Частичное обновление записи (last write wins)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param collection path string true "Коллекция"
// @Param id path string true "ID записи"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/admin/{collection}/{id} [patch]
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	patch := make(map[string]any)
	if err := c.BodyParser(&patch); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	record, err := h.adminUC.Update(c.Context(), c.Params("collection"), c.Params("id"), patch)
	if err != nil {
		return utils.SendError(c, err)
	}

	h.logAction(c, "update", c.Params("id"))
	return utils.SendSuccess(c, record, nil)
}

// Delete godoc
// @Summary Удаление записи
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param collection path string true "Коллекция"
// @Param id path string true "ID записи"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/admin/{collection}/{id} [delete]
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	if err := h.adminUC.Delete(c.Context(), c.Params("collection"), c.Params("id")); err != nil {
		return utils.SendError(c, err)
	}

	h.logAction(c, "delete", c.Params("id"))
	return utils.SendSuccess(c, fiber.Map{"deleted": true}, nil)
}

// GetStats godoc
// @Summary Статистика трафика и кликов
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param days query int false "Период в днях" default(7)
// @Success 200 {object} utils.SuccessResponse{data=dto.StatsResponse}
// @Router /api/v1/admin/stats [get]
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	req := dto.StatsRequest{Days: c.QueryInt("days", 7)}
	if err := validator.Validate(&req); err != nil {
		return utils.SendValidationError(c, err)
	}

	return utils.SendSuccess(c, h.statsUC.GetStats(c.Context(), req.Days), nil)
}

func (h *AdminHandler) logAction(c *fiber.Ctx, action string, id any) {
	fields := []zap.Field{
		zap.String("action", action),
		zap.String("collection", c.Params("collection")),
		zap.Any("id", id),
	}
	if user := middleware.CurrentUser(c); user != nil {
		fields = append(fields, zap.String("user_id", user.ID))
	}
	h.logger.Info("Admin action", fields...)
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/pkg/errors"
	"github.com/hkgcity/directory/internal/pkg/utils"
	"github.com/hkgcity/directory/internal/pkg/validator"
	"github.com/hkgcity/directory/internal/usecase"
	"github.com/hkgcity/directory/internal/usecase/dto"
)

// StatsHandler обрабатывает запросы для статистики посещений
type StatsHandler struct {
	statsUC *usecase.StatsUseCase
	logger  *zap.Logger
}

// NewStatsHandler создает новый экземпляр StatsHandler
func NewStatsHandler(statsUC *usecase.StatsUseCase, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		statsUC: statsUC,
		logger:  logger,
	}
}

// RecordPageView godoc
// @Summary Регистрация просмотра страницы
// @Description Увеличивает суточные счётчики просмотров, страниц и источников
// @Tags Statistics
// @Accept json
// @Produce json
// @Param request body dto.PageViewRequest true "Просмотр"
// @Success 202 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/stats/pageview [post]
func (h *StatsHandler) RecordPageView(c *fiber.Ctx) error {
	var req dto.PageViewRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if req.Referrer == "" {
		req.Referrer = c.Get(fiber.HeaderReferer)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendValidationError(c, err)
	}

	if err := h.statsUC.RecordPageView(c.Context(), req); err != nil {
		h.logger.Error("Failed to record page view", zap.String("page", req.Page), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendAccepted(c, fiber.Map{"recorded": true})
}

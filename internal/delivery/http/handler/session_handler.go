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

// SessionHandler - сохраняемое состояние фильтров и поиска сессии просмотра
type SessionHandler struct {
	sessionUC *usecase.SessionUseCase
	logger    *zap.Logger
}

func NewSessionHandler(sessionUC *usecase.SessionUseCase, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUC: sessionUC,
		logger:    logger,
	}
}

// Create godoc
// @Summary Новая сессия
// @Tags Sessions
// @Produce json
// @Success 201 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Router /api/v1/sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	session, err := h.sessionUC.Create(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, session, nil)
}

// GetFilters godoc
// @Summary Текущие фильтры сессии
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=state.FilterState}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/filters [get]
func (h *SessionHandler) GetFilters(c *fiber.Ctx) error {
	filters, err := h.sessionUC.Filters(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, filters, nil)
}

// SetRegion godoc
// @Summary Выбор района (сбрасывает подрайон)
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SetRegionRequest true "Район, пустая строка снимает фильтр"
// @Success 200 {object} utils.SuccessResponse{data=state.FilterState}
// @Router /api/v1/sessions/{id}/filters/region [put]
func (h *SessionHandler) SetRegion(c *fiber.Ctx) error {
	var req dto.SetRegionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	filters, err := h.sessionUC.SetRegion(c.Context(), c.Params("id"), req.Region)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, filters, nil)
}

// SetSubRegion godoc
// @Summary Выбор подрайона текущего района
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SetSubRegionRequest true "Подрайон"
// @Success 200 {object} utils.SuccessResponse{data=state.FilterState}
// @Router /api/v1/sessions/{id}/filters/subregion [put]
func (h *SessionHandler) SetSubRegion(c *fiber.Ctx) error {
	var req dto.SetSubRegionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	filters, err := h.sessionUC.SetSubRegion(c.Context(), c.Params("id"), req.SubRegion)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, filters, nil)
}

// SetFacet godoc
// @Summary Установка фасета; пустое значение удаляет фасет
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SetFacetRequest true "Фасет"
// @Success 200 {object} utils.SuccessResponse{data=state.FilterState}
// @Router /api/v1/sessions/{id}/filters/facets [put]
func (h *SessionHandler) SetFacet(c *fiber.Ctx) error {
	var req dto.SetFacetRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendValidationError(c, err)
	}

	filters, err := h.sessionUC.SetFacet(c.Context(), c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, filters, nil)
}

// SetSort godoc
// @Summary Выбор сортировки
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SetSortRequest true "Ключ сортировки"
// @Success 200 {object} utils.SuccessResponse{data=state.FilterState}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/filters/sort [put]
func (h *SessionHandler) SetSort(c *fiber.Ctx) error {
	var req dto.SetSortRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendValidationError(c, err)
	}

	filters, err := h.sessionUC.SetSort(c.Context(), c.Params("id"), req.SortKey)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, filters, nil)
}

// ClearFilters godoc
// @Summary Сброс фильтров
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=state.FilterState}
// @Router /api/v1/sessions/{id}/filters [delete]
func (h *SessionHandler) ClearFilters(c *fiber.Ctx) error {
	filters, err := h.sessionUC.ClearFilters(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, filters, nil)
}

// GetListings godoc
// @Summary Листинги категории с фильтрами сессии
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Param category query string true "Slug категории"
// @Param language query string false "Язык" default(en)
// @Success 200 {object} utils.SuccessResponse{data=dto.BrowseResponse}
// @Router /api/v1/sessions/{id}/listings [get]
func (h *SessionHandler) GetListings(c *fiber.Ctx) error {
	slug := c.Query("category")
	if slug == "" {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"category": "required",
		}))
	}

	result, err := h.sessionUC.Listings(c.Context(), c.Params("id"), slug, language(c))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// Search godoc
// @Summary Поиск с сохранением запроса и результатов в сессии
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SessionSearchRequest true "Запрос"
// @Success 200 {object} utils.SuccessResponse{data=dto.SearchResponse}
// @Router /api/v1/sessions/{id}/search [put]
func (h *SessionHandler) Search(c *fiber.Ctx) error {
	var req dto.SessionSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if req.Language == "" {
		req.Language = language(c)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendValidationError(c, err)
	}

	result, err := h.sessionUC.Search(c.Context(), c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// GetSearch godoc
// @Summary Сохранённое состояние поиска
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=state.SearchState}
// @Router /api/v1/sessions/{id}/search [get]
func (h *SessionHandler) GetSearch(c *fiber.Ctx) error {
	search, err := h.sessionUC.SearchState(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, search, nil)
}

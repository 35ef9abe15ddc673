package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/pkg/utils"
	"github.com/hkgcity/directory/internal/pkg/validator"
	"github.com/hkgcity/directory/internal/usecase"
	"github.com/hkgcity/directory/internal/usecase/dto"
)

// CatalogHandler - публичный каталог: категории, листинги, поиск
type CatalogHandler struct {
	catalogUC *usecase.CatalogUseCase
	logger    *zap.Logger
}

// NewCatalogHandler - создание нового CatalogHandler
func NewCatalogHandler(catalogUC *usecase.CatalogUseCase, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogUC: catalogUC,
		logger:    logger,
	}
}

// ListCategories godoc
// @Summary Активные категории
// @Description Возвращает активные категории, упорядоченные по sort_order, с числом листингов
// @Tags Catalog
// @Produce json
// @Param language query string false "Язык (en, zh-HK, zh-CN, ja, ko, fr, de, es, pt, th)" default(en)
// @Success 200 {object} utils.SuccessResponse{data=[]dto.CategoryResponse}
// @Router /api/v1/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories := h.catalogUC.ListCategories(c.Context(), language(c))

	return utils.SendSuccess(c, categories, &utils.Meta{
		Total: len(categories),
	})
}

// BrowseListings godoc
// @Summary Листинги категории
// @Description Фильтр по району и фасетам (f.<key>=<value>) и сортировка
// @Tags Catalog
// @Produce json
// @Param slug path string true "Slug категории"
// @Param language query string false "Язык" default(en)
// @Param region query string false "ID района"
// @Param subRegion query string false "ID подрайона"
// @Param sort query string false "default, nameAsc, nameDesc, popular, newest" default(default)
// @Success 200 {object} utils.SuccessResponse{data=dto.BrowseResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/categories/{slug}/listings [get]
func (h *CatalogHandler) BrowseListings(c *fiber.Ctx) error {
	req := dto.BrowseRequest{
		Slug:      c.Params("slug"),
		Language:  language(c),
		Region:    c.Query("region"),
		SubRegion: c.Query("subRegion"),
		Sort:      c.Query("sort"),
		Facets:    facetParams(c),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendValidationError(c, err)
	}

	result, err := h.catalogUC.Browse(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// GetRegions godoc
// @Summary Районы
// @Tags Catalog
// @Produce json
// @Param language query string false "Язык" default(en)
// @Success 200 {object} utils.SuccessResponse{data=[]dto.RegionResponse}
// @Router /api/v1/regions [get]
func (h *CatalogHandler) GetRegions(c *fiber.Ctx) error {
	return utils.SendSuccess(c, h.catalogUC.Regions(language(c)), nil)
}

// Search godoc
// @Summary Поиск по листингам и категориям
// @Description Подстрочный поиск без учёта регистра по названию, описанию и тегам
// @Tags Catalog
// @Produce json
// @Param q query string true "Поисковый запрос"
// @Param language query string false "Язык" default(en)
// @Success 200 {object} utils.SuccessResponse{data=dto.SearchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/search [get]
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	req := dto.SearchRequest{
		Query:    c.Query("q"),
		Language: language(c),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendValidationError(c, err)
	}

	result := h.catalogUC.Search(c.Context(), req)

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// TrackClick godoc
// @Summary Клик по листингу
// @Description Ставит событие клика в очередь и сразу отвечает 202
// @Tags Catalog
// @Produce json
// @Param id path string true "ID листинга"
// @Success 202 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/listings/{id}/click [post]
func (h *CatalogHandler) TrackClick(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.catalogUC.TrackClick(c.Context(), id); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendAccepted(c, fiber.Map{"listing_id": id})
}

// GetAnnouncements godoc
// @Summary Активные объявления
// @Tags Catalog
// @Produce json
// @Param categoryId query string false "Только для категории"
// @Param language query string false "Язык" default(en)
// @Success 200 {object} utils.SuccessResponse{data=[]dto.AnnouncementResponse}
// @Router /api/v1/announcements [get]
func (h *CatalogHandler) GetAnnouncements(c *fiber.Ctx) error {
	announcements := h.catalogUC.Announcements(c.Context(), c.Query("categoryId"), language(c))

	return utils.SendSuccess(c, announcements, &utils.Meta{
		Total: len(announcements),
	})
}

// GetBanners godoc
// @Summary Активные баннеры
// @Tags Catalog
// @Produce json
// @Param position query string false "top, middle, bottom, sidebar"
// @Success 200 {object} utils.SuccessResponse{data=[]dto.BannerResponse}
// @Router /api/v1/banners [get]
func (h *CatalogHandler) GetBanners(c *fiber.Ctx) error {
	banners := h.catalogUC.Banners(c.Context(), c.Query("position"))

	return utils.SendSuccess(c, banners, &utils.Meta{
		Total: len(banners),
	})
}

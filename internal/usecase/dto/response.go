package dto

import (
	"time"

	"github.com/hkgcity/directory/internal/domain"
)

// CategoryResponse - категория с переводом под выбранный язык
type CategoryResponse struct {
	ID           string           `json:"id"`
	Slug         string           `json:"slug"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Image        string           `json:"image"`
	Icon         string           `json:"icon,omitempty"`
	SortOrder    int              `json:"sort_order"`
	Filters      []FilterResponse `json:"filters"`
	ListingCount int              `json:"listing_count"`
}

// FilterResponse - фасетный фильтр категории
type FilterResponse struct {
	Key     string           `json:"key"`
	Type    string           `json:"type"`
	Label   string           `json:"label"`
	Options []OptionResponse `json:"options,omitempty"`
}

// OptionResponse - значение фасета
type OptionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ListingResponse - листинг с переводом и читаемым названием района
type ListingResponse struct {
	ID          string                 `json:"id"`
	CategoryID  string                 `json:"category_id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	URL         string                 `json:"url"`
	Image       string                 `json:"image,omitempty"`
	Region      string                 `json:"region"`
	SubRegion   string                 `json:"sub_region,omitempty"`
	Location    string                 `json:"location,omitempty"`
	Metadata    domain.ListingMetadata `json:"metadata"`
	SortOrder   int                    `json:"sort_order"`
	ClickCount  int64                  `json:"click_count"`
	CreatedAt   time.Time              `json:"created_at"`
}

// BrowseResponse - листинги категории после фильтрации и сортировки
type BrowseResponse struct {
	Category CategoryResponse  `json:"category"`
	Listings []ListingResponse `json:"listings"`
	Total    int               `json:"total"`
	Applied  AppliedFilters    `json:"applied"`
}

// AppliedFilters - фактически применённые фильтры
type AppliedFilters struct {
	Region    string            `json:"region,omitempty"`
	SubRegion string            `json:"sub_region,omitempty"`
	Facets    map[string]string `json:"facets"`
	SortKey   string            `json:"sort_key"`
}

// SearchResponse - результаты поиска
type SearchResponse struct {
	Query      string             `json:"query"`
	Listings   []ListingResponse  `json:"listings"`
	Categories []CategoryResponse `json:"categories"`
	Total      int                `json:"total"`
}

// RegionResponse - регион с районами
type RegionResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	SubRegions []SubRegionResponse `json:"sub_regions"`
}

// SubRegionResponse - район
type SubRegionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AnnouncementResponse - активное объявление
type AnnouncementResponse struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id,omitempty"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Image      string    `json:"image,omitempty"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

// BannerResponse - активный баннер
type BannerResponse struct {
	ID       string `json:"id"`
	Position string `json:"position"`
	Name     string `json:"name"`
	Code     string `json:"code"`
}

// SessionResponse - созданная сессия просмотра
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// StatsResponse - статистика трафика и кликов
type StatsResponse struct {
	Days           int                     `json:"days"`
	TotalViews     int64                   `json:"total_views"`
	UniqueVisitors int64                   `json:"unique_visitors"`
	Daily          []domain.TrafficStats   `json:"daily"`
	TopPages       []Counter               `json:"top_pages"`
	TopReferrers   []Counter               `json:"top_referrers"`
	TopCategories  []domain.CategoryClicks `json:"top_categories"`
	TotalListings  int                     `json:"total_listings"`
	TotalClicks    int64                   `json:"total_clicks"`
}

// Counter - ключ и количество
type Counter struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

package domain

import (
	"slices"
	"time"
)

// PriceRange - ценовой сегмент
type PriceRange string

const (
	PriceRangeLuxury PriceRange = "luxury"
	PriceRangeMid    PriceRange = "mid"
	PriceRangeBudget PriceRange = "budget"
)

// Listing - запись справочника (организация или сервис), принадлежит одной категории
type Listing struct {
	ID          string          `json:"id" yaml:"id" validate:"required"`
	CategoryID  string          `json:"category_id" yaml:"category_id" validate:"required"`
	Name        LocalizedText   `json:"name" yaml:"name" validate:"localized"`
	Description LocalizedText   `json:"description,omitempty" yaml:"description" validate:"omitempty,localized"`
	URL         string          `json:"url" yaml:"url" validate:"required,url"`
	Image       string          `json:"image,omitempty" yaml:"image"`
	Region      string          `json:"region" yaml:"region" validate:"required"`
	SubRegion   string          `json:"sub_region,omitempty" yaml:"sub_region"`
	Metadata    ListingMetadata `json:"metadata" yaml:"metadata"`
	SortOrder   int             `json:"sort_order" yaml:"sort_order"`
	IsActive    bool            `json:"is_active" yaml:"is_active"`
	ClickCount  int64           `json:"click_count" yaml:"click_count" validate:"gte=0"`
	CreatedAt   time.Time       `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" yaml:"updated_at"`
}

// ListingMetadata - закрытый набор необязательных атрибутов листинга.
// Каждая категория использует своё подмножество полей.
type ListingMetadata struct {
	Stars        *int        `json:"stars,omitempty" yaml:"stars" validate:"omitempty,min=1,max=5"`
	PriceRange   *PriceRange `json:"price_range,omitempty" yaml:"price_range" validate:"omitempty,oneof=luxury mid budget"`
	IsPublic     *bool       `json:"is_public,omitempty" yaml:"is_public"`
	OpeningHours string      `json:"opening_hours,omitempty" yaml:"opening_hours"`
	Phone        string      `json:"phone,omitempty" yaml:"phone"`
	Address      string      `json:"address,omitempty" yaml:"address"`
	Tags         []string    `json:"tags,omitempty" yaml:"tags"`
}

// HasTag проверяет точное совпадение тега
func (m ListingMetadata) HasTag(tag string) bool {
	return slices.Contains(m.Tags, tag)
}

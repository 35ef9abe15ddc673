package domain

import "time"

// FilterType - тип фасетного фильтра категории
type FilterType string

const (
	FilterTypeSelect  FilterType = "select"
	FilterTypeRange   FilterType = "range"
	FilterTypeBoolean FilterType = "boolean"
)

// Category - верхнеуровневая группа листингов со своей схемой фильтров
type Category struct {
	ID          string         `json:"id" yaml:"id" validate:"required"`
	Slug        string         `json:"slug" yaml:"slug" validate:"required,slug"`
	Name        LocalizedText  `json:"name" yaml:"name" validate:"localized"`
	Description LocalizedText  `json:"description" yaml:"description" validate:"localized"`
	Image       string         `json:"image" yaml:"image"`
	Icon        string         `json:"icon,omitempty" yaml:"icon"`
	SortOrder   int            `json:"sort_order" yaml:"sort_order"`
	IsActive    bool           `json:"is_active" yaml:"is_active"`
	Filters     []FilterConfig `json:"filters" yaml:"filters" validate:"dive"`
	CreatedAt   time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" yaml:"updated_at"`
}

// FilterConfig описывает фасет, по которому можно фильтровать листинги категории
type FilterConfig struct {
	Key     string         `json:"key" yaml:"key" validate:"required"`
	Type    FilterType     `json:"type" yaml:"type" validate:"oneof=select range boolean"`
	Label   LocalizedText  `json:"label" yaml:"label" validate:"localized"`
	Options []FilterOption `json:"options,omitempty" yaml:"options" validate:"dive"`
}

// FilterOption - значение select-фильтра
type FilterOption struct {
	Value string        `json:"value" yaml:"value" validate:"required"`
	Label LocalizedText `json:"label" yaml:"label" validate:"localized"`
}

// FindFilter ищет конфигурацию фильтра по ключу
func (c *Category) FindFilter(key string) (*FilterConfig, bool) {
	for i := range c.Filters {
		if c.Filters[i].Key == key {
			return &c.Filters[i], true
		}
	}
	return nil, false
}

// FindOption ищет опцию фильтра по значению
func (f *FilterConfig) FindOption(value string) (*FilterOption, bool) {
	for i := range f.Options {
		if f.Options[i].Value == value {
			return &f.Options[i], true
		}
	}
	return nil, false
}

package domain

import "time"

// BannerPosition - место размещения баннера на странице
type BannerPosition string

const (
	BannerPositionTop     BannerPosition = "top"
	BannerPositionMiddle  BannerPosition = "middle"
	BannerPositionBottom  BannerPosition = "bottom"
	BannerPositionSidebar BannerPosition = "sidebar"
)

// Banner - рекламный блок
type Banner struct {
	ID        string         `json:"id" validate:"required"`
	Position  BannerPosition `json:"position" validate:"oneof=top middle bottom sidebar"`
	Name      string         `json:"name" validate:"required"`
	Code      string         `json:"code"`
	IsActive  bool           `json:"is_active"`
	StartDate *time.Time     `json:"start_date,omitempty"`
	EndDate   *time.Time     `json:"end_date,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// IsLive - активен и now попадает в необязательное окно показа
func (b *Banner) IsLive(now time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.StartDate != nil && now.Before(*b.StartDate) {
		return false
	}
	if b.EndDate != nil && now.After(*b.EndDate) {
		return false
	}
	return true
}

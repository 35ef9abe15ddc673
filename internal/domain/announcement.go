package domain

import "time"

// Announcement - объявление администрации, опционально привязанное к категории
type Announcement struct {
	ID         string        `json:"id" validate:"required"`
	CategoryID string        `json:"category_id,omitempty"`
	Title      LocalizedText `json:"title" validate:"localized"`
	Content    LocalizedText `json:"content" validate:"localized"`
	Image      string        `json:"image,omitempty"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    time.Time     `json:"end_date"`
	IsActive   bool          `json:"is_active"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// IsLive - активно и now попадает в окно [StartDate, EndDate]
func (a *Announcement) IsLive(now time.Time) bool {
	return a.IsActive && !now.Before(a.StartDate) && !now.After(a.EndDate)
}

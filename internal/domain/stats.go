package domain

import "time"

// StatsDateLayout - формат ID суточного документа статистики
const StatsDateLayout = "2006-01-02"

// TrafficStats - суточная статистика посещений
type TrafficStats struct {
	Date           string           `json:"date"`
	PageViews      int64            `json:"page_views"`
	UniqueVisitors int64            `json:"unique_visitors"`
	PageStats      map[string]int64 `json:"page_stats"`
	ReferrerStats  map[string]int64 `json:"referrer_stats"`
	CreatedAt      time.Time        `json:"created_at"`
}

// CategoryClicks - суммарные клики по листингам категории
type CategoryClicks struct {
	CategoryID   string `json:"category_id"`
	Name         string `json:"name"`
	ListingCount int    `json:"listing_count"`
	TotalClicks  int64  `json:"total_clicks"`
}

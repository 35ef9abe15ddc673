package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamListingClicks = "stream:listing:clicks"
)

// ListingClickEvent - событие клика по листингу
type ListingClickEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	ListingID  string    `json:"listing_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}

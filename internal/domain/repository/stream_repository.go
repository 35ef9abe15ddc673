package repository

import (
	"context"
	"time"

	"github.com/hkgcity/directory/internal/domain"
)

// StreamRepository - Redis Streams для событий кликов по листингам.
// Сообщение несёт JSON события в поле "data".
type StreamRepository interface {
	// CreateConsumerGroup создаёт группу и сам стрим; существующая группа не ошибка
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// ClaimStale передаёт consumer все сообщения группы, которые висят в pending
	// дольше minIdle у других consumer. Возвращает число переданных сообщений.
	ClaimStale(ctx context.Context, stream, group, consumer string, minIdle time.Duration) (int, error)

	// ConsumeStream сначала отдаёт pending сообщения этого consumer, затем новые.
	// Канал закрывается при отмене ctx.
	ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error)

	AckMessage(ctx context.Context, stream, group, messageID string) error

	// PublishListingClick публикует клик в domain.StreamListingClicks
	PublishListingClick(ctx context.Context, event domain.ListingClickEvent) error
}

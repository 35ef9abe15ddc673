package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/domain"
	"github.com/hkgcity/directory/internal/domain/repository"
)

const (
	readBatchSize  = 10
	claimBatchSize = 100
	readBlock      = time.Second
	// streamMaxLen - приблизительный предел длины стрима (XADD MAXLEN ~)
	streamMaxLen = 100000
)

type streamRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewStreamRepository создает новый экземпляр StreamRepository
func NewStreamRepository(client *redis.Client, logger *zap.Logger) repository.StreamRepository {
	return &streamRepository{
		client: client,
		logger: logger,
	}
}

// CreateConsumerGroup создаёт consumer group; MKSTREAM создаёт стрим при необходимости
func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	err := r.client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			r.logger.Debug("Consumer group already exists",
				zap.String("stream", stream),
				zap.String("group", group))
			return nil
		}
		r.logger.Error("Failed to create consumer group",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	r.logger.Info("Consumer group created",
		zap.String("stream", stream),
		zap.String("group", group))
	return nil
}

// ConsumeStream сначала дочитывает неподтверждённые сообщения этого consumer
// (начиная с "0" и далее после последнего выданного ID), затем переходит на новые (">").
func (r *streamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	msgChan := make(chan domain.StreamMessage, readBatchSize)

	go func() {
		defer close(msgChan)

		lastID := "0"

		for {
			if ctx.Err() != nil {
				r.logger.Info("Stream consumer stopped",
					zap.String("stream", stream),
					zap.String("consumer", consumer))
				return
			}

			result, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    group,
				Consumer: consumer,
				Streams:  []string{stream, lastID},
				Count:    readBatchSize,
				Block:    readBlock,
			}).Result()

			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				r.logger.Error("Failed to read from stream",
					zap.String("stream", stream),
					zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			delivered := 0
			for _, s := range result {
				for _, msg := range s.Messages {
					delivered++
					if lastID != ">" {
						lastID = msg.ID
					}

					data, ok := msg.Values["data"].(string)
					if !ok {
						// Без поля data сообщение никогда не обработается: подтверждаем и пропускаем
						r.logger.Warn("Message does not contain 'data' field, acking",
							zap.String("message_id", msg.ID))
						_ = r.AckMessage(ctx, stream, group, msg.ID)
						continue
					}

					select {
					case msgChan <- domain.StreamMessage{ID: msg.ID, Data: data}:
					case <-ctx.Done():
						return
					}
				}
			}

			// Pending backlog drained
			if lastID != ">" && delivered == 0 {
				lastID = ">"
			}
		}
	}()

	return msgChan, nil
}

// AckMessage подтверждает обработку сообщения
func (r *streamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	if err := r.client.XAck(ctx, stream, group, messageID).Err(); err != nil {
		r.logger.Error("Failed to acknowledge message",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.String("message_id", messageID),
			zap.Error(err))
		return fmt.Errorf("failed to acknowledge message: %w", err)
	}

	return nil
}

// ClaimStale забирает зависшие сообщения других consumer (XAUTOCLAIM JUSTID).
// Счётчик доставок не растёт; сами сообщения затем отдаёт ConsumeStream из pending.
func (r *streamRepository) ClaimStale(ctx context.Context, stream, group, consumer string, minIdle time.Duration) (int, error) {
	claimed := 0
	start := "0-0"

	for {
		ids, next, err := r.client.XAutoClaimJustID(ctx, &redis.XAutoClaimArgs{
			Stream:   stream,
			Group:    group,
			Consumer: consumer,
			MinIdle:  minIdle,
			Start:    start,
			Count:    claimBatchSize,
		}).Result()
		if err != nil {
			r.logger.Error("Failed to claim stale messages",
				zap.String("stream", stream),
				zap.String("group", group),
				zap.Error(err))
			return claimed, fmt.Errorf("failed to claim stale messages: %w", err)
		}

		claimed += len(ids)
		if next == "" || next == "0-0" {
			break
		}
		start = next
	}

	if claimed > 0 {
		r.logger.Info("Claimed stale messages",
			zap.String("stream", stream),
			zap.String("consumer", consumer),
			zap.Int("count", claimed))
	}
	return claimed, nil
}

// PublishListingClick публикует событие клика
func (r *streamRepository) PublishListingClick(ctx context.Context, event domain.ListingClickEvent) error {
	return r.publish(ctx, domain.StreamListingClicks, event)
}

// publish публикует JSON-сообщение в поле "data"
func (r *streamRepository) publish(ctx context.Context, stream string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(jsonData),
		},
	}).Result()
	if err != nil {
		r.logger.Error("Failed to publish to stream",
			zap.String("stream", stream),
			zap.Error(err))
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	r.logger.Debug("Message published to stream",
		zap.String("stream", stream),
		zap.String("message_id", id))
	return nil
}

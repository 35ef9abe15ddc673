package clicks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/domain"
	"github.com/hkgcity/directory/internal/domain/repository"
	"github.com/hkgcity/directory/internal/worker"
)

const defaultRetryDelay = 200 * time.Millisecond

// Applier применяет клик к хранилищу (click_count + 1)
type Applier interface {
	ApplyListingClick(ctx context.Context, listingID string) error
}

// Config - параметры ClickWorker
type Config struct {
	ConsumerGroup string
	// ConsumerName пустое - hostname
	ConsumerName string
	MaxRetries   int
	// ClaimMinIdle - при старте забрать сообщения, висящие в pending у других
	// consumer дольше этого времени; 0 отключает
	ClaimMinIdle time.Duration
}

// ClickWorker читает stream:listing:clicks и увеличивает счётчики кликов.
// Сообщение подтверждается после успешного применения. После исчерпания
// попыток оно остаётся в pending: тот же consumer перечитает его при следующем
// старте, другой заберёт через ClaimStale по истечении ClaimMinIdle.
type ClickWorker struct {
	*worker.BaseWorker
	streams      repository.StreamRepository
	applier      Applier
	maxRetries   int
	claimMinIdle time.Duration
	retryDelay   time.Duration
}

func NewClickWorker(
	streams repository.StreamRepository,
	applier Applier,
	cfg Config,
	logger *zap.Logger,
) *ClickWorker {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &ClickWorker{
		BaseWorker:   worker.NewBaseWorker("listing-clicks", domain.StreamListingClicks, cfg.ConsumerGroup, cfg.ConsumerName, logger),
		streams:      streams,
		applier:      applier,
		maxRetries:   maxRetries,
		claimMinIdle: cfg.ClaimMinIdle,
		retryDelay:   defaultRetryDelay,
	}
}

// Start блокирует до Stop, отмены ctx или закрытия стрима
func (w *ClickWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting click worker",
		zap.String("stream", w.Stream()),
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()))

	if err := w.streams.CreateConsumerGroup(ctx, w.Stream(), w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	if w.claimMinIdle > 0 {
		// ошибка не фатальна: свои pending сообщения всё равно будут перечитаны
		if _, err := w.streams.ClaimStale(ctx, w.Stream(), w.ConsumerGroup(), w.ConsumerName(), w.claimMinIdle); err != nil {
			logger.Warn("Failed to claim stale messages", zap.Error(err))
		}
	}

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-w.StopChan():
			cancel()
		case <-consumeCtx.Done():
		}
	}()

	messages, err := w.streams.ConsumeStream(consumeCtx, w.Stream(), w.ConsumerGroup(), w.ConsumerName())
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for {
		select {
		case <-consumeCtx.Done():
			if w.IsStopped() {
				logger.Info("Worker stopped")
				return nil
			}
			return ctx.Err()

		case msg, ok := <-messages:
			if !ok {
				logger.Info("Stream closed")
				return nil
			}
			w.handle(consumeCtx, msg)
		}
	}
}

func (w *ClickWorker) handle(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	var event domain.ListingClickEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil || event.ListingID == "" {
		logger.Warn("Malformed click event, skipping", zap.Error(err))
		w.ack(ctx, msg.ID)
		return
	}

	logger = logger.With(zap.String("listing_id", event.ListingID))

	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		err := w.applier.ApplyListingClick(ctx, event.ListingID)
		switch {
		case err == nil:
			w.ack(ctx, msg.ID)
			return
		case errors.Is(err, domain.ErrDocumentNotFound):
			logger.Warn("Click for unknown listing, skipping")
			w.ack(ctx, msg.ID)
			return
		}

		logger.Warn("Failed to apply click",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", w.maxRetries),
			zap.Error(err))

		if attempt == w.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * w.retryDelay):
		}
	}

	logger.Error("Click left pending after retries")
}

func (w *ClickWorker) ack(ctx context.Context, id string) {
	if err := w.streams.AckMessage(ctx, w.Stream(), w.ConsumerGroup(), id); err != nil {
		// не критично: сообщение будет перечитано
		w.Logger().Error("Failed to ack message", zap.String("message_id", id), zap.Error(err))
	}
}

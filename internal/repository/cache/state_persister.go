package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hkgcity/directory/internal/domain/repository"
)

const stateKeyPrefix = "state:"

// StatePersister хранит снимки view-state сессий в кеше под ключом state:<store>:<session>
type StatePersister struct {
	cache repository.CacheRepository
	ttl   time.Duration
}

// NewStatePersister создаёт persister; ttl продлевается при каждом сохранении
func NewStatePersister(cache repository.CacheRepository, ttl time.Duration) *StatePersister {
	return &StatePersister{
		cache: cache,
		ttl:   ttl,
	}
}

func stateKey(storeName, sessionID string) string {
	return fmt.Sprintf("%s%s:%s", stateKeyPrefix, storeName, sessionID)
}

func (p *StatePersister) Save(ctx context.Context, storeName, sessionID string, data []byte) error {
	return p.cache.Set(ctx, stateKey(storeName, sessionID), data, p.ttl)
}

func (p *StatePersister) Load(ctx context.Context, storeName, sessionID string) ([]byte, error) {
	return p.cache.Get(ctx, stateKey(storeName, sessionID))
}

func (p *StatePersister) Remove(ctx context.Context, storeName, sessionID string) error {
	return p.cache.Delete(ctx, stateKey(storeName, sessionID))
}

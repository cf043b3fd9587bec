package dataprocessing

import (
	"crypto/sha256"
	"encoding/hex"

	gocache "github.com/patrickmn/go-cache"

	"deliverypulse/pkg/contracts/domain"
)

// Cache memoizes per-file normalization output. Keys are content-addressed,
// so a hit is always correct and explicit invalidation is never required.
// Implementations must be safe for concurrent use.
type Cache interface {
	// GetOrCompute returns the cached records for key, or runs compute and
	// caches its result. Errors from compute are returned uncached.
	GetOrCompute(key string, compute func() ([]domain.TradeRecord, error)) ([]domain.TradeRecord, error)
}

// ContentKey returns the content-addressed cache key for a raw payload: the
// hex-encoded SHA-256 of its bytes.
func ContentKey(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// memoCache is an in-memory Cache without expiration.
type memoCache struct {
	store *gocache.Cache
}

// NewMemoCache creates an in-memory normalization cache. Entries never
// expire; content addressing guarantees a stale hit is impossible.
func NewMemoCache() Cache {
	return &memoCache{store: gocache.New(gocache.NoExpiration, 0)}
}

func (c *memoCache) GetOrCompute(key string, compute func() ([]domain.TradeRecord, error)) ([]domain.TradeRecord, error) {
	if cached, ok := c.store.Get(key); ok {
		return cached.([]domain.TradeRecord), nil
	}

	records, err := compute()
	if err != nil {
		return nil, err
	}

	c.store.Set(key, records, gocache.NoExpiration)
	return records, nil
}

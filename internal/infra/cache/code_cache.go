package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/config"
)

// CodeCache remembers the outcome of an authorization-code exchange so
// that a duplicate callback with the same code returns the original
// result instead of hitting the provider again. Entries carry a fixed
// TTL applied at insert; reads never extend it. Expired entries are
// reclaimed by the LRU's single background reaper.
type CodeCache struct {
	entries *lru.LRU[string, domain.AuthResult]
}

// NewCodeCache builds a cache bounded by cfg.MaxSize with entry
// lifetime cfg.TTL.
func NewCodeCache(cfg config.AuthCacheSettings) *CodeCache {
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = 1024
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &CodeCache{
		entries: lru.NewLRU[string, domain.AuthResult](maxSize, nil, ttl),
	}
}

// Get returns the cached result for an authorization code, if present
// and not expired.
func (c *CodeCache) Get(code string) (domain.AuthResult, bool) {
	return c.entries.Get(cacheKey(code))
}

// Put stores a successful exchange result. Failed exchanges are never
// stored; callers retry against the provider instead.
func (c *CodeCache) Put(code string, result domain.AuthResult) {
	c.entries.Add(cacheKey(code), result)
}

// Len reports the number of live entries.
func (c *CodeCache) Len() int {
	return c.entries.Len()
}

// Raw authorization codes never land in the map; keys are digests.
func cacheKey(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

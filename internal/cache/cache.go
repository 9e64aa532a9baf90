package cache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/okravets/case-records/internal/database"
)

// SessionCache keeps token-to-user lookups in front of the sessions table,
// so routine request authentication avoids a database read.
type SessionCache interface {
	Get(token string) (*database.User, bool)
	Set(token string, user *database.User)
	Delete(token string)
	Clear()
	Stats() Stats
}

type Stats struct {
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	Size       int       `json:"size"`
	LastAccess time.Time `json:"last_access"`
}

type sessionCache struct {
	cache *cache.Cache
	mu    sync.Mutex
	stats Stats
}

// NewSessionCache creates a session cache whose entries expire after ttl.
// The ttl should be shorter than the session lifetime, so revoked sessions
// fall out of the cache quickly.
func NewSessionCache(ttl time.Duration) SessionCache {
	return &sessionCache{
		cache: cache.New(ttl, ttl*2),
	}
}

func (c *sessionCache) Get(token string) (*database.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.LastAccess = time.Now()

	if data, found := c.cache.Get(token); found {
		if user, ok := data.(*database.User); ok {
			c.stats.Hits++
			return user, true
		}
	}

	c.stats.Misses++
	return nil, false
}

func (c *sessionCache) Set(token string, user *database.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Set(token, user, cache.DefaultExpiration)
}

func (c *sessionCache) Delete(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Delete(token)
}

func (c *sessionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
	c.stats = Stats{}
}

func (c *sessionCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Size = c.cache.ItemCount()
	return c.stats
}

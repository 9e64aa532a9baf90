package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/okravets/case-records/internal/database"
)

func TestSessionCacheHitAndMiss(t *testing.T) {
	c := NewSessionCache(time.Minute)
	user := &database.User{ID: 1, Login: "admin", Role: database.RoleAdmin}

	_, found := c.Get("token-a")
	assert.False(t, found)

	c.Set("token-a", user)
	got, found := c.Get("token-a")
	assert.True(t, found)
	assert.Equal(t, user.ID, got.ID)

	stats := c.Stats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestSessionCacheDelete(t *testing.T) {
	c := NewSessionCache(time.Minute)
	c.Set("token-a", &database.User{ID: 1})

	c.Delete("token-a")
	_, found := c.Get("token-a")
	assert.False(t, found)
}

func TestSessionCacheExpiry(t *testing.T) {
	c := NewSessionCache(10 * time.Millisecond)
	c.Set("token-a", &database.User{ID: 1})

	time.Sleep(30 * time.Millisecond)
	_, found := c.Get("token-a")
	assert.False(t, found)
}

func TestSessionCacheClear(t *testing.T) {
	c := NewSessionCache(time.Minute)
	c.Set("token-a", &database.User{ID: 1})
	c.Set("token-b", &database.User{ID: 2})

	c.Clear()
	assert.Equal(t, 0, c.Stats().Size)
}

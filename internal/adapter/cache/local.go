package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arborhq/planwise/internal/ports"
)

type localEntry struct {
	value    string
	deadline int64 // unix nanos; 0 means no expiry
}

func (e localEntry) expired(now int64) bool {
	return e.deadline != 0 && e.deadline < now
}

// LocalCache is the in-process ports.Cache used when no Redis URL is
// configured. A janitor goroutine sweeps expired snapshots so the map does
// not grow with request traffic.
type LocalCache struct {
	mu      sync.RWMutex
	entries map[string]localEntry
	done    chan struct{}
	log     *zap.Logger
}

func NewLocalCache(sweepInterval time.Duration, log *zap.Logger) ports.Cache {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}

	c := &LocalCache{
		entries: make(map[string]localEntry),
		done:    make(chan struct{}),
		log:     log,
	}
	go c.janitor(sweepInterval)

	log.Info("Using in-memory cache", zap.Duration("sweep_interval", sweepInterval))
	return c
}

func (c *LocalCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || entry.expired(time.Now().UnixNano()) {
		return "", fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}
	return entry.value, nil
}

func (c *LocalCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	str, err := stringify(value)
	if err != nil {
		return err
	}

	entry := localEntry{value: str}
	if expiration > 0 {
		entry.deadline = time.Now().Add(expiration).UnixNano()
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Ping() error { return nil }

func (c *LocalCache) Close() error {
	close(c.done)
	return nil
}

func (c *LocalCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *LocalCache) sweep() {
	now := time.Now().UnixNano()

	c.mu.Lock()
	removed := 0
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		c.log.Debug("Swept expired cache entries", zap.Int("removed", removed))
	}
}

// stringify matches Redis string semantics for the interface's value
// parameter: strings and byte slices pass through, everything else is
// stored as JSON.
func stringify(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("cache: encode value: %w", err)
		}
		return string(data), nil
	}
}

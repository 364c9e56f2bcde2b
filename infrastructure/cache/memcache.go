package cache

import (
	"context"
	"sync"
	"time"
)

// MemCache is a simple in-memory cache backed by sync.Map.
// Items can have optional TTL. A background cleanup goroutine
// runs when NewMemCache is given a positive cleanupInterval.
type MemCache struct {
	items sync.Map
	stop  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
	now   func() time.Time
}

type item struct {
	value      string
	expiration int64 // unix nano; 0 means no expiration
}

// NewMemCache creates a new MemCache. If cleanupInterval > 0,
// a background goroutine will periodically remove expired items.
func NewMemCache(cleanupInterval time.Duration) *MemCache {
	m := &MemCache{
		stop: make(chan struct{}),
		now:  time.Now,
	}
	if cleanupInterval > 0 {
		m.wg.Add(1)
		go func() {
			ticker := time.NewTicker(cleanupInterval)
			defer ticker.Stop()
			defer m.wg.Done()
			for {
				select {
				case <-ticker.C:
					m.cleanup()
				case <-m.stop:
					return
				}
			}
		}()
	}
	return m
}

func (m *MemCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.items.Load(key)
	if !ok {
		return "", false, nil
	}
	it := v.(*item)
	if it.isExpired(m.now()) {
		m.items.CompareAndDelete(key, it)
		return "", false, nil
	}
	return it.value, true, nil
}

func (m *MemCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	var exp int64
	if ttl > 0 {
		exp = m.now().Add(ttl).UnixNano()
	}
	m.items.Store(key, &item{
		value:      value,
		expiration: exp,
	})
	return nil
}

func (m *MemCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.items.Delete(key)
	}
	return nil
}

func (m *MemCache) Ping(context.Context) error {
	return nil
}

func (m *MemCache) Close() error {
	m.once.Do(func() {
		close(m.stop)
	})
	m.wg.Wait()
	return nil
}

// Keys returns the keys of all unexpired items.
func (m *MemCache) Keys() []string {
	keys := make([]string, 0)
	now := m.now()
	m.items.Range(func(k, v any) bool {
		if !v.(*item).isExpired(now) {
			keys = append(keys, k.(string))
		}
		return true
	})
	return keys
}

func (it *item) isExpired(now time.Time) bool {
	if it == nil || it.expiration == 0 {
		return false
	}
	return now.UnixNano() > it.expiration
}

func (m *MemCache) cleanup() {
	now := m.now()
	m.items.Range(func(k, v any) bool {
		if v.(*item).isExpired(now) {
			m.items.Delete(k)
		}
		return true
	})
}

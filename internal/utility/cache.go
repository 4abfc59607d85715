package utility

import (
	"sync"
	"time"
)

// Cache là struct để quản lý cache in-memory với chu kỳ dọn dẹp định kỳ.
// Dùng cho các lookup lặp lại trong request path (ví dụ: user theo token).
type Cache struct {
	items    map[string]interface{}
	mu       sync.RWMutex
	cleanup  time.Duration
	stopChan chan struct{}
}

// NewCache tạo một instance mới của Cache.
// cleanup: chu kỳ xóa toàn bộ cache (đơn giản hơn TTL per-entry, đủ cho lookup cache)
func NewCache(cleanup time.Duration) *Cache {
	cache := &Cache{
		items:    make(map[string]interface{}),
		cleanup:  cleanup,
		stopChan: make(chan struct{}),
	}
	go cache.cleanupLoop()
	return cache
}

// Set lưu giá trị vào cache
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// Get lấy giá trị từ cache
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, exists := c.items[key]
	return value, exists
}

// Delete xóa một key khỏi cache (gọi khi dữ liệu nguồn thay đổi)
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Stop dừng goroutine dọn dẹp
func (c *Cache) Stop() {
	close(c.stopChan)
}

// cleanupLoop dọn dẹp cache định kỳ
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.items = make(map[string]interface{})
			c.mu.Unlock()
		case <-c.stopChan:
			return
		}
	}
}

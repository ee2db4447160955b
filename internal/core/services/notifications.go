// internal/core/services/notifications.go
package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
)

const defaultNotificationCapacity = 50

// NotificationCenter holds transient operator notifications until they expire
type NotificationCenter struct {
	mu       sync.Mutex
	items    []domain.Notification
	capacity int
	now      func() time.Time
}

// NewNotificationCenter creates a notification center; now may be nil
func NewNotificationCenter(capacity int, now func() time.Time) *NotificationCenter {
	if capacity <= 0 {
		capacity = defaultNotificationCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &NotificationCenter{capacity: capacity, now: now}
}

// Push stamps and stores a notification, evicting the oldest when full
func (c *NotificationCenter) Push(n domain.Notification) domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	n.ID = uuid.New().String()
	n.CreatedAt = c.now()
	if n.Life <= 0 {
		n.Life = domain.SuccessLife
	}

	c.prune()
	if len(c.items) == c.capacity {
		c.items = c.items[1:]
	}
	c.items = append(c.items, n)
	return n
}

// Active returns unexpired notifications, oldest first
func (c *NotificationCenter) Active() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prune()
	out := make([]domain.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Dismiss removes a notification before it expires
func (c *NotificationCenter) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *NotificationCenter) prune() {
	now := c.now()
	kept := c.items[:0]
	for _, n := range c.items {
		if now.Before(n.ExpiresAt()) {
			kept = append(kept, n)
		}
	}
	c.items = kept
}

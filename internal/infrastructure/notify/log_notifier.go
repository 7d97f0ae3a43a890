// Package notify delivers action outcome notifications.
package notify

import (
	"context"
	"log"
	"sync"

	"garage_crm/internal/domain/entities"
	"garage_crm/internal/usecase/interfaces"
)

const defaultCapacity = 50

// LogNotifier logs every notification and keeps the most recent ones in memory.
type LogNotifier struct {
	mu    sync.Mutex
	ring  []entities.Notification
	next  int
	count int
}

var _ interfaces.INotifier = (*LogNotifier)(nil)

func NewLogNotifier(capacity int) *LogNotifier {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &LogNotifier{ring: make([]entities.Notification, capacity)}
}

func (n *LogNotifier) Notify(_ context.Context, msg entities.Notification) {
	log.Printf("[notify][%s] title=%q description=%q", msg.Variant, msg.Title, msg.Description)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.ring[n.next] = msg
	n.next = (n.next + 1) % len(n.ring)
	if n.count < len(n.ring) {
		n.count++
	}
}

// Recent returns up to limit notifications, newest first. limit <= 0 returns all kept.
func (n *LogNotifier) Recent(limit int) []entities.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if limit <= 0 || limit > n.count {
		limit = n.count
	}
	out := make([]entities.Notification, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (n.next - i + len(n.ring)) % len(n.ring)
		out = append(out, n.ring[idx])
	}
	return out
}

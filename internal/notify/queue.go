package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification for display.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

// DefaultTTL is how long a notification stays queued before removing itself.
const DefaultTTL = 5 * time.Second

// Notification is an ephemeral user-facing message. It lives until its
// TTL elapses or it is dismissed, whichever comes first.
type Notification struct {
	ID      string
	Kind    Kind
	Message string
}

// Queue holds notifications in insertion order and owns their
// lifecycle. There is no cap and no deduplication.
type Queue struct {
	mu     sync.Mutex
	items  []Notification
	timers map[string]*time.Timer
	ttl    time.Duration
	subs   []func(Notification)
}

func NewQueue() *Queue { return NewQueueTTL(DefaultTTL) }

// NewQueueTTL creates a queue with a custom lifetime. Tests use short TTLs.
func NewQueueTTL(ttl time.Duration) *Queue {
	return &Queue{timers: make(map[string]*time.Timer), ttl: ttl}
}

// Subscribe registers fn to run for every pushed notification.
func (q *Queue) Subscribe(fn func(Notification)) {
	q.mu.Lock()
	q.subs = append(q.subs, fn)
	q.mu.Unlock()
}

// Push queues a notification, schedules its auto-removal and returns its id.
func (q *Queue) Push(kind Kind, message string) string {
	n := Notification{ID: uuid.New().String(), Kind: kind, Message: message}
	q.mu.Lock()
	q.items = append(q.items, n)
	q.timers[n.ID] = time.AfterFunc(q.ttl, func() { q.Dismiss(n.ID) })
	subs := make([]func(Notification), len(q.subs))
	copy(subs, q.subs)
	q.mu.Unlock()
	for _, fn := range subs {
		fn(n)
	}
	return n.ID
}

// Dismiss removes a notification immediately. An unknown id is a
// silent no-op, which makes the scheduled auto-removal harmless when
// it fires for an already-dismissed entry.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	for i := range q.items {
		if q.items[i].ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

// Notifications returns a snapshot in display order.
func (q *Queue) Notifications() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

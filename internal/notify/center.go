package notify

import (
	"slices"
	"sync"
	"time"

	"recruit-dash/internal/ws"

	"github.com/google/uuid"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

const DefaultTTL = 5 * time.Second

// Notification is a user-facing message. A nil ExpiresAt means it stays
// until dismissed.
type Notification struct {
	ID        string     `json:"id"`
	Level     Level      `json:"level"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type entry struct {
	n     Notification
	timer *time.Timer
}

// Center holds the live notifications and expires transient ones with
// time.AfterFunc.
type Center struct {
	mu    sync.Mutex
	items map[string]*entry
	ttl   time.Duration
	pub   ws.Publisher
}

func NewCenter(ttl time.Duration, pub ws.Publisher) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if pub == nil {
		pub = ws.NopPublisher{}
	}
	return &Center{items: make(map[string]*entry), ttl: ttl, pub: pub}
}

// Transient pushes a notification that disappears after the center's TTL.
func (c *Center) Transient(level Level, msg string) Notification {
	return c.push(level, msg, c.ttl)
}

// Persistent pushes a notification that stays until dismissed.
func (c *Center) Persistent(level Level, msg string) Notification {
	return c.push(level, msg, 0)
}

func (c *Center) push(level Level, msg string, ttl time.Duration) Notification {
	now := time.Now().UTC()
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   msg,
		CreatedAt: now,
	}

	e := &entry{n: n}
	c.mu.Lock()
	if ttl > 0 {
		exp := now.Add(ttl)
		e.n.ExpiresAt = &exp
		id := n.ID
		e.timer = time.AfterFunc(ttl, func() { c.expire(id) })
	}
	c.items[n.ID] = e
	n = e.n
	c.mu.Unlock()

	c.pub.Publish(ws.Event{Type: ws.EventNotification, Payload: n})
	return n
}

func (c *Center) expire(id string) {
	c.mu.Lock()
	delete(c.items, id)
	c.mu.Unlock()
}

func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[id]
	if !ok {
		return false
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(c.items, id)
	return true
}

// Active returns the live notifications, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	out := make([]Notification, 0, len(c.items))
	for _, e := range c.items {
		out = append(out, e.n)
	}
	c.mu.Unlock()

	slices.SortFunc(out, func(a, b Notification) int {
		if d := a.CreatedAt.Compare(b.CreatedAt); d != 0 {
			return d
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

// Close stops pending expiry timers.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.items {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
}

package services

import (
	"sync"
	"time"
)

// Notification severity levels and the bootstrap alert classes the
// rendering surface maps them to.
type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
	LevelInfo    NotificationLevel = "info"
)

// DefaultDuration is how long a notification stays visible unless the
// caller asks for a sticky one with duration zero.
const DefaultDuration = 4 * time.Second

// AlertClass maps a level to its alert class; unknown levels render as
// info.
func (l NotificationLevel) AlertClass() string {
	switch l {
	case LevelSuccess:
		return "alert-success"
	case LevelWarning:
		return "alert-warning"
	case LevelError:
		return "alert-danger"
	default:
		return "alert-info"
	}
}

// Notification is one transient user-facing message.
type Notification struct {
	Message    string            `json:"message"`
	Level      NotificationLevel `json:"level"`
	AlertClass string            `json:"alert_class"`
	ExpiresAt  *time.Time        `json:"expires_at,omitempty"`
	Sticky     bool              `json:"sticky"`
}

// Notifier holds at most one live notification: showing a new one
// discards whatever is currently displayed.
type Notifier struct {
	mu      sync.Mutex
	current *Notification
	now     func() time.Time
}

func NewNotifier() *Notifier {
	return &Notifier{now: time.Now}
}

// Show replaces the current notification. A zero duration makes the
// notification persist until dismissed or replaced; anything else
// auto-dismisses after that duration.
func (n *Notifier) Show(message string, level NotificationLevel, duration time.Duration) *Notification {
	notification := &Notification{
		Message:    message,
		Level:      level,
		AlertClass: level.AlertClass(),
	}

	if duration == 0 {
		notification.Sticky = true
	} else {
		expires := n.now().Add(duration)
		notification.ExpiresAt = &expires
	}

	n.mu.Lock()
	n.current = notification
	n.mu.Unlock()

	return notification
}

// Current returns the live notification, or nil when none is visible
// or the last one has expired.
func (n *Notifier) Current() *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil {
		return nil
	}
	if !n.current.Sticky && n.now().After(*n.current.ExpiresAt) {
		n.current = nil
		return nil
	}
	return n.current
}

// Dismiss clears the current notification.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	n.current = nil
	n.mu.Unlock()
}

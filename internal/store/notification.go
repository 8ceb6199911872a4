package store

import (
	"fmt"
	"sync"
	"time"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// DefaultNotificationDuration is how long a toast stays before auto-dismissal.
const DefaultNotificationDuration = 5 * time.Second

// Notification is a single toast message. A zero Duration never expires.
type Notification struct {
	ID       string
	Message  string
	Kind     Kind
	Duration time.Duration
}

// NotificationStore keeps the ordered list of visible notifications.
type NotificationStore struct {
	mu     sync.Mutex
	items  []Notification
	timers map[string]*time.Timer
	nextID int
	closed bool
}

// NewNotificationStore returns an empty store.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{timers: make(map[string]*time.Timer)}
}

// Add appends a notification and returns its id. A positive duration
// schedules automatic removal.
func (s *NotificationStore) Add(message string, kind Kind, duration time.Duration) string {
	if kind == "" {
		kind = KindInfo
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("notification-%d", s.nextID)
	s.nextID++
	s.items = append(s.items, Notification{ID: id, Message: message, Kind: kind, Duration: duration})

	if duration > 0 && !s.closed {
		s.timers[id] = time.AfterFunc(duration, func() { s.Remove(id) })
	}
	return id
}

// Success adds a success notification with the default duration.
func (s *NotificationStore) Success(message string) string {
	return s.Add(message, KindSuccess, DefaultNotificationDuration)
}

// Error adds an error notification with the default duration.
func (s *NotificationStore) Error(message string) string {
	return s.Add(message, KindError, DefaultNotificationDuration)
}

// Warning adds a warning notification with the default duration.
func (s *NotificationStore) Warning(message string) string {
	return s.Add(message, KindWarning, DefaultNotificationDuration)
}

// Info adds an info notification with the default duration.
func (s *NotificationStore) Info(message string) string {
	return s.Add(message, KindInfo, DefaultNotificationDuration)
}

// Remove deletes the notification with id. Unknown ids are ignored.
func (s *NotificationStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Clear removes every notification.
func (s *NotificationStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimers()
	s.items = nil
}

// List returns the notifications in insertion order.
func (s *NotificationStore) List() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Close stops pending auto-dismiss timers. Notifications added afterwards
// never expire.
func (s *NotificationStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.stopTimers()
}

func (s *NotificationStore) stopTimers() {
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

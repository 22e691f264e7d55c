// Package notify implements the Notification Sink: short-lived, auto-expiring
// user-facing messages raised by the synchronization components (session
// expiry, sync errors, success confirmations).
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verilens/verilens/internal/client/models"
)

// DisconnectionText is the message shown when the backend session is lost.
const DisconnectionText = "You have been signed out. Redirecting to the login page..."

// Default lifetimes, matching the severity of the message.
const (
	DefaultTTL       = 5 * time.Second
	successTTL       = 3 * time.Second
	disconnectionTTL = 3 * time.Second
	reconnectionTTL  = 2 * time.Second
)

// Sink holds the ordered set of active notifications. Insertion order is
// preserved; expired or dismissed entries are removed in place.
type Sink struct {
	mu      sync.Mutex
	clock   Clock
	active  []models.Notification
	cancels map[string]func()
}

func NewSink() *Sink {
	return NewSinkWithClock(realClock{})
}

func NewSinkWithClock(clock Clock) *Sink {
	return &Sink{clock: clock, cancels: make(map[string]func())}
}

// Notify appends a notification and returns its id. A positive ttl schedules
// automatic removal; a non-positive ttl makes the notification persistent.
// IDs combine a millisecond time component with a random component so they
// stay unique within the same millisecond.
func (s *Sink) Notify(message string, severity models.Severity, ttl time.Duration) string {
	id := fmt.Sprintf("%d-%s", s.clock.Now().UnixMilli(), uuid.NewString()[:8])

	s.mu.Lock()
	s.active = append(s.active, models.Notification{
		ID:       id,
		Message:  message,
		Severity: severity,
		TTL:      ttl,
	})
	if ttl > 0 {
		s.cancels[id] = s.clock.AfterFunc(ttl, func() { s.Dismiss(id) })
	}
	s.mu.Unlock()

	return id
}

// Dismiss removes the notification with the given id. Dismissing an unknown
// or already-removed id is a no-op.
func (s *Sink) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.cancels[id]; ok {
		cancel()
		delete(s.cancels, id)
	}
	for i, n := range s.active {
		if n.ID == id {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return
		}
	}
}

// Active returns a copy of the current notifications in insertion order.
func (s *Sink) Active() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, len(s.active))
	copy(out, s.active)
	return out
}

// Error raises an error notification with the default lifetime.
func (s *Sink) Error(message string) string {
	return s.Notify("Error: "+message, models.SeverityError, DefaultTTL)
}

// Success raises a success confirmation.
func (s *Sink) Success(message string) string {
	return s.Notify(message, models.SeveritySuccess, successTTL)
}

// DisconnectionAlert raises the session-loss warning shown before the forced
// redirect to the login entry point.
func (s *Sink) DisconnectionAlert() string {
	return s.Notify(DisconnectionText, models.SeverityWarning, disconnectionTTL)
}

// ReconnectionSuccess confirms that the session was re-established.
func (s *Sink) ReconnectionSuccess() string {
	return s.Notify("Reconnected successfully", models.SeveritySuccess, reconnectionTTL)
}

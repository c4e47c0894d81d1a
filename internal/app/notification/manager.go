// Package notification fans playlist change events out to subscribers.
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType names the playlist change that happened.
type EventType string

const (
	EventInitialState   EventType = "INITIAL_STATE"
	EventTrackAdded     EventType = "TRACK_ADDED"
	EventTracksImported EventType = "TRACKS_IMPORTED"
	EventTrackRemoved   EventType = "TRACK_REMOVED"
	EventTrackMoved     EventType = "TRACK_MOVED"
	EventReordered      EventType = "REORDERED"
	EventCursorChanged  EventType = "CURSOR_CHANGED"
	EventFavoriteToggle EventType = "FAVORITE_TOGGLED"
	EventTrackPlayed    EventType = "TRACK_PLAYED"
)

// Event describes one playlist change.
type Event struct {
	Type       EventType `json:"type"`
	SequenceNo uint64    `json:"sequence_no"`
	TrackID    string    `json:"track_id,omitempty"`
	Size       int       `json:"size"`
}

// Stream represents a notification stream for a subscriber.
type Stream interface {
	Send(*Event) error
}

// StreamFunc adapts a function to Stream.
type StreamFunc func(*Event) error

func (f StreamFunc) Send(e *Event) error { return f(e) }

type subscription struct {
	id     string
	stream Stream
}

// Manager manages notification subscriptions and broadcasting.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	sequenceNo    uint64
	sequenceNoMu  sync.Mutex
	sendTimeout   time.Duration
	done          chan struct{}
	closeOnce     sync.Once
}

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
		sendTimeout:   500 * time.Millisecond,
		done:          make(chan struct{}),
	}
}

// Subscribe adds a new subscription and returns the subscription ID.
func (m *Manager) Subscribe(stream Stream) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.subscriptions[id] = &subscription{
		id:     id,
		stream: stream,
	}
	return id
}

// NextSequenceNo returns the next sequence number and increments the counter.
func (m *Manager) NextSequenceNo() uint64 {
	m.sequenceNoMu.Lock()
	defer m.sequenceNoMu.Unlock()
	m.sequenceNo++
	return m.sequenceNo
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, subscriptionID)
}

// Broadcast stamps the event with the next sequence number and sends it to
// all subscribers. Each send runs in its own goroutine with a timeout so a
// slow subscriber cannot block the others.
func (m *Manager) Broadcast(event Event) Event {
	event.SequenceNo = m.NextSequenceNo()

	m.mu.RLock()
	subs := make([]*subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(s *subscription) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), m.sendTimeout)
			defer cancel()

			e := event
			done := make(chan error, 1)
			go func() {
				done <- s.stream.Send(&e)
			}()

			select {
			case <-done:
				// send errors surface on the subscriber's side when its stream closes
			case <-ctx.Done():
			}
		}(sub)
	}

	wg.Wait()
	return event
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Done is closed by Close. Subscribers holding a stream open wait on it.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Close removes all subscriptions and releases waiting subscribers.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = make(map[string]*subscription)
	m.closeOnce.Do(func() { close(m.done) })
}

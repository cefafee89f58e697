package relay

import (
	"sync"

	"relay-service/internal/models"
)

// fakeSender records deliveries for assertions.
type fakeSender struct {
	mu        sync.Mutex
	sendOK    bool
	broadcast []recordedEvent
	direct    []recordedEvent
}

type recordedEvent struct {
	target string // room id for broadcasts, connection id for direct sends
	event  models.ServerEvent
}

func newFakeSender() *fakeSender {
	return &fakeSender{sendOK: true}
}

func (f *fakeSender) Broadcast(roomID string, event models.ServerEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcast = append(f.broadcast, recordedEvent{target: roomID, event: event})
}

func (f *fakeSender) SendToConnection(connectionID string, event models.ServerEvent) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.direct = append(f.direct, recordedEvent{target: connectionID, event: event})
	return f.sendOK
}

func (f *fakeSender) broadcastsTo(roomID string) []models.ServerEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var events []models.ServerEvent
	for _, rec := range f.broadcast {
		if rec.target == roomID {
			events = append(events, rec.event)
		}
	}
	return events
}

func (f *fakeSender) directTo(connectionID string) []models.ServerEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var events []models.ServerEvent
	for _, rec := range f.direct {
		if rec.target == connectionID {
			events = append(events, rec.event)
		}
	}
	return events
}

func (f *fakeSender) lastBroadcast(roomID string, name string) (models.ServerEvent, bool) {
	events := f.broadcastsTo(roomID)
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Event == name {
			return events[i], true
		}
	}
	return models.ServerEvent{}, false
}

package runtime

import (
	"fmt"
	"log/slog"

	"collab-hub/domain"
	"collab-hub/domain/event"
)

// Dispatcher fans a typed event out to exactly the sessions in scope at
// call time. Membership is resolved when the publish is issued, not from
// a stale snapshot: sessions joining mid-call are not owed the event.
//
// A failed write to one session never aborts delivery to the rest; the
// failure is counted, logged, and the broadcast continues. The dispatcher
// never retries.
type Dispatcher struct {
	log      *slog.Logger
	registry *Registry
}

func NewDispatcher(log *slog.Logger, registry *Registry) *Dispatcher {
	return &Dispatcher{log: log, registry: registry}
}

// PublishToRoom serializes the event once and delivers it to every
// current member of the room except the excluded session. Pass an empty
// SessionID to exclude nobody.
func (d *Dispatcher) PublishToRoom(key domain.RoomKey, e event.Event, exclude domain.SessionID) domain.DeliveryResult {
	frame, err := event.Marshal(e)
	if err != nil {
		d.log.Error("Unserializable event, dropping broadcast", "event", e.Type(), "room", key.String(), "error", err)
		return domain.DeliveryResult{}
	}
	return d.fanout(d.registry.sinksForRoom(key, exclude), e.Type(), frame)
}

// PublishToRoomExcludingUser delivers to every member of the room except
// the sessions owned by one identity. Used for presence signals, where
// the actor must not see the echo on any of their tabs.
func (d *Dispatcher) PublishToRoomExcludingUser(key domain.RoomKey, e event.Event, excludeUserID string) domain.DeliveryResult {
	frame, err := event.Marshal(e)
	if err != nil {
		d.log.Error("Unserializable event, dropping broadcast", "event", e.Type(), "room", key.String(), "error", err)
		return domain.DeliveryResult{}
	}
	return d.fanout(d.registry.sinksForRoomExcludingUser(key, excludeUserID), e.Type(), frame)
}

// PublishToUser delivers the event to every session the user currently
// owns. Zero registered sessions yields a zero result, not an error: the
// user is simply offline.
func (d *Dispatcher) PublishToUser(userID string, e event.Event) domain.DeliveryResult {
	frame, err := event.Marshal(e)
	if err != nil {
		d.log.Error("Unserializable event, dropping delivery", "event", e.Type(), "user_id", userID, "error", err)
		return domain.DeliveryResult{}
	}
	return d.fanout(d.registry.sinksForUser(userID), e.Type(), frame)
}

// PublishToSession delivers directly to one session. Used for admission
// and join acks.
func (d *Dispatcher) PublishToSession(sessionID domain.SessionID, e event.Event) domain.DeliveryResult {
	frame, err := event.Marshal(e)
	if err != nil {
		d.log.Error("Unserializable event, dropping delivery", "event", e.Type(), "session_id", sessionID, "error", err)
		return domain.DeliveryResult{}
	}
	t, ok := d.registry.sinkFor(sessionID)
	if !ok {
		return domain.DeliveryResult{}
	}
	return d.fanout([]target{t}, e.Type(), frame)
}

func (d *Dispatcher) fanout(targets []target, eventType string, frame []byte) domain.DeliveryResult {
	var result domain.DeliveryResult
	for _, t := range targets {
		if err := t.sink.Deliver(frame); err != nil {
			result.Failed++
			d.log.Warn(fmt.Sprintf("Dropped %s event for session %s", eventType, t.id), "error", err)
			continue
		}
		result.Delivered++
	}
	return result
}

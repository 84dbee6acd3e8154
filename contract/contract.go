//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"collab-hub/domain"
	"collab-hub/domain/event"
)

// Sink is the outbound side of one session's transport. Deliver must not
// block the caller: a session that cannot keep up gets the frame dropped
// and an error back, never a stalled broadcast.
type Sink interface {
	Deliver(frame []byte) error
}

// TokenVerifier is the slice of the auth service this layer consumes:
// it turns a bearer token into a user id or fails.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// IRegistry is the session registry and room directory combined behind
// one mutual-exclusion discipline. All mutating operations and the
// snapshots taken for fan-out go through it.
type IRegistry interface {
	Register(session domain.Session, sink Sink)
	Unregister(sessionID domain.SessionID)
	JoinRoom(sessionID domain.SessionID, key domain.RoomKey) error
	LeaveRoom(sessionID domain.SessionID, key domain.RoomKey) bool
	MembersOf(key domain.RoomKey) []domain.SessionID
	RoomsOf(sessionID domain.SessionID) []domain.RoomKey
	SessionFor(sessionID domain.SessionID) (domain.Session, bool)
	UsersInRoom(key domain.RoomKey) []string
	IsUserOnline(userID string) bool
	OnlineUsers() []string
}

// IDispatcher delivers a typed event to exactly the sessions in scope at
// call time. Implementations never retry; retry policy is layered above
// (outbox, for the notification class only).
type IDispatcher interface {
	PublishToRoom(key domain.RoomKey, e event.Event, exclude domain.SessionID) domain.DeliveryResult
	PublishToRoomExcludingUser(key domain.RoomKey, e event.Event, excludeUserID string) domain.DeliveryResult
	PublishToUser(userID string, e event.Event) domain.DeliveryResult
	PublishToSession(sessionID domain.SessionID, e event.Event) domain.DeliveryResult
}

// Worker doesn't protect itself.
// Can be silly, focused.
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// lifecycle events, avoiding manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

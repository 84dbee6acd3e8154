// Package runtime holds the in-process state shared by every connection:
// the session registry, the room directory, and the event dispatcher that
// fans out over them. It contains no business rules and no transport code.
package runtime

import (
	"sync"

	"collab-hub/contract"
	"collab-hub/domain"
	"collab-hub/errors"
)

type sessionSet map[domain.SessionID]struct{}
type roomSet map[domain.RoomKey]struct{}

// entry ties a registered session to its outbound sink.
type entry struct {
	session domain.Session
	sink    contract.Sink
}

// Registry is the session registry and room directory behind a single
// RWMutex. Both sides of the room membership relation are updated under
// the same lock so no concurrent broadcast ever observes a torn state:
// s is in MembersOf(r) exactly when r is in RoomsOf(s).
//
// Registry is an explicitly constructed component, created once per
// process and passed to whoever needs it. There is no package-level
// instance.
type Registry struct {
	mu           sync.RWMutex
	sessions     map[domain.SessionID]entry
	userSessions map[string]sessionSet
	roomMembers  map[domain.RoomKey]sessionSet
	sessionRooms map[domain.SessionID]roomSet
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:     make(map[domain.SessionID]entry),
		userSessions: make(map[string]sessionSet),
		roomMembers:  make(map[domain.RoomKey]sessionSet),
		sessionRooms: make(map[domain.SessionID]roomSet),
	}
}

// Register records a freshly admitted session and indexes it under its
// owning identity. A user may hold any number of concurrent sessions.
func (r *Registry) Register(session domain.Session, sink contract.Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = entry{session: session, sink: sink}

	if _, ok := r.userSessions[session.UserID]; !ok {
		r.userSessions[session.UserID] = make(sessionSet)
	}
	r.userSessions[session.UserID][session.ID] = struct{}{}
}

// Unregister purges a session from the session table, the identity index
// and every room it had joined. It is idempotent: releasing an unknown or
// already released session is a no-op, and it leaves no dangling
// references behind. Empty rooms and empty identity buckets are removed
// so memory stays bounded by what is currently active.
func (r *Registry) Unregister(sessionID domain.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)

	if ids, ok := r.userSessions[e.session.UserID]; ok {
		delete(ids, sessionID)
		if len(ids) == 0 {
			delete(r.userSessions, e.session.UserID)
		}
	}

	for key := range r.sessionRooms[sessionID] {
		r.dropMember(key, sessionID)
	}
	delete(r.sessionRooms, sessionID)
}

// JoinRoom adds the session to the room's membership set, creating the
// room on first join. It fails loudly for sessions the registry does not
// know about: joining before admission is a caller bug.
func (r *Registry) JoinRoom(sessionID domain.SessionID, key domain.RoomKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return errors.ErrUnknownSession
	}

	if _, ok := r.roomMembers[key]; !ok {
		r.roomMembers[key] = make(sessionSet)
	}
	r.roomMembers[key][sessionID] = struct{}{}

	if _, ok := r.sessionRooms[sessionID]; !ok {
		r.sessionRooms[sessionID] = make(roomSet)
	}
	r.sessionRooms[sessionID][key] = struct{}{}

	return nil
}

// LeaveRoom removes the session from a room. It reports whether the
// session was actually a member so the gateway can log the defensive
// no-op case without treating it as an error.
func (r *Registry) LeaveRoom(sessionID domain.SessionID, key domain.RoomKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.roomMembers[key]
	if !ok {
		return false
	}
	if _, member := members[sessionID]; !member {
		return false
	}

	r.dropMember(key, sessionID)

	if rooms, ok := r.sessionRooms[sessionID]; ok {
		delete(rooms, key)
		if len(rooms) == 0 {
			delete(r.sessionRooms, sessionID)
		}
	}
	return true
}

// dropMember removes one member from a room and reclaims the room entry
// once nobody is left. Callers must hold the write lock.
func (r *Registry) dropMember(key domain.RoomKey, sessionID domain.SessionID) {
	members, ok := r.roomMembers[key]
	if !ok {
		return
	}
	delete(members, sessionID)
	if len(members) == 0 {
		delete(r.roomMembers, key)
	}
}

// MembersOf returns a snapshot of the session ids currently in a room.
func (r *Registry) MembersOf(key domain.RoomKey) []domain.SessionID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[key]
	if !ok {
		return nil
	}
	ids := make([]domain.SessionID, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	return ids
}

// RoomsOf returns a snapshot of the rooms a session has joined.
func (r *Registry) RoomsOf(sessionID domain.SessionID) []domain.RoomKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms, ok := r.sessionRooms[sessionID]
	if !ok {
		return nil
	}
	keys := make([]domain.RoomKey, 0, len(rooms))
	for key := range rooms {
		keys = append(keys, key)
	}
	return keys
}

// SessionFor resolves a session id back to its session.
func (r *Registry) SessionFor(sessionID domain.SessionID) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[sessionID]
	return e.session, ok
}

// UsersInRoom resolves a room's membership down to the distinct
// identities behind it. Used by the outbox to target durable records at
// users, not at transient sessions.
func (r *Registry) UsersInRoom(key domain.RoomKey) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]struct{}{}
	var users []string
	for id := range r.roomMembers[key] {
		e, ok := r.sessions[id]
		if !ok {
			continue
		}
		if _, dup := seen[e.session.UserID]; dup {
			continue
		}
		seen[e.session.UserID] = struct{}{}
		users = append(users, e.session.UserID)
	}
	return users
}

// IsUserOnline is the derived presence fact: a user is online while they
// own at least one session.
func (r *Registry) IsUserOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.userSessions[userID]) > 0
}

// OnlineUsers lists every identity currently owning a session.
func (r *Registry) OnlineUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]string, 0, len(r.userSessions))
	for userID := range r.userSessions {
		users = append(users, userID)
	}
	return users
}

// target pairs a session id with its sink for one fan-out pass.
type target struct {
	id   domain.SessionID
	sink contract.Sink
}

// sinksForRoom snapshots the deliverable members of a room under the read
// lock, so nobody is handed out mid-removal. The exclude parameter lets
// an actor's own session skip the echo of its own signal.
func (r *Registry) sinksForRoom(key domain.RoomKey, exclude domain.SessionID) []target {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[key]
	if !ok {
		return nil
	}
	targets := make([]target, 0, len(members))
	for id := range members {
		if id == exclude {
			continue
		}
		if e, exists := r.sessions[id]; exists {
			targets = append(targets, target{id: id, sink: e.sink})
		}
	}
	return targets
}

// sinksForRoomExcludingUser snapshots the deliverable members of a room
// minus every session the excluded identity owns. Presence signals use
// this so a user typing in one tab never sees the echo in another.
func (r *Registry) sinksForRoomExcludingUser(key domain.RoomKey, excludeUserID string) []target {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[key]
	if !ok {
		return nil
	}
	targets := make([]target, 0, len(members))
	for id := range members {
		e, exists := r.sessions[id]
		if !exists || e.session.UserID == excludeUserID {
			continue
		}
		targets = append(targets, target{id: id, sink: e.sink})
	}
	return targets
}

// sinksForUser snapshots every session currently registered under a user.
func (r *Registry) sinksForUser(userID string) []target {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids, ok := r.userSessions[userID]
	if !ok {
		return nil
	}
	targets := make([]target, 0, len(ids))
	for id := range ids {
		if e, exists := r.sessions[id]; exists {
			targets = append(targets, target{id: id, sink: e.sink})
		}
	}
	return targets
}

// sinkFor resolves a single session.
func (r *Registry) sinkFor(sessionID domain.SessionID) (target, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[sessionID]
	if !ok {
		return target{}, false
	}
	return target{id: sessionID, sink: e.sink}, true
}

// Counts reports current gauge values for the stats worker.
func (r *Registry) Counts() (sessions, rooms, users int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions), len(r.roomMembers), len(r.userSessions)
}

//go:generate go run go.uber.org/mock/mockgen -source=gateway_service.go -destination=../mocks/mock_gateway_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"collab-hub/contract"
	"collab-hub/domain"
	"collab-hub/domain/event"
	"collab-hub/errors"
)

type IGatewayService interface {
	Admit(ctx context.Context, sink contract.Sink, token string) (domain.Session, error)
	Release(sessionID domain.SessionID)
	JoinRoom(sessionID domain.SessionID, key domain.RoomKey) error
	LeaveRoom(sessionID domain.SessionID, key domain.RoomKey)
	Typing(sessionID domain.SessionID, channelID int64)
}

// GatewayService admits or rejects connections and owns the session
// lifecycle: connect, join, leave, disconnect. Authentication failures
// are terminal and leave no state behind; room errors are reported to
// the caller but never take the gateway down.
type GatewayService struct {
	log        *slog.Logger
	registry   contract.IRegistry
	dispatcher contract.IDispatcher
	verifier   contract.TokenVerifier
}

func NewGatewayService(log *slog.Logger, registry contract.IRegistry,
	dispatcher contract.IDispatcher, verifier contract.TokenVerifier) *GatewayService {
	return &GatewayService{log: log, registry: registry, dispatcher: dispatcher, verifier: verifier}
}

// Admit validates the bearer token and, only on success, creates the
// session, indexes it under its identity, and acks that session with a
// connected frame. A rejected attempt creates no session at all.
func (s *GatewayService) Admit(ctx context.Context, sink contract.Sink, token string) (domain.Session, error) {
	userID, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", errors.ErrAuthentication, err)
	}

	session := domain.Session{
		ID:        domain.SessionID(uuid.NewString()),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	s.registry.Register(session, sink)
	s.log.Info("Session admitted", "session_id", session.ID, "user_id", userID)

	s.dispatcher.PublishToSession(session.ID, event.Connected{UserID: userID})
	return session, nil
}

// Release purges the session from every structure. Always succeeds and
// is idempotent: the heartbeat-timeout path and the explicit-disconnect
// path both end up here, possibly twice.
func (s *GatewayService) Release(sessionID domain.SessionID) {
	s.registry.Unregister(sessionID)
	s.log.Info("Session released", "session_id", sessionID)
}

// JoinRoom adds the session to a room and acks it with the matching
// joined frame. Joining with an unknown session is a caller bug and
// fails loudly.
func (s *GatewayService) JoinRoom(sessionID domain.SessionID, key domain.RoomKey) error {
	if err := s.registry.JoinRoom(sessionID, key); err != nil {
		return fmt.Errorf("join %s: %w", key, err)
	}
	s.log.Debug(fmt.Sprintf("Session %s joined %s", sessionID, key))

	switch key.Kind {
	case domain.RoomTeam:
		s.dispatcher.PublishToSession(sessionID, event.JoinedTeam{TeamID: key.ID})
	default:
		s.dispatcher.PublishToSession(sessionID, event.JoinedChannel{ChannelID: key.ID})
	}
	return nil
}

// LeaveRoom removes the session from a room. Leaving a room the session
// never joined is a defensive no-op worth a warning, not an error.
func (s *GatewayService) LeaveRoom(sessionID domain.SessionID, key domain.RoomKey) {
	if !s.registry.LeaveRoom(sessionID, key) {
		s.log.Warn(fmt.Sprintf("Session %s asked to leave %s without being a member", sessionID, key))
	}
}

// Typing fans the presence signal out to the other members of the
// channel. Every session of the originating identity is excluded: a user
// never sees their own typing indicator, not even on another tab.
func (s *GatewayService) Typing(sessionID domain.SessionID, channelID int64) {
	session, ok := s.registry.SessionFor(sessionID)
	if !ok {
		s.log.Warn(fmt.Sprintf("Typing signal from unknown session %s", sessionID))
		return
	}
	s.dispatcher.PublishToRoomExcludingUser(domain.ChannelRoom(channelID),
		event.UserTyping{ChannelID: channelID, UserID: session.UserID}, session.UserID)
}

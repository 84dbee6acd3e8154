// Package ws is the websocket transport in front of the gateway. It
// owns framing only; admission, rooms and fan-out semantics live in the
// services and runtime packages.
package ws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"collab-hub/domain"
	"collab-hub/services"
)

// Config bounds one connection's I/O behaviour.
type Config struct {
	// HeartbeatTimeout is how long a connection may stay silent before
	// it is treated as disconnected and released.
	HeartbeatTimeout time.Duration
	// WriteTimeout bounds a single outbound frame write.
	WriteTimeout time.Duration
	// BufferSize is the per-session outbound buffer; a full buffer
	// drops frames instead of stalling broadcasts.
	BufferSize int
	// MaxFrameSize caps inbound frames.
	MaxFrameSize int64
}

// Server upgrades HTTP requests and runs one read loop and one write
// loop per connection, both funnelling into the gateway.
type Server struct {
	log      *slog.Logger
	gateway  services.IGatewayService
	messages services.IMessageService
	outbox   services.IOutboxService
	cfg      Config
	upgrader websocket.Upgrader
}

func NewServer(log *slog.Logger, gateway services.IGatewayService,
	messages services.IMessageService, outbox services.IOutboxService, cfg Config) *Server {
	return &Server{
		log:      log,
		gateway:  gateway,
		messages: messages,
		outbox:   outbox,
		cfg:     cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sink := NewSink(s.cfg.BufferSize)
	session, err := s.gateway.Admit(r.Context(), sink, token)
	if err != nil {
		// A rejected connection closes with no frame at all.
		s.log.Warn("Connection rejected", "remote", r.RemoteAddr, "error", err)
		sink.Close()
		_ = conn.Close()
		return
	}

	go s.writeLoop(conn, sink, session.ID)
	s.readLoop(r.Context(), conn, sink, session)
}

// readLoop consumes client frames until the connection dies or stays
// silent past the heartbeat timeout. Either way the session takes the
// same release path as an explicit disconnect.
func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, sink *Sink, session domain.Session) {
	sessionID := session.ID
	defer func() {
		s.gateway.Release(sessionID)
		sink.Close()
		_ = conn.Close()
	}()

	conn.SetReadLimit(s.cfg.MaxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(s.cfg.HeartbeatTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.cfg.HeartbeatTimeout))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn(fmt.Sprintf("Session %s dropped", sessionID), "error", err)
			}
			return
		}
		// Any frame counts as liveness, not just pongs.
		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.HeartbeatTimeout))

		frame, err := decodeClientFrame(raw)
		if err != nil {
			s.log.Warn(fmt.Sprintf("Malformed frame from session %s", sessionID), "error", err)
			continue
		}
		s.handle(ctx, session, frame)
	}
}

func (s *Server) handle(ctx context.Context, session domain.Session, frame clientFrame) {
	sessionID := session.ID
	switch frame.Type {
	case "join_channel":
		if err := s.gateway.JoinRoom(sessionID, domain.ChannelRoom(frame.ChannelID)); err != nil {
			s.log.Warn("Join rejected", "session_id", sessionID, "channel_id", frame.ChannelID, "error", err)
		}
	case "leave_channel":
		s.gateway.LeaveRoom(sessionID, domain.ChannelRoom(frame.ChannelID))
	case "join_team":
		if err := s.gateway.JoinRoom(sessionID, domain.TeamRoom(frame.TeamID)); err != nil {
			s.log.Warn("Join rejected", "session_id", sessionID, "team_id", frame.TeamID, "error", err)
		}
	case "leave_team":
		s.gateway.LeaveRoom(sessionID, domain.TeamRoom(frame.TeamID))
	case "typing":
		s.gateway.Typing(sessionID, frame.ChannelID)
	case "post_message":
		cmd := domain.PostMessageCommand{
			ChannelID: frame.ChannelID,
			SenderID:  session.UserID,
			Content:   frame.Content,
		}
		if _, err := s.messages.PostMessage(ctx, cmd); err != nil {
			s.log.Warn("Message rejected", "session_id", sessionID, "channel_id", frame.ChannelID, "error", err)
			return
		}
		preview := frame.Content
		if len(preview) > 100 {
			preview = preview[:100] + "..."
		}
		if _, err := s.outbox.FanOutToRoomMembers(ctx, domain.ChannelRoom(frame.ChannelID),
			"New message from "+session.UserID, preview,
			domain.NotificationMessage, session.UserID); err != nil {
			s.log.Warn("Notification fan-out incomplete", "channel_id", frame.ChannelID, "error", err)
		}
	}
}

// writeLoop drains the session's sink onto the socket and keeps the
// connection alive with periodic pings. One write at a time, bounded by
// the write timeout.
func (s *Server) writeLoop(conn *websocket.Conn, sink *Sink, sessionID domain.SessionID) {
	pingPeriod := s.cfg.HeartbeatTimeout * 9 / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case frame, ok := <-sink.Out():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(s.cfg.WriteTimeout))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.log.Warn(fmt.Sprintf("Write failed for session %s", sessionID), "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// bearerToken extracts the token from the Authorization header or,
// since browsers cannot set headers on websocket dials, from the query
// string.
func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

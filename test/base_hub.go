package test

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"

	"collab-hub/auth"
	"collab-hub/infrastructure/ws"
	"collab-hub/repositories"
	"collab-hub/runtime"
	"collab-hub/services"
)

// BaseHubSuite boots a complete hub over an in-memory datastore and an
// httptest listener, and gives scenarios real websocket clients.
type BaseHubSuite struct {
	suite.Suite
	Config Config

	log           *slog.Logger
	db            *badger.DB
	server        *httptest.Server
	tokens        *auth.Manager
	Registry      *runtime.Registry
	Notifications repositories.INotificationRepository
	Outbox        services.IOutboxService

	conns []*websocket.Conn
}

func (s *BaseHubSuite) SetupTest() {
	cfg, err := LoadConfig()
	s.Require().NoError(err)
	s.Config = cfg

	s.log = logs.GetLoggerFromLevel(slog.LevelDebug)

	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.db = db

	registry := runtime.NewRegistry()
	dispatcher := runtime.NewDispatcher(s.log, registry)
	notificationRepository := repositories.NewNotificationRepository(db, s.log, nil)
	messageRepository := repositories.NewMessageRepository(db, s.log, nil)

	s.tokens = auth.NewManager(cfg.JWTSecret, time.Hour)
	gateway := services.NewGatewayService(s.log, registry, dispatcher, s.tokens)
	outbox := services.NewOutboxService(s.log, notificationRepository, dispatcher, registry)
	messages := services.NewMessageService(s.log, messageRepository, dispatcher)

	hub := ws.NewServer(s.log, gateway, messages, outbox, ws.Config{
		HeartbeatTimeout: cfg.HeartbeatTimeout,
		WriteTimeout:     time.Second,
		BufferSize:       16,
		MaxFrameSize:     1 << 16,
	})

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	s.server = httptest.NewServer(mux)

	s.Registry = registry
	s.Notifications = notificationRepository
	s.Outbox = outbox
	s.conns = nil
}

func (s *BaseHubSuite) TearDownTest() {
	for _, conn := range s.conns {
		_ = conn.Close()
	}
	s.server.Close()
	s.Require().NoError(s.db.Close())
}

// Dial opens a websocket as the given user and consumes the connected ack.
func (s *BaseHubSuite) Dial(userID string) *websocket.Conn {
	conn := s.dialRaw(userID)
	frame := s.ReadFrame(conn)
	s.Require().Equal("connected", frame.Type)
	s.Require().Equal(userID, frame.Str("user_id"))
	return conn
}

// DialExpectReject opens a websocket with an arbitrary token and asserts
// the server closes it without sending a single frame.
func (s *BaseHubSuite) DialExpectReject(token string) {
	url := s.wsURL() + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err, "Upgrade itself must succeed, rejection happens after")
	s.conns = append(s.conns, conn)

	_ = conn.SetReadDeadline(time.Now().Add(s.Config.ReadTimeout))
	_, _, err = conn.ReadMessage()
	s.Require().Error(err, "A rejected connection must close with no frame")
}

func (s *BaseHubSuite) dialRaw(userID string) *websocket.Conn {
	token, err := s.tokens.Generate(userID)
	s.Require().NoError(err)

	url := s.wsURL() + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.conns = append(s.conns, conn)
	return conn
}

func (s *BaseHubSuite) wsURL() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
}

// Frame is a decoded server frame with its discriminator split out.
type Frame struct {
	Type   string
	Fields map[string]json.RawMessage
}

// Str returns a top-level string field of the frame.
func (f Frame) Str(name string) string {
	var value string
	_ = json.Unmarshal(f.Fields[name], &value)
	return value
}

// Int returns a top-level integer field of the frame.
func (f Frame) Int(name string) int64 {
	var value int64
	_ = json.Unmarshal(f.Fields[name], &value)
	return value
}

func (s *BaseHubSuite) ReadFrame(conn *websocket.Conn) Frame {
	_ = conn.SetReadDeadline(time.Now().Add(s.Config.ReadTimeout))
	_, raw, err := conn.ReadMessage()
	s.Require().NoError(err)

	fields := map[string]json.RawMessage{}
	s.Require().NoError(json.Unmarshal(raw, &fields))

	frame := Frame{Fields: fields}
	s.Require().NoError(json.Unmarshal(fields["type"], &frame.Type))
	return frame
}

// ExpectFrame reads the next frame and asserts its discriminator.
func (s *BaseHubSuite) ExpectFrame(conn *websocket.Conn, frameType string) Frame {
	frame := s.ReadFrame(conn)
	s.Require().Equal(frameType, frame.Type)
	return frame
}

// ExpectSilence asserts that no frame arrives within the silence window.
// A timed-out read is fatal for the underlying connection, so this must
// be the last read a scenario performs on conn.
func (s *BaseHubSuite) ExpectSilence(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(s.Config.SilenceWindow))
	_, raw, err := conn.ReadMessage()
	if err == nil {
		s.Require().Fail(fmt.Sprintf("Expected no frame, received: %s", raw))
	}
	netErr, ok := err.(interface{ Timeout() bool })
	s.Require().True(ok && netErr.Timeout(), "Expected a read timeout, got: %v", err)
}

// Send marshals and writes a client frame.
func (s *BaseHubSuite) Send(conn *websocket.Conn, frame any) {
	raw, err := json.Marshal(frame)
	s.Require().NoError(err)
	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, raw))
}

package ws

import (
	"sync"

	"collab-hub/errors"
)

// Sink is one session's outbound buffer. The dispatcher writes into it
// from whatever goroutine issued the publish; the connection's write
// loop drains it. Deliver never blocks: a session that cannot keep up
// loses the frame and the dispatcher counts the failure.
type Sink struct {
	mu     sync.Mutex
	out    chan []byte
	closed bool
}

func NewSink(bufferSize int) *Sink {
	return &Sink{out: make(chan []byte, bufferSize)}
}

func (s *Sink) Deliver(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.ErrSinkClosed
	}
	select {
	case s.out <- frame:
		return nil
	default:
		return errors.ErrSinkFull
	}
}

// Out exposes the drain side for the write loop.
func (s *Sink) Out() <-chan []byte {
	return s.out
}

// Close tears the buffer down; subsequent Deliver calls fail fast.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.out)
}

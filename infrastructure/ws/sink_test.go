package ws

import (
	"testing"

	"github.com/stretchr/testify/require"

	"collab-hub/errors"
)

func TestSink_DeliverNeverBlocks(t *testing.T) {
	req := require.New(t)
	sink := NewSink(2)

	// Given a buffer with room for two frames
	req.NoError(sink.Deliver([]byte("one")))
	req.NoError(sink.Deliver([]byte("two")))

	// When a third frame arrives before anything drained
	err := sink.Deliver([]byte("three"))

	// Then the frame is dropped, not queued
	req.ErrorIs(err, errors.ErrSinkFull)
	req.ErrorIs(err, errors.ErrDelivery)
}

func TestSink_DeliverAfterCloseFailsFast(t *testing.T) {
	req := require.New(t)
	sink := NewSink(2)

	sink.Close()

	err := sink.Deliver([]byte("late"))
	req.ErrorIs(err, errors.ErrSinkClosed)
	req.ErrorIs(err, errors.ErrDelivery)
}

func TestSink_CloseIsIdempotentAndDrainsRemainingFrames(t *testing.T) {
	req := require.New(t)
	sink := NewSink(2)

	req.NoError(sink.Deliver([]byte("pending")))
	sink.Close()
	sink.Close()

	// The frame buffered before close is still drainable
	frame, ok := <-sink.Out()
	req.True(ok)
	req.Equal([]byte("pending"), frame)

	// After the drain the channel reports closure
	_, ok = <-sink.Out()
	req.False(ok)
}

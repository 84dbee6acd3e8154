package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"collab-hub/domain"
	"collab-hub/domain/event"
	"collab-hub/errors"
	"collab-hub/mocks"
)

func TestMessageService_PostMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	t.Run("should broadcast only after the commit succeeded", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIMessageRepository(ctrl)
		mockDispatcher := mocks.NewMockIDispatcher(ctrl)
		service := NewMessageService(log, mockRepo, mockDispatcher)

		commit := mockRepo.EXPECT().StoreMessage(gomock.Any()).Return(nil).Times(1)
		mockDispatcher.EXPECT().
			PublishToRoom(domain.ChannelRoom(5), gomock.Any(), domain.SessionID("")).
			Do(func(_ domain.RoomKey, e event.Event, _ domain.SessionID) {
				broadcast, ok := e.(event.MessageNew)
				req.True(ok)
				req.EqualValues(5, broadcast.ChannelID)
				req.Equal("hello", broadcast.Message.Content)
			}).
			Return(domain.DeliveryResult{Delivered: 2}).
			After(commit).
			Times(1)

		message, err := service.PostMessage(context.Background(), domain.PostMessageCommand{
			ChannelID: 5,
			SenderID:  "alice",
			Content:   "hello",
		})

		req.NoError(err)
		req.Equal("alice", message.SenderID)
		req.WithinDuration(time.Now().UTC(), message.CreatedAt, time.Minute)
	})

	t.Run("should never broadcast when the commit fails", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIMessageRepository(ctrl)
		mockDispatcher := mocks.NewMockIDispatcher(ctrl)
		service := NewMessageService(log, mockRepo, mockDispatcher)

		mockRepo.EXPECT().StoreMessage(gomock.Any()).Return(errors.ErrDurability).Times(1)

		// A rolled back mutation must never trigger a publish
		mockDispatcher.EXPECT().PublishToRoom(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := service.PostMessage(context.Background(), domain.PostMessageCommand{
			ChannelID: 5,
			SenderID:  "alice",
			Content:   "hello",
		})

		req.ErrorIs(err, errors.ErrDurability)
	})
}

func TestMessageService_UpdateMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	t.Run("should broadcast the edited message after the rewrite", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIMessageRepository(ctrl)
		mockDispatcher := mocks.NewMockIDispatcher(ctrl)
		service := NewMessageService(log, mockRepo, mockDispatcher)

		id := uuid.New()
		edited := domain.Message{ID: id, ChannelID: 5, SenderID: "alice", Content: "fixed"}
		mockRepo.EXPECT().UpdateContent(int64(5), id, "fixed").Return(edited, nil).Times(1)
		mockDispatcher.EXPECT().
			PublishToRoom(domain.ChannelRoom(5), event.MessageUpdated{ChannelID: 5, Message: edited}, domain.SessionID("")).
			Return(domain.DeliveryResult{Delivered: 1}).
			Times(1)

		message, err := service.UpdateMessage(context.Background(), domain.UpdateMessageCommand{
			ChannelID: 5,
			MessageID: id.String(),
			Content:   "fixed",
		})

		req.NoError(err)
		req.Equal(edited, message)
	})

	t.Run("should reject a malformed message id before touching storage", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIMessageRepository(ctrl)
		mockDispatcher := mocks.NewMockIDispatcher(ctrl)
		service := NewMessageService(log, mockRepo, mockDispatcher)

		mockRepo.EXPECT().UpdateContent(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		mockDispatcher.EXPECT().PublishToRoom(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := service.UpdateMessage(context.Background(), domain.UpdateMessageCommand{
			ChannelID: 5,
			MessageID: "not-a-uuid",
			Content:   "fixed",
		})

		req.Error(err)
	})
}

func TestMessageService_DeleteMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	t.Run("should broadcast the deletion after the commit", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIMessageRepository(ctrl)
		mockDispatcher := mocks.NewMockIDispatcher(ctrl)
		service := NewMessageService(log, mockRepo, mockDispatcher)

		id := uuid.New()
		commit := mockRepo.EXPECT().DeleteMessage(int64(5), id).Return(nil).Times(1)
		mockDispatcher.EXPECT().
			PublishToRoom(domain.ChannelRoom(5), event.MessageDeleted{ChannelID: 5, MessageID: id}, domain.SessionID("")).
			Return(domain.DeliveryResult{Delivered: 1}).
			After(commit).
			Times(1)

		err := service.DeleteMessage(context.Background(), domain.DeleteMessageCommand{
			ChannelID: 5,
			MessageID: id.String(),
		})

		req.NoError(err)
	})

	t.Run("should not broadcast when the record is missing", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIMessageRepository(ctrl)
		mockDispatcher := mocks.NewMockIDispatcher(ctrl)
		service := NewMessageService(log, mockRepo, mockDispatcher)

		id := uuid.New()
		mockRepo.EXPECT().DeleteMessage(int64(5), id).Return(errors.ErrRecordNotFound).Times(1)
		mockDispatcher.EXPECT().PublishToRoom(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		err := service.DeleteMessage(context.Background(), domain.DeleteMessageCommand{
			ChannelID: 5,
			MessageID: id.String(),
		})

		req.ErrorIs(err, errors.ErrRecordNotFound)
	})
}

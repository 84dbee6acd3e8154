package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"collab-hub/domain"
	"collab-hub/domain/event"
	"collab-hub/errors"
	"collab-hub/mocks"
	"collab-hub/runtime"
)

func TestOutboxService_CreateAndDeliver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	t.Run("should never invoke the dispatcher when the commit fails", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockINotificationRepository(ctrl)
		mockDispatcher := mocks.NewMockIDispatcher(ctrl)
		outbox := NewOutboxService(log, mockRepo, mockDispatcher, runtime.NewRegistry())

		mockRepo.EXPECT().Create(gomock.Any()).Return(errors.ErrDurability).Times(1)

		// The dispatcher must NEVER be called for data that does not exist
		mockDispatcher.EXPECT().PublishToUser(gomock.Any(), gomock.Any()).Times(0)

		_, err := outbox.CreateAndDeliver(context.Background(), "carol", "title", "body", domain.NotificationSystem, nil)

		req.ErrorIs(err, errors.ErrDurability)
	})

	t.Run("should push to the recipient only after the commit succeeded", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockINotificationRepository(ctrl)
		mockDispatcher := mocks.NewMockIDispatcher(ctrl)
		outbox := NewOutboxService(log, mockRepo, mockDispatcher, runtime.NewRegistry())

		var committed domain.Notification
		commit := mockRepo.EXPECT().
			Create(gomock.Any()).
			Do(func(n domain.Notification) { committed = n }).
			Return(nil).
			Times(1)

		mockDispatcher.EXPECT().
			PublishToUser("carol", gomock.Any()).
			Do(func(_ string, e event.Event) {
				// The live event carries the exact committed record
				pushed, ok := e.(event.NotificationNew)
				req.True(ok)
				req.Equal(committed, pushed.Notification)
			}).
			Return(domain.DeliveryResult{Delivered: 1}).
			After(commit).
			Times(1)

		notification, err := outbox.CreateAndDeliver(context.Background(), "carol", "Task Assigned", "you got one", domain.NotificationTask, nil)

		req.NoError(err)
		req.Equal("carol", notification.UserID)
		req.False(notification.IsRead)
		req.Nil(notification.ReadAt)
		req.WithinDuration(time.Now().UTC(), notification.CreatedAt, time.Minute)
	})

	t.Run("should treat an offline recipient as success, not error", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockINotificationRepository(ctrl)
		mockDispatcher := mocks.NewMockIDispatcher(ctrl)
		outbox := NewOutboxService(log, mockRepo, mockDispatcher, runtime.NewRegistry())

		mockRepo.EXPECT().Create(gomock.Any()).Return(nil).Times(1)
		// Zero sessions yields zero deliveries, which is fine
		mockDispatcher.EXPECT().
			PublishToUser("offline-carol", gomock.Any()).
			Return(domain.DeliveryResult{}).
			Times(1)

		notification, err := outbox.CreateAndDeliver(context.Background(), "offline-carol", "title", "body", domain.NotificationSystem, nil)

		req.NoError(err)
		req.False(notification.IsRead)
	})
}

func TestOutboxService_FanOutToRoomMembers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given alice (two tabs) and bob are in the team room
	registry := runtime.NewRegistry()
	team := domain.TeamRoom(7)
	sessions := []domain.Session{
		{ID: "alice-tab-1", UserID: "alice", CreatedAt: time.Now().UTC()},
		{ID: "alice-tab-2", UserID: "alice", CreatedAt: time.Now().UTC()},
		{ID: "bob-tab", UserID: "bob", CreatedAt: time.Now().UTC()},
	}
	for _, s := range sessions {
		registry.Register(s, nullDeliverySink{})
		require.NoError(t, registry.JoinRoom(s.ID, team))
	}

	t.Run("should create one record per identity, excluding the actor", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockINotificationRepository(ctrl)
		mockDispatcher := mocks.NewMockIDispatcher(ctrl)
		outbox := NewOutboxService(log, mockRepo, mockDispatcher, registry)

		// Only bob is targeted: alice is the actor, and her two tabs
		// must not produce two records.
		mockRepo.EXPECT().
			Create(gomock.Any()).
			Do(func(n domain.Notification) { req.Equal("bob", n.UserID) }).
			Return(nil).
			Times(1)
		mockDispatcher.EXPECT().
			PublishToUser("bob", gomock.Any()).
			Return(domain.DeliveryResult{Delivered: 1}).
			Times(1)

		notifications, err := outbox.FanOutToRoomMembers(context.Background(), team, "Member joined", "alice joined", domain.NotificationTeam, "alice")

		req.NoError(err)
		req.Len(notifications, 1)
	})

	t.Run("should stop at the first failed commit", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockINotificationRepository(ctrl)
		mockDispatcher := mocks.NewMockIDispatcher(ctrl)
		outbox := NewOutboxService(log, mockRepo, mockDispatcher, registry)

		mockRepo.EXPECT().Create(gomock.Any()).Return(errors.ErrDurability).Times(1)
		mockDispatcher.EXPECT().PublishToUser(gomock.Any(), gomock.Any()).Times(0)

		_, err := outbox.FanOutToRoomMembers(context.Background(), team, "title", "body", domain.NotificationTeam, "alice")

		req.ErrorIs(err, errors.ErrDurability)
	})
}

type nullDeliverySink struct{}

func (nullDeliverySink) Deliver(frame []byte) error { return nil }

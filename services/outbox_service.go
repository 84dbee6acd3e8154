package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"collab-hub/contract"
	"collab-hub/domain"
	"collab-hub/domain/event"
	"collab-hub/repositories"
)

type IOutboxService interface {
	CreateAndDeliver(ctx context.Context, userID, title, body, notificationType string, link *string) (domain.Notification, error)
	FanOutToRoomMembers(ctx context.Context, key domain.RoomKey, title, body, notificationType string, excludeUserID string) ([]domain.Notification, error)
}

// OutboxService bridges durable notification records with best-effort
// live delivery. Durability always precedes visibility: the record must
// commit before any live event exists, and a failed or empty live
// delivery is never an error because the committed record remains
// retrievable through the datastore.
type OutboxService struct {
	log        *slog.Logger
	repository repositories.INotificationRepository
	dispatcher contract.IDispatcher
	registry   contract.IRegistry
}

func NewOutboxService(log *slog.Logger, repository repositories.INotificationRepository,
	dispatcher contract.IDispatcher, registry contract.IRegistry) *OutboxService {
	return &OutboxService{log: log, repository: repository, dispatcher: dispatcher, registry: registry}
}

// CreateAndDeliver commits the record, then pushes it to every session
// the recipient currently owns. If the commit fails, no live event is
// ever emitted for data that does not durably exist. Zero live
// deliveries means the recipient is offline and will find the record
// later through the list API.
func (s *OutboxService) CreateAndDeliver(_ context.Context, userID, title, body,
	notificationType string, link *string) (domain.Notification, error) {
	notification := domain.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      notificationType,
		Title:     title,
		Body:      body,
		Link:      link,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repository.Create(notification); err != nil {
		return domain.Notification{}, err
	}

	result := s.dispatcher.PublishToUser(userID, event.NotificationNew{Notification: notification})
	s.log.Debug("Notification stored and pushed",
		"user_id", userID,
		"type", notificationType,
		"delivered", result.Delivered,
		"failed", result.Failed)

	return notification, nil
}

// FanOutToRoomMembers resolves the room's membership down to distinct
// identities and creates one durable record per identity, minus an
// optional excluded user (typically the actor). The first commit
// failure aborts the fan-out; records committed before it stay valid.
func (s *OutboxService) FanOutToRoomMembers(ctx context.Context, key domain.RoomKey,
	title, body, notificationType string, excludeUserID string) ([]domain.Notification, error) {
	recipients := lo.Filter(s.registry.UsersInRoom(key), func(userID string, _ int) bool {
		return userID != excludeUserID
	})

	notifications := make([]domain.Notification, 0, len(recipients))
	for _, userID := range recipients {
		notification, err := s.CreateAndDeliver(ctx, userID, title, body, notificationType, nil)
		if err != nil {
			return notifications, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, nil
}

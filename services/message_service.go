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
	"collab-hub/repositories"
)

type IMessageService interface {
	PostMessage(ctx context.Context, cmd domain.PostMessageCommand) (domain.Message, error)
	UpdateMessage(ctx context.Context, cmd domain.UpdateMessageCommand) (domain.Message, error)
	DeleteMessage(ctx context.Context, cmd domain.DeleteMessageCommand) error
	GetMessages(cmd domain.GetMessagesCommand) ([]domain.Message, *string, error)
}

// MessageService is the domain handler for channel messages. Every
// mutation follows the same ordering: commit to the datastore first,
// publish to the room only after the commit reported success. A rolled
// back mutation never triggers a publish, so no client can observe a
// live event for an entity a concurrent read cannot yet find.
type MessageService struct {
	log        *slog.Logger
	repository repositories.IMessageRepository
	dispatcher contract.IDispatcher
}

func NewMessageService(log *slog.Logger, repository repositories.IMessageRepository,
	dispatcher contract.IDispatcher) *MessageService {
	return &MessageService{log: log, repository: repository, dispatcher: dispatcher}
}

func (s *MessageService) PostMessage(_ context.Context, cmd domain.PostMessageCommand) (domain.Message, error) {
	createdAt := cmd.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	message := domain.Message{
		ID:        uuid.New(),
		ChannelID: cmd.ChannelID,
		SenderID:  cmd.SenderID,
		Content:   cmd.Content,
		CreatedAt: createdAt,
	}

	if err := s.repository.StoreMessage(message); err != nil {
		return domain.Message{}, err
	}

	result := s.dispatcher.PublishToRoom(domain.ChannelRoom(cmd.ChannelID),
		event.MessageNew{ChannelID: cmd.ChannelID, Message: message}, "")
	s.log.Debug("Message committed and broadcast",
		"channel_id", cmd.ChannelID, "delivered", result.Delivered, "failed", result.Failed)

	return message, nil
}

func (s *MessageService) UpdateMessage(_ context.Context, cmd domain.UpdateMessageCommand) (domain.Message, error) {
	id, err := uuid.Parse(cmd.MessageID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("invalid message id %q: %w", cmd.MessageID, err)
	}

	message, err := s.repository.UpdateContent(cmd.ChannelID, id, cmd.Content)
	if err != nil {
		return domain.Message{}, err
	}

	s.dispatcher.PublishToRoom(domain.ChannelRoom(cmd.ChannelID),
		event.MessageUpdated{ChannelID: cmd.ChannelID, Message: message}, "")
	return message, nil
}

func (s *MessageService) DeleteMessage(_ context.Context, cmd domain.DeleteMessageCommand) error {
	id, err := uuid.Parse(cmd.MessageID)
	if err != nil {
		return fmt.Errorf("invalid message id %q: %w", cmd.MessageID, err)
	}

	if err := s.repository.DeleteMessage(cmd.ChannelID, id); err != nil {
		return err
	}

	s.dispatcher.PublishToRoom(domain.ChannelRoom(cmd.ChannelID),
		event.MessageDeleted{ChannelID: cmd.ChannelID, MessageID: id}, "")
	return nil
}

func (s *MessageService) GetMessages(cmd domain.GetMessagesCommand) ([]domain.Message, *string, error) {
	return s.repository.GetMessages(cmd.ChannelID, cmd.Cursor)
}

package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"collab-hub/domain"
	"collab-hub/errors"
)

func message(channelID int64, sender string, at time.Time) domain.Message {
	return domain.Message{
		ID:        uuid.New(),
		ChannelID: channelID,
		SenderID:  sender,
		Content:   "this message will self destruct in 5 seconds",
		CreatedAt: at,
	}
}

func TestMessageRepository_Store_And_Get_Sorted(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()

	first := message(1, "alice", at)
	second := message(1, "bob", at.Add(1*time.Minute))
	third := message(1, "carol", at.Add(2*time.Minute))
	for _, m := range []domain.Message{first, second, third} {
		req.NoError(repository.StoreMessage(m))
	}

	// When fetching the channel history
	fetched, _, err := repository.GetMessages(1, nil)
	req.NoError(err)

	// Then messages come back newest first
	req.Equal([]domain.Message{third, second, first}, fetched)
}

func TestMessageRepository_Get_Scoped_To_Channel(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()

	req.NoError(repository.StoreMessage(message(1, "alice", at)))
	req.NoError(repository.StoreMessage(message(2, "bob", at)))

	fetched, _, err := repository.GetMessages(1, nil)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("alice", fetched[0].SenderID)
}

func TestMessageRepository_UpdateContent(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	original := message(1, "alice", time.Now().UTC())
	req.NoError(repository.StoreMessage(original))

	// When editing the message
	updated, err := repository.UpdateContent(1, original.ID, "fixed typo")
	req.NoError(err)

	// Then the rewrite is durable and stamped
	req.Equal("fixed typo", updated.Content)
	req.NotNil(updated.EditedAt)

	fetched, _, err := repository.GetMessages(1, nil)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("fixed typo", fetched[0].Content)
}

func TestMessageRepository_DeleteMessage(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	m := message(1, "alice", time.Now().UTC())
	req.NoError(repository.StoreMessage(m))

	req.NoError(repository.DeleteMessage(1, m.ID))

	fetched, _, err := repository.GetMessages(1, nil)
	req.NoError(err)
	req.Empty(fetched)
}

func TestMessageRepository_Update_Unknown_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	_, err := repository.UpdateContent(1, uuid.New(), "whatever")

	req.ErrorIs(err, errors.ErrRecordNotFound)
}

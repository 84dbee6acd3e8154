//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"collab-hub/domain"
	"collab-hub/errors"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	UpdateContent(channelID int64, id uuid.UUID, content string) (domain.Message, error)
	DeleteMessage(channelID int64, id uuid.UUID) error
	GetMessages(channelID int64, cursor *string) ([]domain.Message, *string, error)
}

// MessageRepository persists channel messages in BadgerDB. It backs the
// commit half of the commit-then-publish contract: handlers store here
// first and only broadcast once the transaction reported success.
type MessageRepository struct {
	db    *badger.DB
	log   *slog.Logger
	limit *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limit *int) MessageRepository {
	return MessageRepository{db: db, log: log, limit: limit}
}

// messageKey builds "msg:{channel_id}:{timestamp_padded}:{uuid}".
// The 19-digit zero padding keeps keys chronologically sorted under
// lexicographical iteration; the UUID disambiguates messages posted at
// the same nanosecond.
func messageKey(m domain.Message) string {
	return fmt.Sprintf("msg:%d:%019d:%s", m.ChannelID, m.CreatedAt.UnixNano(), m.ID)
}

func (r MessageRepository) StoreMessage(message domain.Message) error {
	bytes, err := json.Marshal(message)
	if err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(messageKey(message)), bytes)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrDurability, err)
	}
	return nil
}

// UpdateContent rewrites a message in place and stamps the edit time.
func (r MessageRepository) UpdateContent(channelID int64, id uuid.UUID, content string) (domain.Message, error) {
	var updated domain.Message
	err := r.db.Update(func(txn *badger.Txn) error {
		key, value, err := r.findByID(txn, channelID, id)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(value, &updated); err != nil {
			return err
		}
		now := time.Now().UTC()
		updated.Content = content
		updated.EditedAt = &now
		bytes, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		return txn.Set(key, bytes)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return updated, nil
}

func (r MessageRepository) DeleteMessage(channelID int64, id uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key, _, err := r.findByID(txn, channelID, id)
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// GetMessages retrieves a channel's history newest first using a reverse
// prefix scan, stopping at the configured limit and handing back a
// cursor for the next page.
func (r MessageRepository) GetMessages(channelID int64, cursor *string) ([]domain.Message, *string, error) {
	var raw [][]byte
	var lastKey string
	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%d:", channelID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past every possible timestamp, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limit != nil && len(raw) == *r.limit {
				r.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *r.limit))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				raw = append(raw, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages := make([]domain.Message, 0, len(raw))
	for _, b := range raw {
		var m domain.Message
		if err = json.Unmarshal(b, &m); err != nil {
			return nil, nil, err
		}
		messages = append(messages, m)
	}
	return messages, &lastKey, nil
}

func (r MessageRepository) findByID(txn *badger.Txn, channelID int64, id uuid.UUID) ([]byte, []byte, error) {
	prefix := []byte(fmt.Sprintf("msg:%d:", channelID))
	suffix := ":" + id.String()
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		if !strings.HasSuffix(string(item.Key()), suffix) {
			continue
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return nil, nil, err
		}
		return item.KeyCopy(nil), value, nil
	}
	return nil, nil, errors.ErrRecordNotFound
}

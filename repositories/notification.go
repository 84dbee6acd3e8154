//go:generate go run go.uber.org/mock/mockgen -source=notification.go -destination=../mocks/mock_notification_repository.go -package=mocks
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

type INotificationRepository interface {
	Create(notification domain.Notification) error
	ListByUser(userID string, cursor *string) ([]domain.Notification, *string, error)
	MarkRead(userID string, id uuid.UUID) (domain.Notification, error)
	UnreadCount(userID string) (int, error)
}

// NotificationRepository persists notification records in BadgerDB.
// It is the durable side of the outbox contract: a record must commit
// here before any live delivery is attempted, and it alone owns read
// state afterwards.
type NotificationRepository struct {
	db    *badger.DB
	log   *slog.Logger
	limit *int
}

func NewNotificationRepository(db *badger.DB, log *slog.Logger, limit *int) NotificationRepository {
	return NotificationRepository{db: db, log: log, limit: limit}
}

// notificationKey builds "ntf:{user_id}:{timestamp_padded}:{uuid}".
// The 19-digit zero padding keeps keys chronologically sorted under
// lexicographical iteration; the UUID disambiguates records created at
// the same nanosecond.
func notificationKey(n domain.Notification) string {
	return fmt.Sprintf("ntf:%s:%019d:%s", n.UserID, n.CreatedAt.UnixNano(), n.ID)
}

// Create commits one notification record. The returned error is the
// durability signal the outbox keys off: no error, record exists.
func (r NotificationRepository) Create(notification domain.Notification) error {
	bytes, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(notificationKey(notification)), bytes)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrDurability, err)
	}
	return nil
}

// ListByUser retrieves a user's notifications newest first, using a
// reverse prefix scan. The padded timestamp in the key makes the scan
// naturally time ordered. It stops once the configured limit is reached
// and returns an opaque cursor for the next page.
func (r NotificationRepository) ListByUser(userID string, cursor *string) ([]domain.Notification, *string, error) {
	var raw [][]byte
	var lastKey string
	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("ntf:%s:", userID)
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
				r.log.Debug(fmt.Sprintf("Maximum of %d notifications reached", *r.limit))
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

	notifications := make([]domain.Notification, 0, len(raw))
	for _, b := range raw {
		var n domain.Notification
		if err = json.Unmarshal(b, &n); err != nil {
			return nil, nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, &lastKey, nil
}

// MarkRead flips the read flag of one record and stamps the read time.
// The record is located by suffix match on the key since callers only
// hold the notification id, not its creation timestamp.
func (r NotificationRepository) MarkRead(userID string, id uuid.UUID) (domain.Notification, error) {
	var updated domain.Notification
	err := r.db.Update(func(txn *badger.Txn) error {
		key, value, err := r.findByID(txn, userID, id)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(value, &updated); err != nil {
			return err
		}
		if updated.IsRead {
			return nil
		}
		now := time.Now().UTC()
		updated.IsRead = true
		updated.ReadAt = &now
		bytes, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		return txn.Set(key, bytes)
	})
	if err != nil {
		return domain.Notification{}, err
	}
	return updated, nil
}

// UnreadCount counts the records a user has not read yet.
func (r NotificationRepository) UnreadCount(userID string) (int, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("ntf:%s:", userID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var n domain.Notification
				if err := json.Unmarshal(value, &n); err != nil {
					return err
				}
				if !n.IsRead {
					count++
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return count, err
}

func (r NotificationRepository) findByID(txn *badger.Txn, userID string, id uuid.UUID) ([]byte, []byte, error) {
	prefix := []byte(fmt.Sprintf("ntf:%s:", userID))
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

package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"collab-hub/domain"
	"collab-hub/errors"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func notification(userID string, at time.Time, title string) domain.Notification {
	return domain.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      domain.NotificationSystem,
		Title:     title,
		Body:      "body of " + title,
		CreatedAt: at,
	}
}

func TestNotificationRepository_Create_And_List_Newest_First(t *testing.T) {
	req := require.New(t)
	repository := NewNotificationRepository(openTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()

	// Given three notifications committed in chronological order
	oldest := notification("carol", at, "first")
	middle := notification("carol", at.Add(1*time.Minute), "second")
	newest := notification("carol", at.Add(2*time.Minute), "third")
	for _, n := range []domain.Notification{oldest, middle, newest} {
		req.NoError(repository.Create(n))
	}

	// When listing them
	fetched, _, err := repository.ListByUser("carol", nil)
	req.NoError(err)

	// Then they come back newest first, unread, with read state untouched
	req.Len(fetched, 3)
	req.Equal([]string{"third", "second", "first"},
		[]string{fetched[0].Title, fetched[1].Title, fetched[2].Title})
	for _, n := range fetched {
		req.False(n.IsRead)
		req.Nil(n.ReadAt)
	}
}

func TestNotificationRepository_List_Is_Scoped_To_User(t *testing.T) {
	req := require.New(t)
	repository := NewNotificationRepository(openTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()

	req.NoError(repository.Create(notification("carol", at, "for carol")))
	req.NoError(repository.Create(notification("dave", at, "for dave")))

	fetched, _, err := repository.ListByUser("carol", nil)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("for carol", fetched[0].Title)
}

func TestNotificationRepository_List_Limit_And_Cursor(t *testing.T) {
	req := require.New(t)
	limit := 2
	repository := NewNotificationRepository(openTestDB(t), slog.Default(), &limit)
	at := time.Now().UTC()

	for i := 0; i < 5; i++ {
		req.NoError(repository.Create(notification("carol", at.Add(time.Duration(i)*time.Minute), "n")))
	}

	// When paging through with the returned cursor
	first, cursor, err := repository.ListByUser("carol", nil)
	req.NoError(err)
	req.Len(first, 2)
	req.NotNil(cursor)

	second, cursor, err := repository.ListByUser("carol", cursor)
	req.NoError(err)
	req.Len(second, 2)

	third, _, err := repository.ListByUser("carol", cursor)
	req.NoError(err)
	req.Len(third, 1)
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	req := require.New(t)
	repository := NewNotificationRepository(openTestDB(t), slog.Default(), nil)
	n := notification("carol", time.Now().UTC(), "unread")
	req.NoError(repository.Create(n))

	// When marking it read
	updated, err := repository.MarkRead("carol", n.ID)
	req.NoError(err)

	// Then the flip is durable and stamped
	req.True(updated.IsRead)
	req.NotNil(updated.ReadAt)

	fetched, _, err := repository.ListByUser("carol", nil)
	req.NoError(err)
	req.Len(fetched, 1)
	req.True(fetched[0].IsRead)
}

func TestNotificationRepository_MarkRead_Unknown_Record(t *testing.T) {
	req := require.New(t)
	repository := NewNotificationRepository(openTestDB(t), slog.Default(), nil)

	_, err := repository.MarkRead("carol", uuid.New())

	req.ErrorIs(err, errors.ErrRecordNotFound)
}

func TestNotificationRepository_UnreadCount(t *testing.T) {
	req := require.New(t)
	repository := NewNotificationRepository(openTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()

	read := notification("carol", at, "read")
	unread := notification("carol", at.Add(time.Minute), "unread")
	req.NoError(repository.Create(read))
	req.NoError(repository.Create(unread))
	_, err := repository.MarkRead("carol", read.ID)
	req.NoError(err)

	count, err := repository.UnreadCount("carol")
	req.NoError(err)
	req.Equal(1, count)
}

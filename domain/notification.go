package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification types understood by the platform.
const (
	NotificationMessage = "message"
	NotificationTask    = "task"
	NotificationTeam    = "team"
	NotificationMeeting = "meeting"
	NotificationSystem  = "system"
)

// Notification is the durable record behind the outbox. It is persisted
// before any live delivery is attempted and remains the sole source of
// truth for read state: a live push never mutates IsRead.
type Notification struct {
	ID            uuid.UUID  `json:"notification_id"`
	UserID        string     `json:"user_id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Link          *string    `json:"link,omitempty"`
	RelatedEntity *EntityRef `json:"related_entity,omitempty"`
	IsRead        bool       `json:"is_read"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// EntityRef points at the domain entity a notification is about,
// e.g. (task, 123) or (team, 7).
type EntityRef struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

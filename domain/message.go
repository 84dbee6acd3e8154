// Package domain contains core concepts of the fan-out layer.
// This file defines Message records as seen by broadcast consumers.
// Messages are immutable once posted, except for explicit edits.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents a chat message delivered to room members.
type Message struct {
	ID        uuid.UUID  `json:"message_id"`
	ChannelID int64      `json:"channel_id"`
	SenderID  string     `json:"sender_id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
}

package domain

import "time"

// PostMessageCommand carries a new-message intent from a domain handler.
type PostMessageCommand struct {
	ChannelID int64
	SenderID  string
	Content   string
	CreatedAt time.Time
}

// UpdateMessageCommand rewrites the content of an existing message.
type UpdateMessageCommand struct {
	ChannelID int64
	MessageID string
	Content   string
}

// DeleteMessageCommand removes a message from a channel.
type DeleteMessageCommand struct {
	ChannelID int64
	MessageID string
}

// GetMessagesCommand pages through a channel's history, newest first.
type GetMessagesCommand struct {
	ChannelID int64
	Cursor    *string
}

// Package event defines the closed set of events this layer can deliver.
// Each kind carries a strongly typed payload so that publisher/subscriber
// shape mismatches are caught at compile time instead of on the wire.
package event

import (
	"encoding/json"

	"github.com/google/uuid"

	"collab-hub/domain"
)

// Event is the tagged union of everything the dispatcher can deliver.
// Type returns the wire discriminator written into the outbound frame.
type Event interface {
	Type() string
}

// Connected acknowledges a successful admission, sent to that session only.
type Connected struct {
	UserID string `json:"user_id"`
}

func (Connected) Type() string { return "connected" }

// JoinedChannel acknowledges a join_channel request.
type JoinedChannel struct {
	ChannelID int64 `json:"channel_id"`
}

func (JoinedChannel) Type() string { return "joined_channel" }

// JoinedTeam acknowledges a join_team request.
type JoinedTeam struct {
	TeamID int64 `json:"team_id"`
}

func (JoinedTeam) Type() string { return "joined_team" }

// UserTyping is a presence signal fanned out to other channel members,
// never echoed back to the originator.
type UserTyping struct {
	ChannelID int64  `json:"channel_id"`
	UserID    string `json:"user_id"`
}

func (UserTyping) Type() string { return "user_typing" }

// MessageNew announces a freshly committed message to a channel.
type MessageNew struct {
	ChannelID int64          `json:"channel_id"`
	Message   domain.Message `json:"message"`
}

func (MessageNew) Type() string { return "message_received" }

// MessageUpdated announces an edited message to a channel.
type MessageUpdated struct {
	ChannelID int64          `json:"channel_id"`
	Message   domain.Message `json:"message"`
}

func (MessageUpdated) Type() string { return "message_updated" }

// MessageDeleted announces a removed message to a channel.
type MessageDeleted struct {
	ChannelID int64     `json:"channel_id"`
	MessageID uuid.UUID `json:"message_id"`
}

func (MessageDeleted) Type() string { return "message_deleted" }

// TaskUpdated announces a task status change to a team. The task payload
// is owned by the task handler; this layer treats it as opaque.
type TaskUpdated struct {
	TeamID int64           `json:"team_id"`
	Task   json.RawMessage `json:"task"`
}

func (TaskUpdated) Type() string { return "task_updated" }

// TeamMemberJoined announces a new member to a team room.
type TeamMemberJoined struct {
	TeamID int64           `json:"team_id"`
	Member json.RawMessage `json:"member"`
}

func (TeamMemberJoined) Type() string { return "team_member_joined" }

// TeamMemberLeft announces a departed member to a team room.
type TeamMemberLeft struct {
	TeamID int64  `json:"team_id"`
	UserID string `json:"user_id"`
}

func (TeamMemberLeft) Type() string { return "team_member_left" }

// NotificationNew pushes a durable notification record live. The record
// was committed before this event exists; delivery never mutates it.
type NotificationNew struct {
	Notification domain.Notification `json:"notification"`
}

func (NotificationNew) Type() string { return "notification" }

// MeetingStarted announces a meeting to a team room.
type MeetingStarted struct {
	TeamID  int64           `json:"team_id"`
	Meeting json.RawMessage `json:"meeting"`
}

func (MeetingStarted) Type() string { return "meeting_started" }

// Marshal serializes an event into its outbound frame, injecting the
// "type" discriminator next to the payload fields. The dispatcher calls
// this once per publish so every recipient shares the same bytes.
func Marshal(e Event) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	frame := map[string]json.RawMessage{}
	if err := json.Unmarshal(payload, &frame); err != nil {
		return nil, err
	}
	kind, err := json.Marshal(e.Type())
	if err != nil {
		return nil, err
	}
	frame["type"] = kind
	return json.Marshal(frame)
}

// Package domain contains core concepts of the fan-out layer.
// This file defines broadcast scopes (rooms) and their identity.
// No runtime, network, or UI logic should be added here.
package domain

import "fmt"

// RoomKind discriminates the two broadcast scopes of the platform.
type RoomKind string

const (
	RoomChannel RoomKind = "channel"
	RoomTeam    RoomKind = "team"
)

// RoomKey identifies a single broadcast scope, e.g. (channel, 42) or (team, 7).
// Rooms are created lazily on first join and reclaimed once empty.
type RoomKey struct {
	Kind RoomKind
	ID   int64
}

func ChannelRoom(id int64) RoomKey {
	return RoomKey{Kind: RoomChannel, ID: id}
}

func TeamRoom(id int64) RoomKey {
	return RoomKey{Kind: RoomTeam, ID: id}
}

func (k RoomKey) String() string {
	return fmt.Sprintf("%s_%d", k.Kind, k.ID)
}

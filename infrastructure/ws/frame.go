package ws

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// clientFrame is the envelope of every client-initiated frame. The type
// discriminator selects which id field is meaningful.
type clientFrame struct {
	Type      string `json:"type" validate:"required,oneof=join_channel leave_channel join_team leave_team typing post_message"`
	ChannelID int64  `json:"channel_id" validate:"gte=0"`
	TeamID    int64  `json:"team_id" validate:"gte=0"`
	Content   string `json:"content" validate:"required_if=Type post_message"`
}

func decodeClientFrame(raw []byte) (clientFrame, error) {
	var frame clientFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return clientFrame{}, err
	}
	if err := validate.Struct(frame); err != nil {
		return clientFrame{}, err
	}
	return frame, nil
}

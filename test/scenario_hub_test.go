package test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"collab-hub/domain"
)

type clientFrame struct {
	Type      string `json:"type"`
	ChannelID int64  `json:"channel_id,omitempty"`
	TeamID    int64  `json:"team_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

type testHubSuite struct {
	BaseHubSuite
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, &testHubSuite{})
}

func (s *testHubSuite) TestRejectedTokenClosesWithoutFrame() {
	s.DialExpectReject("not-a-jwt")
	s.Require().False(s.Registry.IsUserOnline("anyone"))
}

func (s *testHubSuite) TestJoinAcksComeBackToTheJoiningSessionOnly() {
	alice := s.Dial("alice")
	bob := s.Dial("bob")

	s.Send(alice, clientFrame{Type: "join_channel", ChannelID: 5})
	ack := s.ExpectFrame(alice, "joined_channel")
	s.Require().Equal(int64(5), ack.Int("channel_id"))

	s.Send(alice, clientFrame{Type: "join_team", TeamID: 7})
	ack = s.ExpectFrame(alice, "joined_team")
	s.Require().Equal(int64(7), ack.Int("team_id"))

	// The other connection heard nothing about any of it
	s.ExpectSilence(bob)
}

func (s *testHubSuite) TestTypingReachesTheRoomButNoSessionOfTheSender() {
	aliceTab1 := s.Dial("alice")
	aliceTab2 := s.Dial("alice")
	bob := s.Dial("bob")

	s.Send(aliceTab1, clientFrame{Type: "join_channel", ChannelID: 5})
	s.ExpectFrame(aliceTab1, "joined_channel")
	s.Send(aliceTab2, clientFrame{Type: "join_channel", ChannelID: 5})
	s.ExpectFrame(aliceTab2, "joined_channel")
	s.Send(bob, clientFrame{Type: "join_channel", ChannelID: 5})
	s.ExpectFrame(bob, "joined_channel")

	// When one of alice's tabs starts typing
	s.Send(aliceTab1, clientFrame{Type: "typing", ChannelID: 5})

	// Then bob sees the indicator
	frame := s.ExpectFrame(bob, "user_typing")
	s.Require().Equal("alice", frame.Str("user_id"))
	s.Require().Equal(int64(5), frame.Int("channel_id"))

	// And neither of alice's tabs does, not even the silent one
	s.ExpectSilence(aliceTab1)
	s.ExpectSilence(aliceTab2)
}

func (s *testHubSuite) TestPostMessageBroadcastsThenNotifiesEveryoneElse() {
	alice := s.Dial("alice")
	bob := s.Dial("bob")

	s.Send(alice, clientFrame{Type: "join_channel", ChannelID: 9})
	s.ExpectFrame(alice, "joined_channel")
	s.Send(bob, clientFrame{Type: "join_channel", ChannelID: 9})
	s.ExpectFrame(bob, "joined_channel")

	s.Send(alice, clientFrame{Type: "post_message", ChannelID: 9, Content: "Hello bob"})

	// Both members see the broadcast, sender included
	frame := s.ExpectFrame(bob, "message_received")
	s.Require().Equal(int64(9), frame.Int("channel_id"))
	var message domain.Message
	s.Require().NoError(json.Unmarshal(frame.Fields["message"], &message))
	s.Require().Equal("Hello bob", message.Content)
	s.Require().Equal("alice", message.SenderID)

	s.ExpectFrame(alice, "message_received")

	// Only bob gets a notification, committed before it was pushed
	frame = s.ExpectFrame(bob, "notification")
	var pushed domain.Notification
	s.Require().NoError(json.Unmarshal(frame.Fields["notification"], &pushed))
	s.Require().Equal("bob", pushed.UserID)
	s.Require().Equal(domain.NotificationMessage, pushed.Type)

	stored, _, err := s.Notifications.ListByUser("bob", nil)
	s.Require().NoError(err)
	s.Require().Len(stored, 1)
	s.Require().Equal(pushed.ID, stored[0].ID)
	s.Require().False(stored[0].IsRead)

	// The sender never hears about their own notification
	s.ExpectSilence(alice)
}

func (s *testHubSuite) TestOfflineRecipientStillGetsADurableRecord() {
	// carol has no connection at all
	notification, err := s.Outbox.CreateAndDeliver(
		context.Background(), "carol", "Weekly report", "The report is ready", domain.NotificationSystem, nil)
	s.Require().NoError(err)

	stored, _, err := s.Notifications.ListByUser("carol", nil)
	s.Require().NoError(err)
	s.Require().Len(stored, 1)
	s.Require().False(stored[0].IsRead)

	// When carol reads it later
	read, err := s.Notifications.MarkRead("carol", notification.ID)
	s.Require().NoError(err)
	s.Require().True(read.IsRead)
	s.Require().NotNil(read.ReadAt)
}

func (s *testHubSuite) TestClosedConnectionReleasesTheSession() {
	bob := s.Dial("bob")
	s.Send(bob, clientFrame{Type: "join_channel", ChannelID: 5})
	s.ExpectFrame(bob, "joined_channel")
	s.Require().True(s.Registry.IsUserOnline("bob"))

	s.Require().NoError(bob.Close())

	s.Require().Eventually(func() bool {
		return !s.Registry.IsUserOnline("bob")
	}, 2*time.Second, 20*time.Millisecond, "Session must be released when the socket dies")
}

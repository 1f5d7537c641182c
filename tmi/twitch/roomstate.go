// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package twitch

import (
	"strconv"
	"time"

	"github.com/ergochat/tmi-go/tmi/irc"
)

// FollowersOnly is the followers-only mode of a room. The wire encodes it
// as -1 (disabled), 0 (any follower may speak), or a minimum follow age in
// minutes.
type FollowersOnly struct {
	Enabled bool
	// Limit is the minimum follow age; zero means any follower.
	Limit time.Duration
}

func parseFollowersOnly(value string) (mode FollowersOnly, err error) {
	minutes, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return
	}
	switch {
	case minutes < 0:
		return FollowersOnly{}, nil
	default:
		return FollowersOnly{Enabled: true, Limit: time.Duration(minutes) * time.Minute}, nil
	}
}

// RoomState announces a channel's chat settings, both on join and on any
// later settings change (in which case only the changed tags are present).
type RoomState struct {
	Raw
	Channel string
}

func parseRoomState(msg irc.Message) (Event, error) {
	channel, err := expectParam(&msg, 0, CmdRoomState, "channel")
	if err != nil {
		return nil, err
	}
	if value, present := msg.Tags.Get("followers-only"); present {
		if _, err := parseFollowersOnly(value); err != nil {
			return nil, malformedField(CmdRoomState, "followers-only")
		}
	}
	return &RoomState{Raw: Raw{msg}, Channel: trimChannel(channel)}, nil
}

// EmoteOnly reports whether the room is in emote-only mode.
func (msg *RoomState) EmoteOnly() bool {
	return msg.tagBool("emote-only")
}

// FollowersOnly returns the room's followers-only mode. ok is false when
// the tag is absent from this update.
func (msg *RoomState) FollowersOnly() (mode FollowersOnly, ok bool) {
	value, present := msg.Message.Tags.Get("followers-only")
	if !present {
		return
	}
	mode, err := parseFollowersOnly(value)
	return mode, err == nil
}

// R9K reports whether the room is in unique-messages (r9k) mode.
func (msg *RoomState) R9K() bool {
	return msg.tagBool("r9k")
}

// Slow returns the delay between messages in slow mode, and whether slow
// mode is active.
func (msg *RoomState) Slow() (delay time.Duration, active bool) {
	seconds, ok := msg.tagUint("slow")
	if !ok || seconds == 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

// SubsOnly reports whether the room is in subscribers-only mode.
func (msg *RoomState) SubsOnly() bool {
	return msg.tagBool("subs-only")
}

// RoomID returns the id of the room.
func (msg *RoomState) RoomID() (id uint64, ok bool) {
	return msg.tagUint("room-id")
}

// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package twitch

import (
	"strings"

	"github.com/ergochat/tmi-go/tmi/irc"
)

const ctcpMarker = "\x01"

// Privmsg is a chat message sent by a user to a channel. A `/me` message
// arrives as a CTCP ACTION and is unwrapped here, with Action set.
type Privmsg struct {
	Raw
	Channel string
	Name    string // login of the sender, from the prefix
	Data    string
	Action  bool
}

func parsePrivmsg(msg irc.Message) (Event, error) {
	name, err := expectNick(&msg, CmdPrivmsg)
	if err != nil {
		return nil, err
	}
	channel, err := expectParam(&msg, 0, CmdPrivmsg, "channel")
	if err != nil {
		return nil, err
	}
	data, err := expectParam(&msg, 1, CmdPrivmsg, "message")
	if err != nil {
		return nil, err
	}

	privmsg := &Privmsg{
		Raw:     Raw{msg},
		Channel: trimChannel(channel),
		Name:    name,
	}
	if len(data) >= 2 && strings.HasPrefix(data, ctcpMarker) && strings.HasSuffix(data, ctcpMarker) {
		inner := data[1 : len(data)-1]
		space := strings.IndexByte(inner, ' ')
		if space == -1 {
			return nil, malformedField(CmdPrivmsg, "message")
		}
		privmsg.Action = inner[:space] == "ACTION"
		privmsg.Data = inner[space+1:]
	} else {
		privmsg.Data = data
	}
	return privmsg, nil
}

// BadgeInfo returns metadata for the user's badges; currently only the
// subscriber badge carries it (the exact number of subscribed months).
func (msg *Privmsg) BadgeInfo() []Badge {
	return ParseBadges(msg.tagValue("badge-info"))
}

// Badges returns the badges attached to this message.
func (msg *Privmsg) Badges() []Badge {
	return ParseBadges(msg.tagValue("badges"))
}

// Bits returns how many bits were attached to this message, if any.
func (msg *Privmsg) Bits() (bits uint64, ok bool) {
	return msg.tagUint("bits")
}

// Color returns the color of the user who sent this message, if set.
func (msg *Privmsg) Color() string {
	return msg.tagValue("color")
}

// DisplayName returns the display name of the user, if set. Users can
// change the casing and encoding of their login for display.
func (msg *Privmsg) DisplayName() string {
	return msg.tagValue("display-name")
}

// Emotes returns the emotes attached to this message.
func (msg *Privmsg) Emotes() []Emote {
	return ParseEmotes(msg.tagValue("emotes"))
}

// Flags returns the automod flags attached to this message, marking the
// spans of the text automod found objectionable.
func (msg *Privmsg) Flags() []Flag {
	return ParseFlags(msg.tagValue("flags"))
}

// ID returns the unique id of this message, if present.
func (msg *Privmsg) ID() string {
	return msg.tagValue("id")
}

// MsgID returns the highlight kind of this message, if any (e.g.
// "highlighted-message" for channel-points highlights).
func (msg *Privmsg) MsgID() string {
	return msg.tagValue("msg-id")
}

// CustomRewardID is set on messages redeeming a broadcaster-defined
// community points reward; it looks like a UUID.
func (msg *Privmsg) CustomRewardID() string {
	return msg.tagValue("custom-reward-id")
}

// RoomID returns the id of the room this message was sent to.
func (msg *Privmsg) RoomID() (id uint64, ok bool) {
	return msg.tagUint("room-id")
}

// UserID returns the id of the user who sent this message.
func (msg *Privmsg) UserID() (id uint64, ok bool) {
	return msg.tagUint("user-id")
}

// TmiSentTs returns the timestamp (unix milliseconds) when Twitch
// received this message.
func (msg *Privmsg) TmiSentTs() (ts uint64, ok bool) {
	return msg.tagUint("tmi-sent-ts")
}

// IsBroadcaster reports whether the sender is the channel's broadcaster.
func (msg *Privmsg) IsBroadcaster() bool {
	return anyBadge(msg.Badges(), Badge.IsBroadcaster)
}

// IsModerator reports whether the sender is a moderator.
func (msg *Privmsg) IsModerator() bool {
	return anyBadge(msg.Badges(), Badge.IsModerator)
}

// IsVIP reports whether the sender is a vip.
func (msg *Privmsg) IsVIP() bool {
	return anyBadge(msg.Badges(), Badge.IsVIP)
}

// IsSubscriber reports whether the sender is a subscriber.
func (msg *Privmsg) IsSubscriber() bool {
	return anyBadge(msg.Badges(), Badge.IsSubscriber)
}

// IsStaff reports whether the sender is a staff member.
func (msg *Privmsg) IsStaff() bool {
	return anyBadge(msg.Badges(), Badge.IsStaff)
}

// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package twitch

import (
	"time"

	"github.com/ergochat/tmi-go/tmi/irc"
)

// Notice is a server notice scoped to a channel (or "*" before login
// completes, which yields an empty Channel).
type Notice struct {
	Raw
	Channel string
	Data    string
}

func parseNotice(msg irc.Message) (Event, error) {
	channel, err := expectParam(&msg, 0, CmdNotice, "channel")
	if err != nil {
		return nil, err
	}
	data, err := expectParam(&msg, 1, CmdNotice, "message")
	if err != nil {
		return nil, err
	}
	if channel == "*" {
		channel = ""
	}
	return &Notice{Raw: Raw{msg}, Channel: trimChannel(channel), Data: data}, nil
}

// MsgID returns the machine-readable notice id, e.g. "msg_banned".
func (msg *Notice) MsgID() string {
	return msg.tagValue("msg-id")
}

// ClearChat is a moderation event: either the whole chat was cleared
// (Target empty) or one user was timed out or banned.
type ClearChat struct {
	Raw
	Channel string
	Target  string // login of the banned/timed-out user, if any
}

func parseClearChat(msg irc.Message) (Event, error) {
	channel, err := expectParam(&msg, 0, CmdClearChat, "channel")
	if err != nil {
		return nil, err
	}
	clearChat := &ClearChat{Raw: Raw{msg}, Channel: trimChannel(channel)}
	if len(msg.Params) > 1 {
		clearChat.Target = msg.Params[1]
	}
	return clearChat, nil
}

// BanDuration returns the timeout length. ok is false for a permanent ban
// or a full chat clear, which carry no duration.
func (msg *ClearChat) BanDuration() (duration time.Duration, ok bool) {
	seconds, ok := msg.tagUint("ban-duration")
	return time.Duration(seconds) * time.Second, ok
}

// RoomID returns the id of the room this event happened in.
func (msg *ClearChat) RoomID() (id uint64, ok bool) {
	return msg.tagUint("room-id")
}

// ClearMsg is a single message being deleted from chat.
type ClearMsg struct {
	Raw
	Channel string
	Data    string // text of the deleted message
}

func parseClearMsg(msg irc.Message) (Event, error) {
	channel, err := expectParam(&msg, 0, CmdClearMsg, "channel")
	if err != nil {
		return nil, err
	}
	data, err := expectParam(&msg, 1, CmdClearMsg, "message")
	if err != nil {
		return nil, err
	}
	return &ClearMsg{Raw: Raw{msg}, Channel: trimChannel(channel), Data: data}, nil
}

// Login returns the login of the user whose message was deleted.
func (msg *ClearMsg) Login() string {
	return msg.tagValue("login")
}

// TargetMsgID returns the id of the deleted message.
func (msg *ClearMsg) TargetMsgID() string {
	return msg.tagValue("target-msg-id")
}

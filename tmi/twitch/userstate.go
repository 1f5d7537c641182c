// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package twitch

import (
	"github.com/ergochat/tmi-go/tmi/irc"
)

// UserState announces the connected user's settings and badges within one
// channel, sent on join and after each message the user sends there.
type UserState struct {
	Raw
	Channel string
}

func parseUserState(msg irc.Message) (Event, error) {
	channel, err := expectParam(&msg, 0, CmdUserState, "channel")
	if err != nil {
		return nil, err
	}
	return &UserState{Raw: Raw{msg}, Channel: trimChannel(channel)}, nil
}

// BadgeInfo returns metadata for the user's badges.
func (msg *UserState) BadgeInfo() []Badge {
	return ParseBadges(msg.tagValue("badge-info"))
}

// Badges returns the user's badges in this channel.
func (msg *UserState) Badges() []Badge {
	return ParseBadges(msg.tagValue("badges"))
}

// Color returns the user's chat color, if set.
func (msg *UserState) Color() string {
	return msg.tagValue("color")
}

// DisplayName returns the user's display name, if set.
func (msg *UserState) DisplayName() string {
	return msg.tagValue("display-name")
}

// EmoteSets returns the emote sets available to the user.
func (msg *UserState) EmoteSets() []string {
	return ParseEmoteSets(msg.tagValue("emote-sets"))
}

// IsModerator reports whether the user is a moderator in this channel.
func (msg *UserState) IsModerator() bool {
	return msg.tagBool("mod")
}

// GlobalUserState announces the connected user's global settings after a
// successful login. With the tags capability denied it arrives bare, with
// no tags at all.
type GlobalUserState struct {
	Raw
}

// HasTags reports whether the server attached any tags (it won't have,
// if the tags capability was denied).
func (msg *GlobalUserState) HasTags() bool {
	return len(msg.Message.Tags) != 0
}

// UserID returns the connected user's id.
func (msg *GlobalUserState) UserID() string {
	return msg.tagValue("user-id")
}

// DisplayName returns the connected user's display name, if set.
func (msg *GlobalUserState) DisplayName() string {
	return msg.tagValue("display-name")
}

// Color returns the connected user's chat color, if set.
func (msg *GlobalUserState) Color() string {
	return msg.tagValue("color")
}

// Badges returns the connected user's global badges.
func (msg *GlobalUserState) Badges() []Badge {
	return ParseBadges(msg.tagValue("badges"))
}

// EmoteSets returns the emote sets available to the connected user.
func (msg *GlobalUserState) EmoteSets() []string {
	return ParseEmoteSets(msg.tagValue("emote-sets"))
}

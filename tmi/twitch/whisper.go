// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package twitch

import (
	"github.com/ergochat/tmi-go/tmi/irc"
)

// Whisper is a direct message sent to the connected user. The wire form is
// `:sender WHISPER target :data`; we are always the target, so only the
// sender is retained.
type Whisper struct {
	Raw
	Name string
	Data string
}

func parseWhisper(msg irc.Message) (Event, error) {
	name, err := expectNick(&msg, CmdWhisper)
	if err != nil {
		return nil, err
	}
	data, err := expectParam(&msg, 1, CmdWhisper, "message")
	if err != nil {
		return nil, err
	}
	return &Whisper{Raw: Raw{msg}, Name: name, Data: data}, nil
}

// Badges returns the badges attached to this whisper.
func (msg *Whisper) Badges() []Badge {
	return ParseBadges(msg.tagValue("badges"))
}

// Color returns the color of the sender, if set.
func (msg *Whisper) Color() string {
	return msg.tagValue("color")
}

// DisplayName returns the display name of the sender, if set.
func (msg *Whisper) DisplayName() string {
	return msg.tagValue("display-name")
}

// Emotes returns the emotes attached to this whisper.
func (msg *Whisper) Emotes() []Emote {
	return ParseEmotes(msg.tagValue("emotes"))
}

// UserID returns the id of the sender.
func (msg *Whisper) UserID() (id uint64, ok bool) {
	return msg.tagUint("user-id")
}

// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package twitch

import (
	"strings"

	"github.com/ergochat/tmi-go/tmi/irc"
)

// Join is a user joining a channel. Twitch only sends these when the
// membership capability has been acknowledged.
type Join struct {
	Raw
	Channel string
	Name    string
}

// Part is a user leaving a channel.
type Part struct {
	Raw
	Channel string
	Name    string
}

func parseJoin(msg irc.Message) (Event, error) {
	name, err := expectNick(&msg, CmdJoin)
	if err != nil {
		return nil, err
	}
	channel, err := expectParam(&msg, 0, CmdJoin, "channel")
	if err != nil {
		return nil, err
	}
	return &Join{Raw: Raw{msg}, Channel: trimChannel(channel), Name: name}, nil
}

func parsePart(msg irc.Message) (Event, error) {
	name, err := expectNick(&msg, CmdPart)
	if err != nil {
		return nil, err
	}
	channel, err := expectParam(&msg, 0, CmdPart, "channel")
	if err != nil {
		return nil, err
	}
	return &Part{Raw: Raw{msg}, Channel: trimChannel(channel), Name: name}, nil
}

// CapAck is the server acknowledging requested capabilities.
type CapAck struct {
	Raw
	Caps []string
}

// CapNak is the server denying requested capabilities. A denial is not
// connection-fatal; the runner proceeds with whatever was acknowledged.
type CapNak struct {
	Raw
	Caps []string
}

// `:tmi.twitch.tv CAP * ACK :twitch.tv/tags twitch.tv/commands`
func parseCap(msg irc.Message) (Event, error) {
	subcommand, err := expectParam(&msg, 1, CmdCap, "subcommand")
	if err != nil {
		return nil, err
	}
	capList, err := expectParam(&msg, 2, CmdCap, "capabilities")
	if err != nil {
		return nil, err
	}
	names := strings.Fields(capList)
	switch strings.ToUpper(subcommand) {
	case "ACK":
		return &CapAck{Raw: Raw{msg}, Caps: names}, nil
	case "NAK":
		return &CapNak{Raw: Raw{msg}, Caps: names}, nil
	default:
		// LS, LIST etc. carry no negotiation state we track
		return &Unknown{Raw: Raw{msg}}, nil
	}
}

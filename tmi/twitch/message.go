// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

// Package twitch implements the typed message model: a closed set of event
// variants, each reconstructible from one generic decoded message. The
// conversion is total; anything that doesn't match a known variant, or
// that matches one but is missing required fields, is delivered as an
// Unknown event rather than dropped.
package twitch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ergochat/tmi-go/tmi/irc"
)

// Command verbs of the known variants. Twitch also sends standard IRC
// numerics; those fall through to Unknown.
const (
	CmdPing            = "PING"
	CmdPong            = "PONG"
	CmdJoin            = "JOIN"
	CmdPart            = "PART"
	CmdPrivmsg         = "PRIVMSG"
	CmdWhisper         = "WHISPER"
	CmdNotice          = "NOTICE"
	CmdClearChat       = "CLEARCHAT"
	CmdClearMsg        = "CLEARMSG"
	CmdUserNotice      = "USERNOTICE"
	CmdRoomState       = "ROOMSTATE"
	CmdUserState       = "USERSTATE"
	CmdGlobalUserState = "GLOBALUSERSTATE"
	CmdReconnect       = "RECONNECT"
	CmdCap             = "CAP"
)

// Event is one typed inbound event. The concrete type is always one of the
// variants defined in this package; Unknown is the catch-all, so a type
// switch over the variants with a default case is exhaustive.
type Event interface {
	// IRC returns the generic decoded message this event was built from.
	IRC() irc.Message
}

// Raw is embedded in every event variant and carries the generic decoded
// form. Its text fields alias the single line they were decoded from.
type Raw struct {
	Message irc.Message
}

// IRC returns the generic decoded message this event was built from.
func (raw *Raw) IRC() irc.Message {
	return raw.Message
}

func (raw *Raw) tagValue(name string) string {
	return raw.Message.Tags.Value(name)
}

// tagBool follows the wire convention that boolean tags are "1" or "0".
func (raw *Raw) tagBool(name string) bool {
	return raw.tagValue(name) == "1"
}

func (raw *Raw) tagUint(name string) (value uint64, ok bool) {
	value, err := strconv.ParseUint(raw.tagValue(name), 10, 64)
	return value, err == nil
}

// ConversionError describes why a recognized command failed to convert to
// its typed variant. The offending message is still delivered, as an
// Unknown event carrying this error, so protocol anomalies stay auditable.
type ConversionError struct {
	Command string
	Field   string
	Missing bool // true if the field was absent, false if present but malformed
}

func (e *ConversionError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s is missing required field %s", e.Command, e.Field)
	}
	return fmt.Sprintf("%s has a malformed %s field", e.Command, e.Field)
}

func missingField(command, field string) error {
	return &ConversionError{Command: command, Field: field, Missing: true}
}

func malformedField(command, field string) error {
	return &ConversionError{Command: command, Field: field}
}

func expectParam(msg *irc.Message, i int, command, field string) (string, error) {
	if i >= len(msg.Params) {
		return "", missingField(command, field)
	}
	return msg.Params[i], nil
}

func expectNick(msg *irc.Message, command string) (string, error) {
	if msg.Prefix.Name == "" {
		return "", missingField(command, "prefix")
	}
	return msg.Prefix.Name, nil
}

// channels appear on the wire as "#name"; typed events carry the bare name
func trimChannel(channel string) string {
	return strings.TrimPrefix(channel, "#")
}

// Unknown is the total fallback: any message that matches no specific
// variant, or that matched one but failed conversion. In the latter case
// Err carries the conversion error.
type Unknown struct {
	Raw
	Err error
}

// ParseMessage converts a generic decoded message into its typed variant.
// It is total: for any decoded message it produces either a specific
// variant or an Unknown, never a failure. Conversion has no hidden state;
// converting the same message twice yields structurally equal events.
func ParseMessage(msg irc.Message) Event {
	event, err := parseEvent(msg)
	if err != nil {
		return &Unknown{Raw: Raw{msg}, Err: err}
	}
	return event
}

func parseEvent(msg irc.Message) (Event, error) {
	switch strings.ToUpper(msg.Command) {
	case CmdPing:
		return &Ping{Raw: Raw{msg}, Token: msg.Trailing()}, nil
	case CmdPong:
		return &Pong{Raw: Raw{msg}, Token: msg.Trailing()}, nil
	case CmdJoin:
		return parseJoin(msg)
	case CmdPart:
		return parsePart(msg)
	case CmdPrivmsg:
		return parsePrivmsg(msg)
	case CmdWhisper:
		return parseWhisper(msg)
	case CmdNotice:
		return parseNotice(msg)
	case CmdClearChat:
		return parseClearChat(msg)
	case CmdClearMsg:
		return parseClearMsg(msg)
	case CmdUserNotice:
		return parseUserNotice(msg)
	case CmdRoomState:
		return parseRoomState(msg)
	case CmdUserState:
		return parseUserState(msg)
	case CmdGlobalUserState:
		return &GlobalUserState{Raw: Raw{msg}}, nil
	case CmdReconnect:
		return &Reconnect{Raw: Raw{msg}}, nil
	case CmdCap:
		return parseCap(msg)
	default:
		return &Unknown{Raw: Raw{msg}}, nil
	}
}

// Ping is the server's keepalive probe. The runner answers it on a
// priority write path; it is still delivered like any other event.
type Ping struct {
	Raw
	Token string
}

// Pong is the server's reply to a client-initiated PING.
type Pong struct {
	Raw
	Token string
}

// Reconnect is the server's directive to drop this connection and open a
// new one. Opening the new transport is the caller's responsibility.
type Reconnect struct {
	Raw
}

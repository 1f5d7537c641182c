// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

// Package irc implements the line-oriented wire codec for Twitch's
// IRC-derived chat protocol: IRCv3 message tags, the optional source
// prefix, and the command/parameter grammar with the trailing-parameter
// rule. Decoding is intentionally permissive; anything stricter belongs
// in the typed message layer on top of it.
package irc

import (
	"errors"
	"strings"
)

const (
	// MaxlenTagData is the maximum number of tag bytes in one line,
	// not counting the leading '@' and the trailing space.
	MaxlenTagData = 8191 - 2

	// MaxlenBody is the maximum length of the non-tag portion of a line,
	// including the trailing CRLF. Twitch allows itself substantially
	// more than the classic 512; anything past this indicates that we
	// have lost framing on the byte stream.
	MaxlenBody = 4096
)

var (
	// ErrLineEmpty indicates that the given line was empty.
	ErrLineEmpty = errors.New("line is empty")

	// ErrCommandMissing indicates that a line was invalid because it lacked a command.
	ErrCommandMissing = errors.New("line has no command")

	// ErrLineTooLong indicates that a line exceeded the tag or body length
	// limit. Unlike the other decode errors it is not local to the line:
	// a line this long means the byte stream has desynchronized, and the
	// connection cannot be recovered.
	ErrLineTooLong = errors.New("line exceeded the maximum length")

	// ErrLineContainsBadChar indicates that the line contained invalid characters.
	ErrLineContainsBadChar = errors.New("line contains invalid characters")

	// ErrBadParam indicates that a message could not be serialized because
	// its parameters violated the syntactic constraints on IRC parameters:
	// non-final parameters cannot be empty, contain a space, or start with ':'.
	ErrBadParam = errors.New("non-final parameters cannot be empty, contain a space, or start with ':'")

	// ErrInvalidTagContent indicates that a message could not be serialized
	// because a tag name or value was invalid.
	ErrInvalidTagContent = errors.New("tag name or value is invalid")
)

// Message is the generic decoded form of one wire line: the sole
// interchange type between the decoder and the typed message layer.
// It is immutable once produced by ParseLine.
type Message struct {
	Tags    Tags
	Prefix  Prefix
	Command string
	Params  []string

	forceTrailing bool
	raw           string
}

// ForceTrailing ensures that when the message is serialized, the final
// parameter will be encoded as a "trailing parameter" (preceded by a colon)
// even when that is not syntactically necessary. Twitch requires this for
// keepalive replies.
func (msg *Message) ForceTrailing() {
	msg.forceTrailing = true
}

// Raw returns the original line this message was decoded from, with the
// terminator stripped, or the empty string for a constructed message.
func (msg *Message) Raw() string {
	return msg.raw
}

// Param returns the parameter at index i, or the empty string if the
// message has fewer parameters.
func (msg *Message) Param(i int) string {
	if 0 <= i && i < len(msg.Params) {
		return msg.Params[i]
	}
	return ""
}

// Trailing returns the final parameter, or the empty string if there is none.
func (msg *Message) Trailing() string {
	if len(msg.Params) == 0 {
		return ""
	}
	return msg.Params[len(msg.Params)-1]
}

// CommandIs reports whether the message command matches name,
// case-insensitively. Commands are matched case-insensitively but
// preserved as received.
func (msg *Message) CommandIs(name string) bool {
	return strings.EqualFold(msg.Command, name)
}

// MakeMessage provides a simple way to create a new Message.
func MakeMessage(tags Tags, prefix string, command string, params ...string) (msg Message) {
	msg.Tags = tags
	msg.Prefix = ParsePrefix(prefix)
	msg.Command = command
	msg.Params = params
	return
}

// slice off any amount of ' ' from the front of the string
func trimInitialSpaces(str string) string {
	var i int
	for i = 0; i < len(str) && str[i] == ' '; i++ {
	}
	return str[i:]
}

// ParseLine decodes one protocol line into a Message. The line terminator
// (either \r\n or a bare \n) is stripped if present. Free-form verbs and
// parameters always decode; the only failures are an empty line, a line
// with no command token, and an oversize line.
func ParseLine(line string) (msg Message, err error) {
	// remove either \n or \r\n from the end of the line:
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	if len(line) == 0 {
		return msg, ErrLineEmpty
	}
	if strings.IndexByte(line, '\x00') != -1 || strings.IndexByte(line, '\n') != -1 || strings.IndexByte(line, '\r') != -1 {
		return msg, ErrLineContainsBadChar
	}

	msg.raw = line

	// tags
	if line[0] == '@' {
		tagEnd := strings.IndexByte(line, ' ')
		if tagEnd == -1 {
			return msg, ErrCommandMissing
		}
		tagData := line[1:tagEnd]
		if MaxlenTagData < len(tagData) {
			return msg, ErrLineTooLong
		}
		msg.Tags = parseTags(tagData)
		// skip over the tags and the separating space
		line = line[tagEnd+1:]
	}

	if MaxlenBody-2 < len(line) {
		return msg, ErrLineTooLong
	}

	// modern: "These message parts, and parameters themselves, are separated
	// by one or more ASCII SPACE characters"
	line = trimInitialSpaces(line)

	// source
	if 0 < len(line) && line[0] == ':' {
		sourceEnd := strings.IndexByte(line, ' ')
		if sourceEnd == -1 {
			return msg, ErrCommandMissing
		}
		msg.Prefix = ParsePrefix(line[1:sourceEnd])
		// skip over the source and the separating space
		line = line[sourceEnd+1:]
	}

	line = trimInitialSpaces(line)

	// command: preserved as received, matched case-insensitively by callers
	commandEnd := strings.IndexByte(line, ' ')
	paramStart := commandEnd + 1
	if commandEnd == -1 {
		commandEnd = len(line)
		paramStart = len(line)
	}
	msg.Command = line[:commandEnd]
	if len(msg.Command) == 0 {
		return msg, ErrCommandMissing
	}
	line = line[paramStart:]

	for {
		line = trimInitialSpaces(line)
		if len(line) == 0 {
			break
		}
		// handle trailing
		if line[0] == ':' {
			msg.Params = append(msg.Params, line[1:])
			break
		}
		paramEnd := strings.IndexByte(line, ' ')
		if paramEnd == -1 {
			msg.Params = append(msg.Params, line)
			break
		}
		msg.Params = append(msg.Params, line[:paramEnd])
		line = line[paramEnd+1:]
	}

	return msg, nil
}

func paramRequiresTrailing(param string) bool {
	return len(param) == 0 || strings.IndexByte(param, ' ') != -1 || param[0] == ':'
}

// Line returns a sendable line created from a Message, including the
// trailing CRLF.
func (msg *Message) Line() (result string, err error) {
	bytes, err := msg.LineBytes()
	if err == nil {
		result = string(bytes)
	}
	return
}

// LineBytes returns a sendable line created from a Message, including the
// trailing CRLF.
func (msg *Message) LineBytes() (result []byte, err error) {
	if len(msg.Command) == 0 {
		return nil, ErrCommandMissing
	}

	var buf strings.Builder

	if 0 < len(msg.Tags) {
		buf.WriteByte('@')
		for i, tag := range msg.Tags {
			if !(validateTagName(tag.Name) && validateTagValue(tag.Value)) {
				return nil, ErrInvalidTagContent
			}
			if i != 0 {
				buf.WriteByte(';')
			}
			buf.WriteString(tag.Name)
			// `key=` and bare `key` are distinct wire forms; emit whichever
			// the tag carries
			if !tag.NoValue {
				buf.WriteByte('=')
				buf.WriteString(EscapeTagValue(tag.Value))
			}
		}
		buf.WriteByte(' ')
	}

	if !msg.Prefix.IsEmpty() {
		buf.WriteByte(':')
		buf.WriteString(msg.Prefix.Canonical())
		buf.WriteByte(' ')
	}

	buf.WriteString(msg.Command)

	for i, param := range msg.Params {
		buf.WriteByte(' ')
		lastParam := i == len(msg.Params)-1
		requiresTrailing := paramRequiresTrailing(param)
		if requiresTrailing && !lastParam {
			return nil, ErrBadParam
		}
		if (requiresTrailing || msg.forceTrailing) && lastParam {
			buf.WriteByte(':')
		}
		buf.WriteString(param)
	}

	buf.WriteString("\r\n")

	line := buf.String()
	toValidate := line[:len(line)-2]
	if strings.IndexByte(toValidate, '\x00') != -1 || strings.IndexByte(toValidate, '\r') != -1 || strings.IndexByte(toValidate, '\n') != -1 {
		return nil, ErrLineContainsBadChar
	}
	return []byte(line), nil
}

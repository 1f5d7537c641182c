// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package irc

import (
	"strings"
	"unicode/utf8"
)

var (
	// valtoescape replaces real characters with message tag escapes.
	valtoescape = strings.NewReplacer("\\", "\\\\", ";", "\\:", " ", "\\s", "\r", "\\r", "\n", "\\n")

	escapedCharLookupTable [256]byte
)

func init() {
	// most chars escape to themselves
	for i := 0; i < 256; i += 1 {
		escapedCharLookupTable[i] = byte(i)
	}
	// these are the exceptions
	escapedCharLookupTable[':'] = ';'
	escapedCharLookupTable['s'] = ' '
	escapedCharLookupTable['r'] = '\r'
	escapedCharLookupTable['n'] = '\n'
}

// Tag is a single message tag, in wire order within its Tags block.
// A tag that appeared as a bare key (no '=') has NoValue set; a tag that
// appeared as `key=` has NoValue unset and Value == "". The distinction
// is preserved so that re-encoding a parsed tag block reproduces it.
type Tag struct {
	Name    string
	Value   string
	NoValue bool
}

// Tags is the ordered tag block of a message; order matches the wire.
// The zero value is a message with no tags.
type Tags []Tag

// Get returns whether a tag is present, and if so, what its value is.
func (tags Tags) Get(name string) (value string, present bool) {
	for i := range tags {
		if tags[i].Name == name {
			return tags[i].Value, true
		}
	}
	return
}

// Has returns whether a tag is present.
func (tags Tags) Has(name string) bool {
	_, present := tags.Get(name)
	return present
}

// Value returns the value of a tag, or the empty string if it is absent.
func (tags Tags) Value(name string) string {
	value, _ := tags.Get(name)
	return value
}

// EscapeTagValue takes a value, and returns an escaped message tag value.
//
// This function is automatically used when lines are created from a
// Message, so you don't need to call it yourself before creating a line.
func EscapeTagValue(inString string) string {
	return valtoescape.Replace(inString)
}

// UnescapeTagValue takes an escaped message tag value, and returns the raw
// value. ok is false if the value ended in an unterminated escape (a lone
// trailing backslash); callers treat such a tag as malformed and drop it.
func UnescapeTagValue(inString string) (result string, ok bool) {
	// buf.Len() == 0 is the fastpath where we have not needed to unescape any chars
	var buf strings.Builder
	remainder := inString
	for {
		backslashPos := strings.IndexByte(remainder, '\\')

		if backslashPos == -1 {
			if buf.Len() == 0 {
				return inString, true
			}
			buf.WriteString(remainder)
			break
		} else if backslashPos == len(remainder)-1 {
			// unterminated escape
			return "", false
		}

		// non-trailing backslash detected; we're now on the slowpath
		// where we modify the string
		if buf.Len() == 0 {
			buf.Grow(len(inString)) // just an optimization
		}
		buf.WriteString(remainder[:backslashPos])
		buf.WriteByte(escapedCharLookupTable[remainder[backslashPos+1]])
		remainder = remainder[backslashPos+2:]
	}

	return buf.String(), true
}

// https://ircv3.net/specs/extensions/message-tags.html#rules-for-naming-message-tags
func validateTagName(name string) bool {
	if len(name) == 0 {
		return false
	}
	if name[0] == '+' {
		name = name[1:]
	}
	if len(name) == 0 {
		return false
	}
	// let's err on the side of leniency here; allow -./ (45-47) in any position
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !(('-' <= c && c <= '/') || ('0' <= c && c <= '9') || ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')) {
			return false
		}
	}
	return true
}

// "Tag values MUST be encoded as UTF8."
func validateTagValue(value string) bool {
	return utf8.ValidString(value)
}

// parseTags parses the interior of a tag block (the text between '@' and
// the first space). Individual malformed tags are dropped; tag syntax is
// the least stable part of the wire format, so a bad tag never fails the
// whole line.
func parseTags(data string) (tags Tags) {
	for 0 < len(data) {
		tagEnd := strings.IndexByte(data, ';')
		endPos := tagEnd
		nextPos := tagEnd + 1
		if tagEnd == -1 {
			endPos = len(data)
			nextPos = len(data)
		}
		tagPair := data[:endPos]
		equalsIndex := strings.IndexByte(tagPair, '=')
		var tagName, tagValue string
		noValue := equalsIndex == -1
		if noValue {
			// tag with no value
			tagName = tagPair
		} else {
			tagName, tagValue = tagPair[:equalsIndex], tagPair[equalsIndex+1:]
		}
		// "Implementations [...] MUST NOT perform any validation that would
		//  reject the message if an invalid tag key name is used."
		if validateTagName(tagName) && validateTagValue(tagValue) {
			if unescaped, ok := UnescapeTagValue(tagValue); ok {
				tags = append(tags, Tag{Name: tagName, Value: unescaped, NoValue: noValue})
			}
		}
		// skip over the tag just processed, plus the delimiting ; if any
		data = data[nextPos:]
	}
	return
}

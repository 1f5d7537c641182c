// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package irc

import (
	"strings"
)

// Prefix holds a parsed name!user@host source ("prefix") of a message.
// The Name member will be either a nickname (in the case of a user-initiated
// message) or a server name (in the case of a server-initiated command or
// numeric); a bare source token is ambiguous between the two, and that
// ambiguity is deliberately preserved here. A message with no source at all
// has the zero Prefix.
type Prefix struct {
	Name string
	User string
	Host string
}

// ParsePrefix parses the source of a message into its constituent parts:
// name (nickname or server name), username, and hostname.
func ParsePrefix(in string) (out Prefix) {
	hostStart := strings.IndexByte(in, '@')
	if hostStart != -1 {
		out.Host = in[hostStart+1:]
		in = in[:hostStart]
	}
	userStart := strings.IndexByte(in, '!')
	if userStart != -1 {
		out.User = in[userStart+1:]
		in = in[:userStart]
	}
	out.Name = in

	return
}

// IsEmpty returns whether the message carried a source at all.
func (prefix *Prefix) IsEmpty() bool {
	return prefix.Name == "" && prefix.User == "" && prefix.Host == ""
}

// Canonical returns the canonical string representation of the prefix,
// without the leading ':'.
func (prefix *Prefix) Canonical() (result string) {
	var out strings.Builder
	out.Grow(len(prefix.Name) + len(prefix.User) + len(prefix.Host) + 2)
	out.WriteString(prefix.Name)
	if len(prefix.User) != 0 {
		out.WriteByte('!')
		out.WriteString(prefix.User)
	}
	if len(prefix.Host) != 0 {
		out.WriteByte('@')
		out.WriteString(prefix.Host)
	}
	return out.String()
}

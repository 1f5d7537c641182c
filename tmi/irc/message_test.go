// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package irc

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseLinePrivmsg(t *testing.T) {
	line := "@badge-info=;color=#FF0000;display-name=Foo :foo!foo@foo.tmi.twitch.tv PRIVMSG #bar :hello world"
	msg, err := ParseLine(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.Command != "PRIVMSG" {
		t.Errorf("bad command: %q", msg.Command)
	}
	expectedPrefix := Prefix{Name: "foo", User: "foo", Host: "foo.tmi.twitch.tv"}
	if msg.Prefix != expectedPrefix {
		t.Errorf("bad prefix: %+v", msg.Prefix)
	}
	if !reflect.DeepEqual(msg.Params, []string{"#bar", "hello world"}) {
		t.Errorf("bad params: %v", msg.Params)
	}
	if msg.Tags.Value("display-name") != "Foo" {
		t.Errorf("bad display-name: %q", msg.Tags.Value("display-name"))
	}
	if value, present := msg.Tags.Get("badge-info"); !present || value != "" {
		t.Errorf("expected badge-info present and empty, got %q (present=%v)", value, present)
	}
	if msg.Raw() != line {
		t.Errorf("raw not retained: %q", msg.Raw())
	}
}

func TestParseLineErrors(t *testing.T) {
	for _, line := range []string{"", "\r\n", "\n"} {
		if _, err := ParseLine(line); err != ErrLineEmpty {
			t.Errorf("ParseLine(%q): expected ErrLineEmpty, got %v", line, err)
		}
	}

	for _, line := range []string{"@tag=value", ":prefix.only", "@tag=value :prefix ", ":prefix  "} {
		if _, err := ParseLine(line); err != ErrCommandMissing {
			t.Errorf("ParseLine(%q): expected ErrCommandMissing, got %v", line, err)
		}
	}

	if _, err := ParseLine("PRIVMSG #chan :embedded\x00null"); err != ErrLineContainsBadChar {
		t.Errorf("expected ErrLineContainsBadChar, got %v", err)
	}
}

func TestParseLineOversize(t *testing.T) {
	long := "PRIVMSG #chan :" + strings.Repeat("a", MaxlenBody)
	if _, err := ParseLine(long); err != ErrLineTooLong {
		t.Errorf("expected ErrLineTooLong for oversize body, got %v", err)
	}

	longTags := "@k=" + strings.Repeat("v", MaxlenTagData) + " PRIVMSG #chan :hi"
	if _, err := ParseLine(longTags); err != ErrLineTooLong {
		t.Errorf("expected ErrLineTooLong for oversize tags, got %v", err)
	}
}

func TestParseLineTrailing(t *testing.T) {
	cases := []struct {
		line   string
		params []string
	}{
		{"PING", nil},
		{"PING :tmi.twitch.tv", []string{"tmi.twitch.tv"}},
		{"JOIN #foo", []string{"#foo"}},
		{"CAP * ACK :twitch.tv/tags twitch.tv/commands", []string{"*", "ACK", "twitch.tv/tags twitch.tv/commands"}},
		{"PRIVMSG #chan :", []string{"#chan", ""}},
		{"PRIVMSG #chan ::)", []string{"#chan", ":)"}},
		{"FOO   a   b   :c  d", []string{"a", "b", "c  d"}},
	}
	for _, c := range cases {
		msg, err := ParseLine(c.line)
		if err != nil {
			t.Errorf("ParseLine(%q): unexpected error %v", c.line, err)
			continue
		}
		if !reflect.DeepEqual(msg.Params, c.params) {
			t.Errorf("ParseLine(%q): expected params %v, got %v", c.line, c.params, msg.Params)
		}
	}
}

func TestParseLinePermissive(t *testing.T) {
	// free-form verbs and numerics decode; strictness lives upstairs
	for _, line := range []string{
		"001 justinfan123 :Welcome, GLHF!",
		"weirdcasing #chan",
		"SOMENEWVERB a b c",
	} {
		if _, err := ParseLine(line); err != nil {
			t.Errorf("ParseLine(%q): unexpected error %v", line, err)
		}
	}
}

func TestParsePrefixForms(t *testing.T) {
	cases := []struct {
		in       string
		expected Prefix
	}{
		{"tmi.twitch.tv", Prefix{Name: "tmi.twitch.tv"}},
		{"nick", Prefix{Name: "nick"}},
		{"nick!user@host", Prefix{Name: "nick", User: "user", Host: "host"}},
		{"nick@host", Prefix{Name: "nick", Host: "host"}},
		{"nick!user", Prefix{Name: "nick", User: "user"}},
	}
	for _, c := range cases {
		if got := ParsePrefix(c.in); got != c.expected {
			t.Errorf("ParsePrefix(%q): expected %+v, got %+v", c.in, c.expected, got)
		}
		canonical := c.expected.Canonical()
		if canonical != c.in {
			t.Errorf("Canonical() of %+v: expected %q, got %q", c.expected, c.in, canonical)
		}
	}
}

func TestLineEncoding(t *testing.T) {
	msg := MakeMessage(nil, "", "PRIVMSG", "#bar", "hello world")
	line, err := msg.Line()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line != "PRIVMSG #bar :hello world\r\n" {
		t.Errorf("bad line: %q", line)
	}

	msg = MakeMessage(nil, "", "PONG", "tmi.twitch.tv")
	msg.ForceTrailing()
	line, err = msg.Line()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line != "PONG :tmi.twitch.tv\r\n" {
		t.Errorf("bad line: %q", line)
	}

	msg = MakeMessage(Tags{{Name: "reply-parent-msg-id", Value: "abc def"}}, "", "PRIVMSG", "#bar", "hi")
	msg.ForceTrailing()
	line, err = msg.Line()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line != "@reply-parent-msg-id=abc\\sdef PRIVMSG #bar :hi\r\n" {
		t.Errorf("bad line: %q", line)
	}

	msg = MakeMessage(nil, "", "PRIVMSG", "has space", "x")
	if _, err = msg.Line(); err != ErrBadParam {
		t.Errorf("expected ErrBadParam, got %v", err)
	}

	msg = MakeMessage(nil, "", "")
	if _, err = msg.Line(); err != ErrCommandMissing {
		t.Errorf("expected ErrCommandMissing, got %v", err)
	}
}

func TestTagBlockRoundTrip(t *testing.T) {
	// decode -> re-encode reproduces the tag block exactly: `key=` keeps
	// its '=', a bare key stays bare, order and escapes are preserved
	line := "@badge-info=;color=#FF0000;turbo;system-msg=hi\\sthere :foo!foo@foo.tmi.twitch.tv PRIVMSG #bar :hello world"
	msg, err := ParseLine(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reEncoded, err := msg.Line()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reEncoded != line+"\r\n" {
		t.Errorf("round trip broke the line: %q", reEncoded)
	}
}

func TestDecodeIsRepeatable(t *testing.T) {
	line := "@badges=broadcaster/1;color=#0D4200 :ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #ronni :Kappa Keepo Kappa"
	first, err1 := ParseLine(line)
	second, err2 := ParseLine(line)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected structurally equal messages, got %+v and %+v", first, second)
	}
}

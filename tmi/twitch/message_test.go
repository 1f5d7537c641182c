// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package twitch

import (
	"reflect"
	"testing"

	"github.com/ergochat/tmi-go/tmi/irc"
)

func mustParse(t *testing.T, line string) irc.Message {
	t.Helper()
	msg, err := irc.ParseLine(line)
	if err != nil {
		t.Fatalf("ParseLine(%q): %v", line, err)
	}
	return msg
}

func TestParseMessageIsTotal(t *testing.T) {
	lines := []string{
		"PING :tmi.twitch.tv",
		":tmi.twitch.tv 001 justinfan123 :Welcome, GLHF!",
		":tmi.twitch.tv HOSTTARGET #chan :other 10",
		"SOMENEWVERB a b :c",
		// recognized command with required fields missing
		"PRIVMSG",
		"@badges=broadcaster/1 PRIVMSG #chan",
	}
	for _, line := range lines {
		event := ParseMessage(mustParse(t, line))
		if event == nil {
			t.Errorf("ParseMessage(%q) returned nil", line)
		}
	}
}

func TestConversionFailureIsObservable(t *testing.T) {
	// PRIVMSG with no prefix: recognized but missing a required field
	event := ParseMessage(mustParse(t, "PRIVMSG #chan :hi"))
	unknown, ok := event.(*Unknown)
	if !ok {
		t.Fatalf("expected *Unknown, got %T", event)
	}
	convErr, ok := unknown.Err.(*ConversionError)
	if !ok {
		t.Fatalf("expected a ConversionError, got %v", unknown.Err)
	}
	if convErr.Command != CmdPrivmsg || convErr.Field != "prefix" || !convErr.Missing {
		t.Errorf("bad conversion error: %+v", convErr)
	}
	// the generic form is retained for auditing
	if unknown.IRC().Command != "PRIVMSG" {
		t.Errorf("generic form not retained: %+v", unknown.IRC())
	}
}

func TestParseMessageIsRepeatable(t *testing.T) {
	msg := mustParse(t, "@badges=moderator/1 :foo!foo@foo.tmi.twitch.tv PRIVMSG #bar :hello")
	first := ParseMessage(msg)
	second := ParseMessage(msg)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected structurally equal events, got %+v and %+v", first, second)
	}
}

func TestPingPong(t *testing.T) {
	event := ParseMessage(mustParse(t, "PING :tmi.twitch.tv"))
	ping, ok := event.(*Ping)
	if !ok {
		t.Fatalf("expected *Ping, got %T", event)
	}
	if ping.Token != "tmi.twitch.tv" {
		t.Errorf("bad token: %q", ping.Token)
	}

	event = ParseMessage(mustParse(t, "PONG tmi.twitch.tv"))
	if _, ok := event.(*Pong); !ok {
		t.Fatalf("expected *Pong, got %T", event)
	}

	// PING with no token is still a Ping
	event = ParseMessage(mustParse(t, "PING"))
	if ping, ok := event.(*Ping); !ok || ping.Token != "" {
		t.Errorf("expected tokenless *Ping, got %#v", event)
	}
}

func TestPrivmsg(t *testing.T) {
	line := "@badge-info=;color=#FF0000;display-name=Foo :foo!foo@foo.tmi.twitch.tv PRIVMSG #bar :hello world"
	event := ParseMessage(mustParse(t, line))
	privmsg, ok := event.(*Privmsg)
	if !ok {
		t.Fatalf("expected *Privmsg, got %T", event)
	}
	if privmsg.Name != "foo" {
		t.Errorf("bad name: %q", privmsg.Name)
	}
	if privmsg.Channel != "bar" {
		t.Errorf("bad channel: %q", privmsg.Channel)
	}
	if privmsg.Data != "hello world" {
		t.Errorf("bad data: %q", privmsg.Data)
	}
	if privmsg.DisplayName() != "Foo" {
		t.Errorf("bad display name: %q", privmsg.DisplayName())
	}
	if privmsg.Action {
		t.Error("not an action")
	}
}

func TestPrivmsgIntegrity(t *testing.T) {
	line := "@badge-info=;badges=global_mod/1,turbo/1;color=#0D4200;display-name=ronni;emotes=25:0-4,12-16/1902:6-10;id=b34ccfc7-4977-403a-8a94-33c6bac34fb8;mod=0;room-id=1337;subscriber=0;tmi-sent-ts=1507246572675;turbo=1;user-id=1337;user-type=global_mod :ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #ronni :Kappa Keepo Kappa"
	event := ParseMessage(mustParse(t, line))
	privmsg, ok := event.(*Privmsg)
	if !ok {
		t.Fatalf("expected *Privmsg, got %T", event)
	}
	if privmsg.Name != "ronni" || privmsg.Channel != "ronni" || privmsg.Data != "Kappa Keepo Kappa" {
		t.Errorf("bad fields: %+v", privmsg)
	}
	expectedBadges := []Badge{{Name: "global_mod", Version: "1"}, {Name: "turbo", Version: "1"}}
	if !reflect.DeepEqual(privmsg.Badges(), expectedBadges) {
		t.Errorf("bad badges: %v", privmsg.Badges())
	}
	expectedEmotes := []Emote{
		{ID: "25", Ranges: []EmoteRange{{0, 4}, {12, 16}}},
		{ID: "1902", Ranges: []EmoteRange{{6, 10}}},
	}
	if !reflect.DeepEqual(privmsg.Emotes(), expectedEmotes) {
		t.Errorf("bad emotes: %v", privmsg.Emotes())
	}
	if privmsg.Color() != "#0D4200" {
		t.Errorf("bad color: %q", privmsg.Color())
	}
	if privmsg.ID() != "b34ccfc7-4977-403a-8a94-33c6bac34fb8" {
		t.Errorf("bad id: %q", privmsg.ID())
	}
	if id, ok := privmsg.RoomID(); !ok || id != 1337 {
		t.Errorf("bad room id: %d (ok=%v)", id, ok)
	}
	if ts, ok := privmsg.TmiSentTs(); !ok || ts != 1507246572675 {
		t.Errorf("bad timestamp: %d (ok=%v)", ts, ok)
	}
	if id, ok := privmsg.UserID(); !ok || id != 1337 {
		t.Errorf("bad user id: %d (ok=%v)", id, ok)
	}
	if privmsg.IsBroadcaster() || !anyBadge(privmsg.Badges(), Badge.IsTurbo) {
		t.Error("bad badge predicates")
	}
}

func TestPrivmsgAction(t *testing.T) {
	event := ParseMessage(mustParse(t, ":test!user@host PRIVMSG #museun :\x01ACTION this is a test\x01"))
	privmsg, ok := event.(*Privmsg)
	if !ok {
		t.Fatalf("expected *Privmsg, got %T", event)
	}
	if !privmsg.Action {
		t.Error("expected an action")
	}
	if privmsg.Data != "this is a test" {
		t.Errorf("bad data: %q", privmsg.Data)
	}

	// unknown CTCP commands are unwrapped but not actions
	event = ParseMessage(mustParse(t, ":test!user@host PRIVMSG #museun :\x01FOOBAR this is a test\x01"))
	privmsg = event.(*Privmsg)
	if privmsg.Action || privmsg.Data != "this is a test" {
		t.Errorf("bad CTCP handling: %+v", privmsg)
	}
}

func TestPrivmsgCommunityRewards(t *testing.T) {
	line := "@custom-reward-id=abc-123-foo;msg-id=highlighted-message :test!user@host PRIVMSG #museun :Notice me!"
	privmsg := ParseMessage(mustParse(t, line)).(*Privmsg)
	if privmsg.CustomRewardID() != "abc-123-foo" {
		t.Errorf("bad custom reward id: %q", privmsg.CustomRewardID())
	}
	if privmsg.MsgID() != "highlighted-message" {
		t.Errorf("bad msg-id: %q", privmsg.MsgID())
	}
}

func TestPrivmsgWithBadTagStillConverts(t *testing.T) {
	// the middle tag has an unterminated escape; it is dropped, the rest
	// of the line decodes and converts normally
	line := "@display-name=Foo;broken=oops\\;color=#FF0000 :foo!foo@foo.tmi.twitch.tv PRIVMSG #bar :hi"
	privmsg, ok := ParseMessage(mustParse(t, line)).(*Privmsg)
	if !ok {
		t.Fatal("expected *Privmsg")
	}
	if privmsg.IRC().Tags.Has("broken") {
		t.Error("expected broken tag to be dropped")
	}
	if privmsg.DisplayName() != "Foo" || privmsg.Color() != "#FF0000" {
		t.Errorf("surrounding tags damaged: %+v", privmsg.IRC().Tags)
	}
}

func TestWhisper(t *testing.T) {
	event := ParseMessage(mustParse(t, ":test!user@host WHISPER museun :this is a test"))
	whisper, ok := event.(*Whisper)
	if !ok {
		t.Fatalf("expected *Whisper, got %T", event)
	}
	if whisper.Name != "test" || whisper.Data != "this is a test" {
		t.Errorf("bad whisper: %+v", whisper)
	}
}

func TestCapAckNak(t *testing.T) {
	event := ParseMessage(mustParse(t, ":tmi.twitch.tv CAP * ACK :twitch.tv/tags twitch.tv/commands"))
	ack, ok := event.(*CapAck)
	if !ok {
		t.Fatalf("expected *CapAck, got %T", event)
	}
	if !reflect.DeepEqual(ack.Caps, []string{"twitch.tv/tags", "twitch.tv/commands"}) {
		t.Errorf("bad caps: %v", ack.Caps)
	}

	event = ParseMessage(mustParse(t, ":tmi.twitch.tv CAP * NAK :twitch.tv/bogus"))
	nak, ok := event.(*CapNak)
	if !ok {
		t.Fatalf("expected *CapNak, got %T", event)
	}
	if !reflect.DeepEqual(nak.Caps, []string{"twitch.tv/bogus"}) {
		t.Errorf("bad caps: %v", nak.Caps)
	}
}

func TestMembership(t *testing.T) {
	join, ok := ParseMessage(mustParse(t, ":ronni!ronni@ronni.tmi.twitch.tv JOIN #dallas")).(*Join)
	if !ok || join.Channel != "dallas" || join.Name != "ronni" {
		t.Errorf("bad join: %#v", join)
	}
	part, ok := ParseMessage(mustParse(t, ":ronni!ronni@ronni.tmi.twitch.tv PART #dallas")).(*Part)
	if !ok || part.Channel != "dallas" || part.Name != "ronni" {
		t.Errorf("bad part: %#v", part)
	}
}

func TestReconnect(t *testing.T) {
	if _, ok := ParseMessage(mustParse(t, ":tmi.twitch.tv RECONNECT")).(*Reconnect); !ok {
		t.Error("expected *Reconnect")
	}
}

// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package twitch

import (
	"testing"
	"time"
)

func TestRoomState(t *testing.T) {
	line := "@emote-only=0;followers-only=0;r9k=1;slow=10;subs-only=0;room-id=1337 :tmi.twitch.tv ROOMSTATE #dallas"
	event := ParseMessage(mustParse(t, line))
	roomState, ok := event.(*RoomState)
	if !ok {
		t.Fatalf("expected *RoomState, got %T", event)
	}
	if roomState.Channel != "dallas" {
		t.Errorf("bad channel: %q", roomState.Channel)
	}
	if roomState.EmoteOnly() {
		t.Error("emote-only should be off")
	}
	if !roomState.R9K() {
		t.Error("r9k should be on")
	}
	if delay, active := roomState.Slow(); !active || delay != 10*time.Second {
		t.Errorf("bad slow mode: %v (active=%v)", delay, active)
	}
	if roomState.SubsOnly() {
		t.Error("subs-only should be off")
	}
	if id, ok := roomState.RoomID(); !ok || id != 1337 {
		t.Errorf("bad room id: %d (ok=%v)", id, ok)
	}
}

func TestRoomStatePartialUpdate(t *testing.T) {
	// settings changes only carry the changed tag
	roomState := ParseMessage(mustParse(t, "@slow=0 :tmi.twitch.tv ROOMSTATE #dallas")).(*RoomState)
	if _, active := roomState.Slow(); active {
		t.Error("slow mode should be off")
	}
	if _, present := roomState.FollowersOnly(); present {
		t.Error("followers-only should be absent from this update")
	}
}

func TestFollowersOnly(t *testing.T) {
	cases := []struct {
		value    string
		expected FollowersOnly
	}{
		{"-1", FollowersOnly{}},
		{"0", FollowersOnly{Enabled: true}},
		{"4", FollowersOnly{Enabled: true, Limit: 4 * time.Minute}},
		{"31415", FollowersOnly{Enabled: true, Limit: 31415 * time.Minute}},
	}
	for _, c := range cases {
		mode, err := parseFollowersOnly(c.value)
		if err != nil || mode != c.expected {
			t.Errorf("parseFollowersOnly(%q): expected %+v, got %+v (err=%v)", c.value, c.expected, mode, err)
		}
	}

	for _, invalid := range []string{"", "!", "invalid"} {
		if _, err := parseFollowersOnly(invalid); err == nil {
			t.Errorf("parseFollowersOnly(%q) should have failed", invalid)
		}
	}
}

func TestRoomStateMalformedFollowersOnly(t *testing.T) {
	event := ParseMessage(mustParse(t, "@followers-only=bogus :tmi.twitch.tv ROOMSTATE #dallas"))
	unknown, ok := event.(*Unknown)
	if !ok {
		t.Fatalf("expected *Unknown, got %T", event)
	}
	convErr, ok := unknown.Err.(*ConversionError)
	if !ok || convErr.Field != "followers-only" || convErr.Missing {
		t.Errorf("bad conversion error: %v", unknown.Err)
	}
}

func TestUserState(t *testing.T) {
	line := "@badge-info=subscriber/8;badges=subscriber/6,premium/1;color=#0000FF;display-name=Museun;emote-sets=0,33,50;mod=1 :tmi.twitch.tv USERSTATE #museun"
	userState, ok := ParseMessage(mustParse(t, line)).(*UserState)
	if !ok {
		t.Fatal("expected *UserState")
	}
	if userState.Channel != "museun" {
		t.Errorf("bad channel: %q", userState.Channel)
	}
	if !userState.IsModerator() {
		t.Error("expected a moderator")
	}
	sets := userState.EmoteSets()
	if len(sets) != 3 || sets[0] != "0" {
		t.Errorf("bad emote sets: %v", sets)
	}
	if info := userState.BadgeInfo(); len(info) != 1 || info[0].Version != "8" {
		t.Errorf("bad badge info: %v", info)
	}
}

func TestGlobalUserState(t *testing.T) {
	line := "@badges=;color=#FF69B4;display-name=Museun;emote-sets=0;user-id=23196011 :tmi.twitch.tv GLOBALUSERSTATE"
	gus, ok := ParseMessage(mustParse(t, line)).(*GlobalUserState)
	if !ok {
		t.Fatal("expected *GlobalUserState")
	}
	if !gus.HasTags() {
		t.Error("expected tags")
	}
	if gus.UserID() != "23196011" || gus.DisplayName() != "Museun" {
		t.Errorf("bad fields: %q %q", gus.UserID(), gus.DisplayName())
	}

	// with the tags capability denied, GLOBALUSERSTATE arrives bare
	bare := ParseMessage(mustParse(t, ":tmi.twitch.tv GLOBALUSERSTATE")).(*GlobalUserState)
	if bare.HasTags() {
		t.Error("expected no tags")
	}
}

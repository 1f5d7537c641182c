// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package twitch

import (
	"reflect"
	"testing"
)

func TestParseBadges(t *testing.T) {
	badges := ParseBadges("broadcaster/1,subscriber/6")
	expected := []Badge{{Name: "broadcaster", Version: "1"}, {Name: "subscriber", Version: "6"}}
	if !reflect.DeepEqual(badges, expected) {
		t.Errorf("bad badges: %v", badges)
	}

	if badges := ParseBadges(""); badges != nil {
		t.Errorf("expected no badges, got %v", badges)
	}

	// malformed entries are skipped without poisoning the rest
	badges = ParseBadges("this_badge_is_invalid,vip/1")
	if !reflect.DeepEqual(badges, []Badge{{Name: "vip", Version: "1"}}) {
		t.Errorf("bad badges: %v", badges)
	}
}

func TestParseEmotesMalformed(t *testing.T) {
	emotes := ParseEmotes("25:0-4,nonsense,12-16/bogus/1902:6-10")
	expected := []Emote{
		{ID: "25", Ranges: []EmoteRange{{0, 4}, {12, 16}}},
		{ID: "1902", Ranges: []EmoteRange{{6, 10}}},
	}
	if !reflect.DeepEqual(emotes, expected) {
		t.Errorf("bad emotes: %v", emotes)
	}
}

// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package caps

import "testing"

func TestSets(t *testing.T) {
	s := NewSet()

	s.Enable(Tags, Commands)

	if !s.Has(Tags) {
		t.Error("Set should have Tags")
	}
	if !s.Has(Tags, Commands) {
		t.Error("Set should have Tags and Commands")
	}
	if s.Has(Tags, Commands, Membership) {
		t.Error("Set should not have Membership")
	}

	s.Disable(Tags)

	if s.Has(Tags) {
		t.Error("Set should not have Tags")
	}
	if s.Count() != 1 {
		t.Errorf("Set should have 1 cap, has %d", s.Count())
	}

	s.Enable(Membership)
	if s.String() != "twitch.tv/commands twitch.tv/membership" {
		t.Errorf("bad cap string: %q", s.String())
	}
}

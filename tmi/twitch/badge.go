// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package twitch

import "strings"

// Badge is one chat badge attached to a message or user, e.g.
// "subscriber/6" or "broadcaster/1". Version is free-form text; for the
// subscriber badge of the badge-info tag it is the exact number of months.
type Badge struct {
	Name    string
	Version string
}

// IsBroadcaster reports whether this is the broadcaster badge.
func (badge Badge) IsBroadcaster() bool { return badge.Name == "broadcaster" }

// IsModerator reports whether this is the moderator badge.
func (badge Badge) IsModerator() bool { return badge.Name == "moderator" }

// IsVIP reports whether this is the vip badge.
func (badge Badge) IsVIP() bool { return badge.Name == "vip" }

// IsSubscriber reports whether this is a subscriber badge, with or
// without a tier prefix.
func (badge Badge) IsSubscriber() bool {
	return badge.Name == "subscriber" || badge.Name == "founder"
}

// IsStaff reports whether this is the staff badge.
func (badge Badge) IsStaff() bool { return badge.Name == "staff" }

// IsTurbo reports whether this is the turbo badge.
func (badge Badge) IsTurbo() bool { return badge.Name == "turbo" }

// IsGlobalMod reports whether this is the global moderator badge.
func (badge Badge) IsGlobalMod() bool { return badge.Name == "global_mod" }

// ParseBadges parses a badges or badge-info tag value: a comma-separated
// list of name/version entries. Malformed entries are skipped; like bad
// tags, a bad badge never poisons the rest of the list.
func ParseBadges(value string) (badges []Badge) {
	if value == "" {
		return
	}
	for _, entry := range strings.Split(value, ",") {
		slash := strings.IndexByte(entry, '/')
		if slash <= 0 {
			continue
		}
		badges = append(badges, Badge{Name: entry[:slash], Version: entry[slash+1:]})
	}
	return
}

func anyBadge(badges []Badge, pred func(Badge) bool) bool {
	for _, badge := range badges {
		if pred(badge) {
			return true
		}
	}
	return false
}

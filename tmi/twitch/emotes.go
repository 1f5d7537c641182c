// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package twitch

import (
	"strconv"
	"strings"
)

// EmoteRange is a character range [Start, End] into the message text
// where one occurrence of an emote appears. The bounds are inclusive,
// as they are on the wire.
type EmoteRange struct {
	Start int
	End   int
}

// Emote is one emote attached to a message, with every range it occupies.
// IDs are opaque text; Twitch has moved from numeric ids to strings like
// "emotesv2_...".
type Emote struct {
	ID     string
	Ranges []EmoteRange
}

// ParseEmotes parses an emotes tag value: `id:a-b,c-d/id2:e-f`. Malformed
// entries and ranges are skipped.
func ParseEmotes(value string) (emotes []Emote) {
	if value == "" {
		return
	}
	for _, entry := range strings.Split(value, "/") {
		colon := strings.IndexByte(entry, ':')
		if colon <= 0 {
			continue
		}
		emote := Emote{ID: entry[:colon]}
		for _, rangeText := range strings.Split(entry[colon+1:], ",") {
			dash := strings.IndexByte(rangeText, '-')
			if dash <= 0 {
				continue
			}
			start, err1 := strconv.Atoi(rangeText[:dash])
			end, err2 := strconv.Atoi(rangeText[dash+1:])
			if err1 != nil || err2 != nil || end < start {
				continue
			}
			emote.Ranges = append(emote.Ranges, EmoteRange{Start: start, End: end})
		}
		if len(emote.Ranges) != 0 {
			emotes = append(emotes, emote)
		}
	}
	return
}

// ParseEmoteSets parses an emote-sets tag value: a comma-separated list of
// emote set ids.
func ParseEmoteSets(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package twitch

import (
	"strconv"
	"strings"
)

// ScoreType classifies a term flagged by automod.
type ScoreType byte

const (
	ScoreAggressive ScoreType = 'A'
	ScoreIdentity   ScoreType = 'I'
	ScoreProfanity  ScoreType = 'P'
	ScoreSexual     ScoreType = 'S'
)

// Score is one automod rating of a flagged term, like A.6 or P.3.
type Score struct {
	Type     ScoreType
	Severity uint8
}

// Flag marks a span of the message text that automod flagged, with the
// scores assigned to it. Link and drug related terms are flagged without
// any score, so Scores may be empty.
type Flag struct {
	Range  EmoteRange
	Scores []Score
}

// ParseFlags parses a flags tag value: `a-b:T.n/T.n,c-d:T.n`, where each
// comma-separated entry is a character range, optionally followed by one
// or more slash-separated scores. Malformed entries are skipped.
func ParseFlags(value string) (flags []Flag) {
	if value == "" {
		return
	}
	for _, entry := range strings.Split(value, ",") {
		rangeText, scoreText, hasScores := strings.Cut(entry, ":")
		dash := strings.IndexByte(rangeText, '-')
		if dash <= 0 {
			continue
		}
		start, err1 := strconv.Atoi(rangeText[:dash])
		end, err2 := strconv.Atoi(rangeText[dash+1:])
		if err1 != nil || err2 != nil || end < start {
			continue
		}
		flag := Flag{Range: EmoteRange{Start: start, End: end}}
		if hasScores {
			for _, scorePart := range strings.Split(scoreText, "/") {
				typeText, severityText, found := strings.Cut(scorePart, ".")
				if !found || len(typeText) != 1 {
					continue
				}
				switch ScoreType(typeText[0]) {
				case ScoreAggressive, ScoreIdentity, ScoreProfanity, ScoreSexual:
				default:
					continue
				}
				severity, err := strconv.ParseUint(severityText, 10, 8)
				if err != nil {
					continue
				}
				flag.Scores = append(flag.Scores, Score{Type: ScoreType(typeText[0]), Severity: uint8(severity)})
			}
		}
		flags = append(flags, flag)
	}
	return
}

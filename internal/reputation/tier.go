// Package reputation maps raw reputation scores onto named tiers.
//
// Tiers follow a logarithmic curve: level = floor(log_B(score/S + 1)).
// B and S are tuned so that roughly 10 points reach the second tier and
// roughly 250 points reach the top tier, with each tier needing a larger
// gap than the one before.
package reputation

import (
	"math"
	"strings"
)

const (
	// LogBase is the growth factor between tier thresholds.
	LogBase = 1.8667452839806598
	// LogScale stretches the curve so the first threshold lands on 10.
	LogScale = 10 / (LogBase - 1)
)

// TierNames lists tier names from the lowest level upwards.
var TierNames = []string{"Recruit", "Regular", "Trusted", "Veteran", "Elite", "Legend"} //nolint:gochecknoglobals // -

// MaxLevel is the highest reachable tier level.
var MaxLevel = len(TierNames) - 1 //nolint:gochecknoglobals // -

// Tier is a discrete reputation bracket.
type Tier struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
}

// Milestone describes a score's position relative to the next tier.
// Next and NextAt are nil once the top tier is reached.
type Milestone struct {
	Current string  `json:"current"`
	Next    *string `json:"next,omitempty"`
	NextAt  *int64  `json:"nextAt,omitempty"`
}

// Remaining returns how many points are still needed for the next tier.
func (m Milestone) Remaining(score int64) int64 {
	if m.NextAt == nil {
		return 0
	}

	return max(0, *m.NextAt-score)
}

// ThresholdFor returns the score required to reach the given level.
func ThresholdFor(level int) int64 {
	level = max(0, level)
	return max(0, int64(math.Round(LogScale*(math.Pow(LogBase, float64(level))-1))))
}

// LevelFor maps a raw score to a tier level in [0, MaxLevel].
func LevelFor(score int64) int {
	if score <= 0 {
		return 0
	}

	level := int(math.Floor(math.Log(float64(score)/LogScale+1) / math.Log(LogBase)))
	level = max(0, min(level, MaxLevel))

	// Float rounding can land one step off right at a boundary; the rounded
	// thresholds are authoritative so the two functions always agree.
	for level < MaxLevel && score >= ThresholdFor(level+1) {
		level++
	}

	for level > 0 && score < ThresholdFor(level) {
		level--
	}

	return level
}

// TierFor returns the tier for a raw score.
func TierFor(score int64) Tier {
	level := LevelFor(score)
	return Tier{Level: level, Name: TierNames[level]}
}

// MilestoneFor returns the current tier name plus the next tier and its threshold.
func MilestoneFor(score int64) Milestone {
	level := LevelFor(score)
	m := Milestone{Current: TierNames[level]}

	if level >= MaxLevel {
		return m
	}

	next := TierNames[level+1]
	nextAt := ThresholdFor(level + 1)
	m.Next = &next
	m.NextAt = &nextAt

	return m
}

// Stars renders up to three stars based on the tier level.
func Stars(score int64) string {
	return strings.Repeat("★", min(3, LevelFor(score)))
}

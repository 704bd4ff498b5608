package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimitsFor(t *testing.T) {
	tests := []struct {
		name  string
		score int64
		want  Limits
	}{
		{name: "very negative", score: -1000, want: Limits{MaxActions: 1, Window: 4 * time.Hour}},
		{name: "negative boundary", score: -30, want: Limits{MaxActions: 1, Window: 4 * time.Hour}},
		{name: "slightly negative", score: -29, want: Limits{MaxActions: 1, Window: time.Hour}},
		{name: "minus two", score: -2, want: Limits{MaxActions: 1, Window: time.Hour}},
		{name: "minus one", score: -1, want: Limits{MaxActions: 5, Window: time.Hour}},
		{name: "zero", score: 0, want: Limits{MaxActions: 5, Window: time.Hour}},
		{name: "nine", score: 9, want: Limits{MaxActions: 5, Window: time.Hour}},
		{name: "ten", score: 10, want: Limits{MaxActions: 15, Window: time.Hour}},
		{name: "twenty five", score: 25, want: Limits{MaxActions: 15, Window: time.Hour}},
		{name: "twenty six", score: 26, want: Limits{MaxActions: 30, Window: time.Hour}},
		{name: "huge", score: 1 << 40, want: Limits{MaxActions: 30, Window: time.Hour}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LimitsFor(tt.score))
		})
	}
}

func TestLimitsForIsMonotonic(t *testing.T) {
	prev := LimitsFor(-500)
	for score := int64(-499); score <= 500; score++ {
		cur := LimitsFor(score)
		rate := float64(cur.MaxActions) / cur.Window.Seconds()
		prevRate := float64(prev.MaxActions) / prev.Window.Seconds()
		assert.GreaterOrEqual(t, rate, prevRate, "score %d", score)
		prev = cur
	}
}

func TestLimitsWindowSeconds(t *testing.T) {
	assert.Equal(t, int64(3600), LimitsFor(0).WindowSeconds())
	assert.Equal(t, int64(14400), LimitsFor(-100).WindowSeconds())
	assert.Equal(t, "5 per 1h0m0s", LimitsFor(0).String())
}

func TestFormatWait(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{seconds: -4, want: "0s"},
		{seconds: 1, want: "1s"},
		{seconds: 59, want: "59s"},
		{seconds: 60, want: "1m 0s"},
		{seconds: 125, want: "2m 5s"},
		{seconds: 3600, want: "1h 0m"},
		{seconds: 3725, want: "1h 2m"},
		{seconds: 4 * 3600, want: "4h 0m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatWait(tt.seconds), "seconds %d", tt.seconds)
	}
}

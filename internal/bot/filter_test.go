package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMentionFilter(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		blocked bool
	}{
		{name: "plain text", text: "enemy armor at the crossroads", blocked: false},
		{name: "empty", text: "", blocked: false},
		{name: "everyone", text: "ping @everyone now", blocked: true},
		{name: "here uppercase", text: "@HERE", blocked: true},
		{name: "user mention", text: "ask <@123456>", blocked: true},
		{name: "role mention", text: "<@&42> rally", blocked: true},
		{name: "channel mention", text: "see <#99>", blocked: true},
		{name: "bare at sign", text: "meet @ the depot", blocked: true},
		{name: "email", text: "fox@example.com", blocked: true},
	}

	var f MentionFilter
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.blocked, f.Check(tt.text))
		})
	}
}

func TestFilterFunc(t *testing.T) {
	f := FilterFunc(func(text string) bool { return text == "bad" })

	assert.True(t, f.Check("bad"))
	assert.False(t, f.Check("good"))
}

func TestWordFilter(t *testing.T) {
	assert.Nil(t, NewWordFilter(nil))
	assert.Nil(t, NewWordFilter([]string{"", "   "}))

	f := NewWordFilter([]string{"Traitor", " spy "})

	assert.True(t, f.Check("that guy is a TRAITOR"))
	assert.True(t, f.Check("trâitor!"))
	assert.True(t, f.Check("possible spy, west gate"))
	assert.False(t, f.Check("spying is fine"))
	assert.False(t, f.Check("need logi at the depot"))
}

package bot

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/doom2286/Foxcom/internal/bot/constants"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/stretchr/testify/assert"
)

func TestIsAdmin(t *testing.T) {
	adminGuild := snowflake.ID(500)
	otherGuild := snowflake.ID(600)
	admin := discord.PermissionAdministrator
	member := discord.PermissionSendMessages

	tests := []struct {
		name     string
		guildID  *snowflake.ID
		perms    *discord.Permissions
		adminID  snowflake.ID
		expected bool
	}{
		{name: "administrator in admin guild", guildID: &adminGuild, perms: &admin, adminID: adminGuild, expected: true},
		{name: "member in admin guild", guildID: &adminGuild, perms: &member, adminID: adminGuild},
		{name: "administrator elsewhere", guildID: &otherGuild, perms: &admin, adminID: adminGuild},
		{name: "direct message", guildID: nil, perms: &admin, adminID: adminGuild},
		{name: "no member", guildID: &adminGuild, perms: nil, adminID: adminGuild},
		{name: "admin guild unset", guildID: &adminGuild, perms: &admin, adminID: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsAdmin(tt.guildID, tt.perms, tt.adminID))
		})
	}
}

func TestBroadcastTag(t *testing.T) {
	assert.Equal(t, "QRF", BroadcastTag(constants.QRFCommandName))
	assert.Equal(t, "LOGI", BroadcastTag(constants.LogiCommandName))
	assert.Equal(t, "BATTLE", BroadcastTag(constants.BattleCommandName))
	assert.Equal(t, "other", BroadcastTag("other"))
}

func TestVoteForEmoji(t *testing.T) {
	v, ok := VoteForEmoji(constants.ThumbsUp)
	assert.True(t, ok)
	assert.Equal(t, types.VoteUp, v)

	v, ok = VoteForEmoji(constants.ThumbsDown)
	assert.True(t, ok)
	assert.Equal(t, types.VoteDown, v)

	_, ok = VoteForEmoji("🦊")
	assert.False(t, ok)
}

func TestCommandDefinitions(t *testing.T) {
	names := func(cmds []discord.ApplicationCommandCreate) []string {
		out := make([]string, 0, len(cmds))
		for _, cmd := range cmds {
			out = append(out, cmd.CommandName())
		}
		return out
	}

	assert.Equal(t, []string{"rep", "toprep", "qrf", "logi", "battle"}, names(GlobalCommands()))
	assert.Equal(t, []string{"setuserrep", "dbstatus", "blockuser", "unblockuser"}, names(AdminCommands()))
}

package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/doom2286/Foxcom/internal/bot/constants"
	"github.com/doom2286/Foxcom/internal/database"
	"github.com/doom2286/Foxcom/internal/setup/config"
	"go.uber.org/zap"
)

// DefaultRequestTimeout bounds the handling of a single interaction or reaction.
const DefaultRequestTimeout = 10 * time.Second

// Bot connects the Discord gateway to the reputation ledger.
type Bot struct {
	db           database.Client
	client       bot.Client
	commands     *Commands
	reactions    *ReactionHandler
	broadcaster  *Broadcaster
	adminGuildID snowflake.ID
	timeout      time.Duration
	logger       *zap.Logger
}

// New creates the bot and its Discord client. The gateway is not opened
// until Start is called. A nil filter falls back to the configured
// blocked word list.
func New(cfg *config.BotConfig, db database.Client, filter ContentFilter, logger *zap.Logger) (*Bot, error) {
	timeout := time.Duration(cfg.RequestTimeout) * time.Millisecond
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	b := &Bot{
		db:           db,
		commands:     NewCommands(db, logger),
		reactions:    NewReactionHandler(db, logger),
		adminGuildID: snowflake.ID(cfg.Discord.AdminGuildID),
		timeout:      timeout,
		logger:       logger.Named("bot"),
	}

	client, err := disgo.New(cfg.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessageReactions,
			),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
			OnGuildMessageReactionAdd:       b.handleReactionAdd,
			OnGuildMessageReactionRemove:    b.handleReactionRemove,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}

	if filter == nil {
		if wf := NewWordFilter(cfg.Discord.BlockedWords); wf != nil {
			filter = wf
		}
	}

	channels := make([]snowflake.ID, 0, len(cfg.Discord.BroadcastChannelIDs))
	for _, id := range cfg.Discord.BroadcastChannelIDs {
		channels = append(channels, snowflake.ID(id))
	}

	b.client = client
	b.broadcaster = NewBroadcaster(db, &restSender{rest: client.Rest()}, channels, filter, logger)

	return b, nil
}

// Start registers commands and opens the gateway connection.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Registering commands")

	if _, err := b.client.Rest().SetGlobalCommands(b.client.ApplicationID(), GlobalCommands()); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	if b.adminGuildID != 0 {
		_, err := b.client.Rest().SetGuildCommands(b.client.ApplicationID(), b.adminGuildID, AdminCommands())
		if err != nil {
			return fmt.Errorf("failed to register admin commands: %w", err)
		}
	}

	b.logger.Info("Starting bot")
	return b.client.OpenGateway(ctx)
}

// Close shuts down the gateway connection.
func (b *Bot) Close() {
	b.logger.Info("Closing bot")
	b.client.Close(context.Background())
}

// handleApplicationCommandInteraction defers the response and processes the
// command in its own goroutine so slow ledger writes never stall the gateway.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	go func() {
		if err := event.DeferCreateMessage(true); err != nil {
			b.logger.Error("Failed to defer create message", zap.Error(err))
			return
		}

		data := event.SlashCommandInteractionData()
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in application command interaction handler", zap.Any("panic", r))
				b.respond(event, textReply(constants.InternalErrorMessage))
			}
			b.logger.Debug("Application command interaction handled",
				zap.String("command", data.CommandName()),
				zap.Duration("duration", time.Since(start)))
		}()

		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()

		reply, err := b.dispatch(ctx, event, data)
		if err != nil {
			b.logger.Error("Command failed",
				zap.String("command", data.CommandName()),
				zap.Uint64("userID", uint64(event.User().ID)),
				zap.Error(err))
			reply = textReply(constants.InternalErrorMessage)
		}

		b.respond(event, reply)
	}()
}

func (b *Bot) dispatch(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) (Reply, error) {
	user := event.User()

	var perms *discord.Permissions
	if member := event.Member(); member != nil {
		perms = &member.Permissions
	}
	admin := IsAdmin(event.GuildID(), perms, b.adminGuildID)

	if !admin {
		blocked, err := b.commands.IsBlocked(ctx, uint64(user.ID))
		if err != nil {
			return Reply{}, err
		}
		if blocked {
			return textReply(constants.BlockedMessage), nil
		}
	}

	switch name := data.CommandName(); name {
	case constants.RepCommandName:
		target := user
		if u, ok := data.OptUser(constants.UserOption); ok {
			target = u
		}
		return b.commands.Rep(ctx, uint64(target.ID), target.EffectiveName())

	case constants.TopRepCommandName:
		limit := DefaultTopRepLimit
		if v, ok := data.OptInt(constants.LimitOption); ok {
			limit = v
		}
		return b.commands.TopRep(ctx, limit)

	case constants.QRFCommandName, constants.LogiCommandName, constants.BattleCommandName:
		guildID := event.GuildID()
		if guildID == nil {
			return textReply(constants.GuildOnlyMessage), nil
		}

		tag := BroadcastTag(name)
		result, err := b.broadcaster.Broadcast(ctx, BroadcastRequest{
			UserID:    uint64(user.ID),
			UserName:  user.EffectiveName(),
			AvatarURL: user.EffectiveAvatarURL(),
			GuildID:   uint64(*guildID),
			Tag:       tag,
			Message:   data.String(constants.MessageOption),
			Admin:     admin,
		})
		if err != nil {
			return Reply{}, err
		}
		return textReply(result.Reply(tag)), nil
	}

	if !admin {
		return textReply(constants.AdminOnlyMessage), nil
	}

	switch data.CommandName() {
	case constants.SetUserRepCommandName:
		target := data.User(constants.UserOption)
		value := int64(data.Int(constants.ValueOption))
		return b.commands.SetUserRep(ctx, user.Username, uint64(target.ID), target.EffectiveName(), value)

	case constants.DBStatusCommandName:
		return b.commands.DBStatus(ctx)

	case constants.BlockUserCommandName:
		target := data.User(constants.UserOption)
		reason, _ := data.OptString(constants.ReasonOption)
		return b.commands.BlockUser(ctx, uint64(user.ID), uint64(target.ID), target.EffectiveName(), reason)

	case constants.UnblockUserCommandName:
		target := data.User(constants.UserOption)
		return b.commands.UnblockUser(ctx, uint64(target.ID), target.EffectiveName())
	}

	return textReply("This command is not available."), nil
}

// respond replaces the deferred "thinking" message with the reply.
func (b *Bot) respond(event *events.ApplicationCommandInteractionCreate, reply Reply) {
	update := discord.NewMessageUpdateBuilder().
		SetContent(reply.Content).
		SetEmbeds(reply.Embeds...).
		Build()

	if _, err := event.Client().Rest().UpdateInteractionResponse(event.ApplicationID(), event.Token(), update); err != nil {
		b.logger.Error("Failed to update interaction response", zap.Error(err))
	}
}

func (b *Bot) handleReactionAdd(event *events.GuildMessageReactionAdd) {
	if event.UserID == event.Client().ID() {
		return
	}

	b.handleReaction(emojiName(event.Emoji), event.MessageID, event.UserID, event.Member.User.EffectiveName(), false)
}

func (b *Bot) handleReactionRemove(event *events.GuildMessageReactionRemove) {
	if event.UserID == event.Client().ID() {
		return
	}

	b.handleReaction(emojiName(event.Emoji), event.MessageID, event.UserID, "", true)
}

func (b *Bot) handleReaction(emoji string, messageID, userID snowflake.ID, userName string, removed bool) {
	if _, ok := VoteForEmoji(emoji); !ok {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()

		_, _ = b.reactions.Handle(ctx, emoji, uint64(messageID), uint64(userID), userName, removed)
	}()
}

func emojiName(emoji discord.PartialEmoji) string {
	if emoji.Name == nil {
		return ""
	}
	return *emoji.Name
}

// IsAdmin reports whether the invoker holds Administrator in the admin guild.
func IsAdmin(guildID *snowflake.ID, perms *discord.Permissions, adminGuildID snowflake.ID) bool {
	if adminGuildID == 0 || guildID == nil || *guildID != adminGuildID || perms == nil {
		return false
	}
	return perms.Has(discord.PermissionAdministrator)
}

// BroadcastTag maps a broadcast command name to its embed title.
func BroadcastTag(command string) string {
	switch command {
	case constants.QRFCommandName:
		return "QRF"
	case constants.LogiCommandName:
		return "LOGI"
	case constants.BattleCommandName:
		return "BATTLE"
	default:
		return command
	}
}

// restSender delivers broadcasts through the Discord REST API.
type restSender struct {
	rest rest.Rest
}

// Send implements Sender.
func (s *restSender) Send(ctx context.Context, channelID snowflake.ID, msg discord.MessageCreate) (snowflake.ID, error) {
	message, err := s.rest.CreateMessage(channelID, msg, rest.WithCtx(ctx))
	if err != nil {
		return 0, err
	}
	return message.ID, nil
}

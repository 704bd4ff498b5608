package constants

const (
	// Commands.
	RepCommandName         = "rep"
	TopRepCommandName      = "toprep"
	QRFCommandName         = "qrf"
	LogiCommandName        = "logi"
	BattleCommandName      = "battle"
	SetUserRepCommandName  = "setuserrep"
	DBStatusCommandName    = "dbstatus"
	BlockUserCommandName   = "blockuser"
	UnblockUserCommandName = "unblockuser"

	// Command options.
	UserOption    = "user"
	MessageOption = "message"
	LimitOption   = "limit"
	ValueOption   = "value"
	ReasonOption  = "reason"

	// Reactions.
	ThumbsUp   = "👍"
	ThumbsDown = "👎"

	// Colors.
	DefaultEmbedColor = 0x5865F2
	GreyEmbedColor    = 0x607D8B
	GreenEmbedColor   = 0x2ECC71
	BlueEmbedColor    = 0x3498DB
	PurpleEmbedColor  = 0x9B59B6
	GoldEmbedColor    = 0xF1C40F

	// Responses.
	BlockedMessage       = "⛔ You are blocked from using FoxCom commands."
	AdminOnlyMessage     = "❌ Admins only in the FoxCom control server."
	GuildOnlyMessage     = "Must be used in a server."
	InternalErrorMessage = "Internal error. Please report this to an administrator."
	MentionsBlocked      = "Mentions are not allowed (no @everyone, @here, roles, user pings, or '@')."
	ContentBlocked       = "This broadcast contains a banned word or phrase and was blocked."
)

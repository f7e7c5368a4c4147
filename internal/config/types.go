package config

// Config holds all configuration for the bot.
type Config struct {
	Discord  DiscordConfig  `json:"discord"`
	Google   GoogleConfig   `json:"google"`
	Bot      BotConfig      `json:"bot"`
	Sync     SyncConfig     `json:"sync"`
	Log      LogConfig      `json:"log"`
	Metrics  MetricsConfig  `json:"metrics"`
	IsLambda bool           `json:"-"`
}

// DiscordConfig holds Discord gateway and guild settings.
type DiscordConfig struct {
	Token       string `json:"-"`
	TokenSecret string `json:"token_secret,omitempty"`
	GuildID     string `json:"guild_id"`
}

// GoogleConfig holds Google Sheets settings.
type GoogleConfig struct {
	SheetID           string `json:"sheet_id"`
	CredentialsFile   string `json:"credentials_file,omitempty"`
	CredentialsSecret string `json:"credentials_secret,omitempty"`
}

// BotConfig holds command and application-workflow settings.
type BotConfig struct {
	CommandPrefix         string `json:"command_prefix"`
	AnnouncementChannelID string `json:"announcement_channel_id,omitempty"`
	ApprovedRoleID        string `json:"approved_role_id,omitempty"`
	PendingRoleID         string `json:"pending_role_id,omitempty"`
}

// SyncConfig holds member-export settings.
type SyncConfig struct {
	DefaultSheet string `json:"default_sheet"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// MetricsConfig holds CloudWatch settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace"`
	Region    string `json:"region,omitempty"`
}

package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from file, environment variables, and defaults.
// A .env file in the working directory is loaded first if present.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("bot.command_prefix", "!")
	v.SetDefault("sync.default_sheet", "Benji")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "BeanBot/Sync")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("discord.token", "DISCORD_TOKEN")
	_ = v.BindEnv("discord.token_secret", "DISCORD_TOKEN_SECRET")
	_ = v.BindEnv("discord.guild_id", "DISCORD_GUILD_ID")
	_ = v.BindEnv("google.sheet_id", "GOOGLE_SHEET_ID")
	_ = v.BindEnv("google.credentials_file", "GOOGLE_CREDENTIALS_FILE")
	_ = v.BindEnv("google.credentials_secret", "GOOGLE_CREDENTIALS_SECRET")
	_ = v.BindEnv("bot.command_prefix", "COMMAND_PREFIX")
	_ = v.BindEnv("bot.announcement_channel_id", "ANNOUNCEMENT_CHANNEL_ID")
	_ = v.BindEnv("bot.approved_role_id", "APPROVED_ROLE_ID")
	_ = v.BindEnv("bot.pending_role_id", "PENDING_ROLE_ID")
	_ = v.BindEnv("sync.default_sheet", "DEFAULT_SHEET")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.format", "LOG_FORMAT")
	_ = v.BindEnv("metrics.enabled", "METRICS_ENABLED")
	_ = v.BindEnv("metrics.namespace", "METRICS_NAMESPACE")
	_ = v.BindEnv("metrics.region", "METRICS_REGION")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// Explicitly map values to avoid tag mismatch issues.
	cfg.Discord.Token = v.GetString("discord.token")
	cfg.Discord.TokenSecret = v.GetString("discord.token_secret")
	cfg.Discord.GuildID = v.GetString("discord.guild_id")

	cfg.Google.SheetID = v.GetString("google.sheet_id")
	cfg.Google.CredentialsFile = v.GetString("google.credentials_file")
	cfg.Google.CredentialsSecret = v.GetString("google.credentials_secret")

	cfg.Bot.CommandPrefix = v.GetString("bot.command_prefix")
	cfg.Bot.AnnouncementChannelID = v.GetString("bot.announcement_channel_id")
	cfg.Bot.ApprovedRoleID = v.GetString("bot.approved_role_id")
	cfg.Bot.PendingRoleID = v.GetString("bot.pending_role_id")

	cfg.Sync.DefaultSheet = v.GetString("sync.default_sheet")

	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	cfg.Metrics.Enabled = v.GetBool("metrics.enabled")
	cfg.Metrics.Namespace = v.GetString("metrics.namespace")
	cfg.Metrics.Region = v.GetString("metrics.region")

	cfg.IsLambda = os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""

	return cfg, nil
}

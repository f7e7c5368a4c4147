package config

import (
	"fmt"
	"strings"
)

// Validate ensures configuration is complete and well-formed.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	var errs []string

	requireNonEmpty := func(value string, field string) {
		if value == "" {
			errs = append(errs, fmt.Sprintf("%s is required", field))
		}
	}

	requireSnowflake := func(value string, field string) {
		if value == "" {
			errs = append(errs, fmt.Sprintf("%s is required", field))
			return
		}
		for _, r := range value {
			if r < '0' || r > '9' {
				errs = append(errs, fmt.Sprintf("%s must be a numeric ID", field))
				return
			}
		}
	}

	requireSnowflake(cfg.Discord.GuildID, "discord.guild_id")
	requireNonEmpty(cfg.Google.SheetID, "google.sheet_id")
	requireNonEmpty(cfg.Sync.DefaultSheet, "sync.default_sheet")

	if cfg.IsLambda {
		requireNonEmpty(cfg.Discord.TokenSecret, "discord.token_secret")
		requireNonEmpty(cfg.Google.CredentialsSecret, "google.credentials_secret")
	} else {
		if cfg.Discord.Token == "" && cfg.Discord.TokenSecret == "" {
			errs = append(errs, "discord.token is required")
		}
		if cfg.Google.CredentialsFile == "" && cfg.Google.CredentialsSecret == "" {
			errs = append(errs, "google.credentials_file is required")
		}
	}

	if cfg.Metrics.Enabled {
		requireNonEmpty(cfg.Metrics.Namespace, "metrics.namespace")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

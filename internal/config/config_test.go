package config

import "testing"

func validConfig() *Config {
	cfg := &Config{}
	cfg.Discord.Token = "token"
	cfg.Discord.GuildID = "123456789"
	cfg.Google.SheetID = "sheet-id"
	cfg.Google.CredentialsFile = "credentials.json"
	cfg.Sync.DefaultSheet = "Benji"
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DISCORD_GUILD_ID", "123456789")
	t.Setenv("GOOGLE_SHEET_ID", "sheet-id")
	t.Setenv("GOOGLE_CREDENTIALS_FILE", "credentials.json")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Sync.DefaultSheet != "Benji" {
		t.Errorf("expected default sheet 'Benji', got %q", cfg.Sync.DefaultSheet)
	}
	if cfg.Bot.CommandPrefix != "!" {
		t.Errorf("expected default prefix '!', got %q", cfg.Bot.CommandPrefix)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log defaults: %q / %q", cfg.Log.Level, cfg.Log.Format)
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics should be disabled by default")
	}
	if cfg.Metrics.Namespace != "BeanBot/Sync" {
		t.Errorf("unexpected metrics namespace %q", cfg.Metrics.Namespace)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DISCORD_GUILD_ID", "123456789")
	t.Setenv("GOOGLE_SHEET_ID", "sheet-id")
	t.Setenv("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	t.Setenv("DEFAULT_SHEET", "Roster")
	t.Setenv("COMMAND_PREFIX", "?")
	t.Setenv("APPROVED_ROLE_ID", "111")
	t.Setenv("PENDING_ROLE_ID", "222")
	t.Setenv("METRICS_ENABLED", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Sync.DefaultSheet != "Roster" {
		t.Errorf("expected sheet 'Roster', got %q", cfg.Sync.DefaultSheet)
	}
	if cfg.Bot.CommandPrefix != "?" {
		t.Errorf("expected prefix '?', got %q", cfg.Bot.CommandPrefix)
	}
	if cfg.Bot.ApprovedRoleID != "111" || cfg.Bot.PendingRoleID != "222" {
		t.Errorf("unexpected role IDs: %q / %q", cfg.Bot.ApprovedRoleID, cfg.Bot.PendingRoleID)
	}
	if !cfg.Metrics.Enabled {
		t.Error("expected metrics enabled")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{"valid", func(cfg *Config) {}, false},
		{"nil guild", func(cfg *Config) { cfg.Discord.GuildID = "" }, true},
		{"non-numeric guild", func(cfg *Config) { cfg.Discord.GuildID = "my-guild" }, true},
		{"missing sheet id", func(cfg *Config) { cfg.Google.SheetID = "" }, true},
		{"missing default sheet", func(cfg *Config) { cfg.Sync.DefaultSheet = "" }, true},
		{"missing token", func(cfg *Config) { cfg.Discord.Token = "" }, true},
		{"token secret instead of token", func(cfg *Config) {
			cfg.Discord.Token = ""
			cfg.Discord.TokenSecret = "arn:secret"
		}, false},
		{"missing credentials", func(cfg *Config) { cfg.Google.CredentialsFile = "" }, true},
		{"credentials secret instead of file", func(cfg *Config) {
			cfg.Google.CredentialsFile = ""
			cfg.Google.CredentialsSecret = "arn:secret"
		}, false},
		{"metrics enabled without namespace", func(cfg *Config) {
			cfg.Metrics.Enabled = true
			cfg.Metrics.Namespace = ""
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := Validate(cfg)
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateLambdaRequiresSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.IsLambda = true
	cfg.Discord.Token = ""
	cfg.Google.CredentialsFile = ""

	if err := Validate(cfg); err == nil {
		t.Fatal("expected error: lambda mode requires secret ARNs")
	}

	cfg.Discord.TokenSecret = "arn:token"
	cfg.Google.CredentialsSecret = "arn:creds"
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateNil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

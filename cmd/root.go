package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dmhcommunity/beanbot/internal/config"
	"github.com/dmhcommunity/beanbot/internal/log"
	"github.com/dmhcommunity/beanbot/internal/models"
)

var (
	cfgFile          string
	flagLogLevel     string
	flagLogFormat    string
	flagGuildID      string
	flagSheetID      string
	flagDiscordToken string
	flagGoogleCreds  string
	flagSheetName    string

	lambdaHandler func(ctx context.Context, event models.LambdaEvent) (*models.LambdaResponse, error)
	runSync       func(ctx context.Context, cfg *config.Config, sheetName string) (*models.SyncResult, error)
	runBot        func(ctx context.Context, cfg *config.Config) error
)

// SetLambdaHandler registers the Lambda handler used in Lambda mode.
func SetLambdaHandler(handler func(ctx context.Context, event models.LambdaEvent) (*models.LambdaResponse, error)) {
	lambdaHandler = handler
}

// SetRunSync registers the one-shot sync runner.
func SetRunSync(handler func(ctx context.Context, cfg *config.Config, sheetName string) (*models.SyncResult, error)) {
	runSync = handler
}

// SetRunBot registers the gateway bot runner.
func SetRunBot(handler func(ctx context.Context, cfg *config.Config) error) {
	runBot = handler
}

var rootCmd = &cobra.Command{
	Use:   "beanbot",
	Short: "Community bot: member roster export to Google Sheets and application approvals",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if runBot == nil {
			return fmt.Errorf("bot runner is not configured")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runBot(ctx, cfg)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Export the guild member roster to the configured Google Sheet once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if runSync == nil {
			return fmt.Errorf("sync engine is not configured")
		}

		sheet := cfg.Sync.DefaultSheet
		if cmd.Flags().Changed("sheet") {
			sheet = flagSheetName
		}

		result, err := runSync(context.Background(), cfg, sheet)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"run_id":      result.RunID,
			"duration_ms": result.DurationMs,
		}).Info(result.String())
		return nil
	},
}

// Execute runs the CLI or Lambda handler depending on environment.
func Execute() {
	if isLambda() {
		if lambdaHandler == nil {
			logrus.Fatal("lambda handler is not configured")
		}
		lambda.Start(lambdaHandler)
		return
	}

	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	overrideConfigFromFlags(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	log.Apply(log.NewLogger(cfg.Log.Level, cfg.Log.Format))
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&flagGuildID, "guild", "", "Discord guild (server) ID")
	rootCmd.PersistentFlags().StringVar(&flagDiscordToken, "discord-token", "", "Discord bot token")
	rootCmd.PersistentFlags().StringVar(&flagSheetID, "sheet-id", "", "Google spreadsheet ID")
	rootCmd.PersistentFlags().StringVar(&flagGoogleCreds, "google-creds", "", "Path to Google service account JSON")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text, json, or pretty")

	syncCmd.Flags().StringVar(&flagSheetName, "sheet", "", "Destination sheet name (defaults to config)")

	rootCmd.AddCommand(syncCmd)
}

func isLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

func overrideConfigFromFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("guild") {
		cfg.Discord.GuildID = flagGuildID
	}
	if cmd.Flags().Changed("discord-token") {
		cfg.Discord.Token = flagDiscordToken
	}
	if cmd.Flags().Changed("sheet-id") {
		cfg.Google.SheetID = flagSheetID
	}
	if cmd.Flags().Changed("google-creds") {
		cfg.Google.CredentialsFile = flagGoogleCreds
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = flagLogFormat
	}
}

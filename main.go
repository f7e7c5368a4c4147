package main

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/dmhcommunity/beanbot/cmd"
	"github.com/dmhcommunity/beanbot/internal/applications"
	"github.com/dmhcommunity/beanbot/internal/bot"
	"github.com/dmhcommunity/beanbot/internal/config"
	"github.com/dmhcommunity/beanbot/internal/discord"
	"github.com/dmhcommunity/beanbot/internal/metrics"
	"github.com/dmhcommunity/beanbot/internal/models"
	"github.com/dmhcommunity/beanbot/internal/secrets"
	"github.com/dmhcommunity/beanbot/internal/sheets"
	syncengine "github.com/dmhcommunity/beanbot/internal/sync"
)

func main() {
	cmd.SetLambdaHandler(HandleRequest)
	cmd.SetRunSync(runSync)
	cmd.SetRunBot(runBot)
	cmd.Execute()
}

// HandleRequest is the AWS Lambda handler. Scheduled EventBridge events
// trigger a one-shot roster export without a gateway connection.
func HandleRequest(ctx context.Context, event models.LambdaEvent) (*models.LambdaResponse, error) {
	if event.Source != "" || event.DetailType != "" {
		if !isScheduledEvent(event) {
			return models.NewErrorResponse(fmt.Errorf("unsupported event source")), nil
		}
	}
	cfg, err := config.Load("")
	if err != nil {
		return models.NewErrorResponse(err), nil
	}
	if err := config.Validate(cfg); err != nil {
		return models.NewErrorResponse(err), nil
	}

	result, err := runSync(ctx, cfg, event.Sheet(cfg.Sync.DefaultSheet))
	if err != nil {
		return models.NewErrorResponse(err), nil
	}

	return models.NewSuccessResponse(result), nil
}

func isScheduledEvent(event models.LambdaEvent) bool {
	return event.Source == "aws.events" && event.DetailType == "Scheduled Event"
}

var runSync = func(ctx context.Context, cfg *config.Config, sheetName string) (*models.SyncResult, error) {
	chatClient, _, err := buildChatClient(cfg)
	if err != nil {
		return nil, err
	}
	sheetsClient, err := buildSheetsClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	engine := syncengine.NewEngine(chatClient, sheetsClient, cfg)
	result, err := engine.Sync(ctx, cfg.Discord.GuildID, sheetName, nil)

	if emitter := buildMetricsEmitter(ctx, cfg); emitter != nil {
		emitted := result
		if emitted == nil {
			emitted = &models.SyncResult{SheetName: sheetName}
		}
		if metricErr := emitter.EmitSync(ctx, emitted, err != nil); metricErr != nil {
			logrus.WithError(metricErr).Warn("metrics emission failed")
		}
	}

	return result, err
}

var runBot = func(ctx context.Context, cfg *config.Config) error {
	chatClient, session, err := buildChatClient(cfg)
	if err != nil {
		return err
	}
	sheetsClient, err := buildSheetsClient(ctx, cfg)
	if err != nil {
		return err
	}
	sheetsClient.LogSpreadsheetInfo(ctx)

	engine := syncengine.NewEngine(chatClient, sheetsClient, cfg)
	apps := applications.NewService(chatClient, cfg)

	b := bot.New(session, chatClient, engine, apps, cfg)
	if emitter := buildMetricsEmitter(ctx, cfg); emitter != nil {
		b.SetMetricsEmitter(emitter)
	}
	return b.Start(ctx)
}

func buildChatClient(cfg *config.Config) (*discord.Client, *discordgo.Session, error) {
	token := cfg.Discord.Token
	if token == "" {
		resolved, err := secrets.ResolveSecretValue(cfg.Discord.TokenSecret, "")
		if err != nil {
			return nil, nil, fmt.Errorf("discord token: %w", err)
		}
		token = resolved
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, nil, err
	}
	client, err := discord.NewClient(session)
	if err != nil {
		return nil, nil, err
	}
	return client, session, nil
}

func buildSheetsClient(ctx context.Context, cfg *config.Config) (*sheets.Client, error) {
	creds, err := secrets.ResolveServiceAccountJSON(cfg.Google.CredentialsSecret, cfg.Google.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("google credentials: %w", err)
	}
	return sheets.NewClient(ctx, creds, cfg.Google.SheetID)
}

func buildMetricsEmitter(ctx context.Context, cfg *config.Config) *metrics.Emitter {
	if !cfg.Metrics.Enabled {
		return nil
	}
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Metrics.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Metrics.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		logrus.WithError(err).Warn("AWS config load failed, metrics disabled")
		return nil
	}
	return metrics.NewEmitter(awsCfg, cfg.Metrics.Namespace)
}

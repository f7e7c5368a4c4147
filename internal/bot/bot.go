package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/dmhcommunity/beanbot/internal/applications"
	"github.com/dmhcommunity/beanbot/internal/config"
	"github.com/dmhcommunity/beanbot/internal/interfaces"
	"github.com/dmhcommunity/beanbot/internal/metrics"
	syncengine "github.com/dmhcommunity/beanbot/internal/sync"
)

// Bot runs the gateway session and routes commands to the sync engine
// and the application workflow.
type Bot struct {
	session *discordgo.Session
	chat    interfaces.ChatClient
	engine  *syncengine.Engine
	apps    *applications.Service
	emitter *metrics.Emitter
	cfg     *config.Config
}

// New creates a bot around an unopened discordgo session.
func New(session *discordgo.Session, chat interfaces.ChatClient, engine *syncengine.Engine, apps *applications.Service, cfg *config.Config) *Bot {
	return &Bot{
		session: session,
		chat:    chat,
		engine:  engine,
		apps:    apps,
		cfg:     cfg,
	}
}

// SetMetricsEmitter enables CloudWatch metrics for command-driven syncs.
func (b *Bot) SetMetricsEmitter(e *metrics.Emitter) {
	b.emitter = e
}

// Start opens the gateway connection and registers handlers. Blocks
// until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildPresences |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening gateway connection: %w", err)
	}
	logrus.Info("gateway connection established")

	<-ctx.Done()
	logrus.Info("shutting down")
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	logrus.WithFields(logrus.Fields{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	}).Info("bot is ready")

	if err := b.registerSlashCommands(s); err != nil {
		logrus.WithError(err).Warn("could not register slash commands")
	}
}

func (b *Bot) registerSlashCommands(s *discordgo.Session) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "approve",
			Description: "Approve a member's application (use in thread)",
		},
		{
			Name:        "reject",
			Description: "Reject a member's application (use in thread)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Optional reason for rejection",
					Required:    false,
				},
			},
		},
	}

	appID := s.State.User.ID
	for _, cmd := range commands {
		if _, err := s.ApplicationCommandCreate(appID, b.cfg.Discord.GuildID, cmd); err != nil {
			return fmt.Errorf("registering /%s: %w", cmd.Name, err)
		}
	}
	logrus.WithField("commands", len(commands)).Info("slash commands registered")
	return nil
}

func (b *Bot) guildName(guildID string) string {
	if guild, err := b.session.State.Guild(guildID); err == nil && guild != nil {
		return guild.Name
	}
	if guild, err := b.session.Guild(guildID); err == nil && guild != nil {
		return guild.Name
	}
	return guildID
}

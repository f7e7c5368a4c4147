package discord

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/dmhcommunity/beanbot/internal/models"
)

const membersPageSize = 1000

type guildAPI interface {
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildMembers(guildID string, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildMemberRoleAdd(guildID string, userID string, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID string, userID string, roleID string, options ...discordgo.RequestOption) error
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Client implements guild operations against the Discord REST API.
type Client struct {
	api      guildAPI
	presence func(guildID string, userID string) models.PresenceStatus
	cached   func(guildID string) []*discordgo.Member
}

// NewClient wraps an established discordgo session. Presence and the
// cached-member fallback come from the session state, which is only
// populated in gateway mode; REST-only callers see offline presences
// and no fallback.
func NewClient(session *discordgo.Session) (*Client, error) {
	if session == nil {
		return nil, fmt.Errorf("discord session is required")
	}
	return &Client{
		api:      session,
		presence: statePresence(session),
		cached:   stateMembers(session),
	}, nil
}

func statePresence(session *discordgo.Session) func(string, string) models.PresenceStatus {
	return func(guildID, userID string) models.PresenceStatus {
		if session.State == nil {
			return models.StatusOffline
		}
		p, err := session.State.Presence(guildID, userID)
		if err != nil || p == nil {
			return models.StatusOffline
		}
		switch p.Status {
		case discordgo.StatusOnline:
			return models.StatusOnline
		case discordgo.StatusIdle:
			return models.StatusIdle
		case discordgo.StatusDoNotDisturb:
			return models.StatusDoNotDisturb
		default:
			return models.StatusOffline
		}
	}
}

func stateMembers(session *discordgo.Session) func(string) []*discordgo.Member {
	return func(guildID string) []*discordgo.Member {
		if session.State == nil {
			return nil
		}
		guild, err := session.State.Guild(guildID)
		if err != nil || guild == nil {
			return nil
		}
		return guild.Members
	}
}

// GuildRoles returns the guild's named roles, excluding the implicit
// everyone role.
func (c *Client) GuildRoles(ctx context.Context, guildID string) ([]models.Role, error) {
	if guildID == "" {
		return nil, fmt.Errorf("guild ID is required")
	}
	raw, err := c.api.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("listing guild roles: %w", err)
	}
	roles := make([]models.Role, 0, len(raw))
	for _, r := range raw {
		if r.Name == models.EveryoneRole {
			continue
		}
		roles = append(roles, models.Role{ID: r.ID, Name: r.Name, Position: r.Position})
	}
	return roles, nil
}

// GuildMembers returns the full member list, paginating the REST
// endpoint. When a page fetch fails, the failure is logged and the
// session's cached members are used instead, if any.
func (c *Client) GuildMembers(ctx context.Context, guildID string) ([]models.Member, error) {
	if guildID == "" {
		return nil, fmt.Errorf("guild ID is required")
	}

	roleIndex, err := c.roleIndex(ctx, guildID)
	if err != nil {
		return nil, err
	}

	var raw []*discordgo.Member
	after := ""
	for {
		page, err := c.api.GuildMembers(guildID, after, membersPageSize, discordgo.WithContext(ctx))
		if err != nil {
			cached := c.cachedMembers(guildID)
			if len(cached) == 0 {
				return nil, fmt.Errorf("listing guild members: %w", err)
			}
			logrus.WithError(err).WithField("cached", len(cached)).Warn("member refresh failed — using cached members")
			raw = cached
			break
		}
		raw = append(raw, page...)
		if len(page) < membersPageSize {
			break
		}
		after = page[len(page)-1].User.ID
	}

	members := make([]models.Member, 0, len(raw))
	for _, m := range raw {
		if m.User == nil {
			continue
		}
		members = append(members, c.mapMember(guildID, m, roleIndex))
	}
	return members, nil
}

// FindMemberByName resolves a member whose username or display name
// matches exactly.
func (c *Client) FindMemberByName(ctx context.Context, guildID string, name string) (*models.Member, error) {
	members, err := c.GuildMembers(ctx, guildID)
	if err != nil {
		return nil, err
	}
	for i := range members {
		if members[i].Username == name || members[i].DisplayName == name {
			return &members[i], nil
		}
	}
	return nil, nil
}

// GuildChannels returns the guild's channels.
func (c *Client) GuildChannels(ctx context.Context, guildID string) ([]models.Channel, error) {
	raw, err := c.api.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("listing guild channels: %w", err)
	}
	channels := make([]models.Channel, 0, len(raw))
	for _, ch := range raw {
		channels = append(channels, models.Channel{
			ID:     ch.ID,
			Name:   ch.Name,
			IsText: ch.Type == discordgo.ChannelTypeGuildText,
		})
	}
	return channels, nil
}

// AddMemberRole assigns a role to a member.
func (c *Client) AddMemberRole(ctx context.Context, guildID string, userID string, roleID string) error {
	return c.api.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx))
}

// RemoveMemberRole removes a role from a member.
func (c *Client) RemoveMemberRole(ctx context.Context, guildID string, userID string, roleID string) error {
	return c.api.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx))
}

// SendDirectMessage delivers a notice to a user's DM channel. Users can
// disable DMs; check IsForbiddenError to distinguish that from other
// failures.
func (c *Client) SendDirectMessage(ctx context.Context, userID string, notice models.Notice) error {
	channel, err := c.api.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("creating DM channel: %w", err)
	}
	_, err = c.api.ChannelMessageSendEmbed(channel.ID, noticeEmbed(notice), discordgo.WithContext(ctx))
	return err
}

// SendChannelMessage delivers a notice to a guild channel or thread.
func (c *Client) SendChannelMessage(ctx context.Context, channelID string, notice models.Notice) error {
	_, err := c.api.ChannelMessageSendEmbed(channelID, noticeEmbed(notice), discordgo.WithContext(ctx))
	return err
}

func (c *Client) roleIndex(ctx context.Context, guildID string) (map[string]models.Role, error) {
	roles, err := c.GuildRoles(ctx, guildID)
	if err != nil {
		return nil, err
	}
	index := make(map[string]models.Role, len(roles))
	for _, r := range roles {
		index[r.ID] = r
	}
	return index, nil
}

func (c *Client) cachedMembers(guildID string) []*discordgo.Member {
	if c.cached == nil {
		return nil
	}
	return c.cached(guildID)
}

func (c *Client) mapMember(guildID string, m *discordgo.Member, roleIndex map[string]models.Role) models.Member {
	u := m.User

	roles := make([]models.Role, 0, len(m.Roles))
	for _, roleID := range m.Roles {
		if role, ok := roleIndex[roleID]; ok {
			roles = append(roles, role)
		}
	}

	display := m.Nick
	if display == "" {
		display = u.GlobalName
	}
	if display == "" {
		display = u.Username
	}

	created, err := discordgo.SnowflakeTimestamp(u.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", u.ID).Debug("could not derive account creation time")
	}

	var joined *time.Time
	if !m.JoinedAt.IsZero() {
		t := m.JoinedAt.UTC()
		joined = &t
	}

	avatar := ""
	if u.Avatar != "" {
		avatar = u.AvatarURL("")
	}

	status := models.StatusOffline
	if c.presence != nil {
		status = c.presence(guildID, u.ID)
	}

	return models.Member{
		ID:            u.ID,
		Username:      u.Username,
		Discriminator: u.Discriminator,
		DisplayName:   display,
		Nickname:      m.Nick,
		Bot:           u.Bot,
		Roles:         roles,
		CreatedAt:     created.UTC(),
		JoinedAt:      joined,
		Status:        status,
		AvatarURL:     avatar,
	}
}

func noticeEmbed(notice models.Notice) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       notice.Title,
		Description: notice.Description,
		Color:       notice.Color,
	}
	for _, f := range notice.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if notice.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: notice.Footer}
	}
	if notice.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: notice.Thumbnail}
	}
	return embed
}

// IsForbiddenError checks whether an error is a Discord 403, e.g. a
// member who has DMs disabled.
func IsForbiddenError(err error) bool {
	restErr, ok := err.(*discordgo.RESTError)
	if !ok || restErr.Response == nil {
		return false
	}
	return restErr.Response.StatusCode == http.StatusForbidden
}

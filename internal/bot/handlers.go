package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/dmhcommunity/beanbot/internal/models"
	syncengine "github.com/dmhcommunity/beanbot/internal/sync"
)

const (
	colorSuccess = 0x00ff00
	colorInfo    = 0x0099ff
	colorDebug   = 0xff9900
)

const debugMemberLimit = 10

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	prefix := b.cfg.Bot.CommandPrefix
	if !strings.HasPrefix(m.Content, prefix) {
		return
	}

	args := strings.Fields(strings.TrimPrefix(m.Content, prefix))
	if len(args) == 0 {
		return
	}

	ctx := context.Background()
	switch args[0] {
	case "syncmembers":
		sheet := b.cfg.Sync.DefaultSheet
		if len(args) > 1 {
			sheet = args[1]
		}
		b.handleSyncMembers(ctx, s, m, sheet)
	case "membercount":
		b.handleMemberCount(ctx, s, m)
	case "listroles":
		b.handleListRoles(ctx, s, m)
	case "debugmembers":
		b.handleDebugMembers(ctx, s, m)
	case "approve":
		b.handleApproveCommand(ctx, s, m, args[1:])
	case "reject":
		b.handleRejectCommand(ctx, s, m, args[1:])
	}
}

func (b *Bot) handleSyncMembers(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, sheet string) {
	if !b.hasPermission(s, m, discordgo.PermissionManageGuild) {
		_, _ = s.ChannelMessageSend(m.ChannelID, "You need 'Manage Server' permission to sync members")
		return
	}

	status, err := s.ChannelMessageSend(m.ChannelID, "Starting member synchronization...")
	if err != nil {
		logrus.WithError(err).Warn("could not send status message")
		return
	}

	edit := func(content string) {
		if _, err := s.ChannelMessageEdit(m.ChannelID, status.ID, content); err != nil {
			logrus.WithError(err).Debug("status edit failed")
		}
	}

	// Each invocation carries its own observer; concurrent syncs edit
	// their own status messages.
	progress := func(phase models.SyncPhase) {
		switch phase {
		case models.PhaseCollecting:
			edit("Collecting member data...")
		case models.PhaseProjecting:
			edit("Preparing rows...")
		case models.PhaseWriting:
			edit(fmt.Sprintf("Writing members to %s sheet...", sheet))
		}
	}

	result, err := b.engine.Sync(ctx, m.GuildID, sheet, progress)
	b.emitMetrics(ctx, result, err)
	if err != nil {
		edit(fmt.Sprintf("Sync failed: %s", err))
		return
	}
	if result.NothingToSync {
		edit("No human members found to sync (only bots in server?)")
		return
	}

	embed := b.syncCompleteEmbed(result, m)
	if _, err := s.ChannelMessageEditEmbed(m.ChannelID, status.ID, embed); err != nil {
		logrus.WithError(err).Warn("could not edit status message with summary")
	}
}

func (b *Bot) syncCompleteEmbed(result *models.SyncResult, m *discordgo.MessageCreate) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Member Sync Complete",
		Color: colorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Members Synced", Value: fmt.Sprintf("%d members", result.MembersSynced), Inline: true},
			{Name: "Role Columns", Value: fmt.Sprintf("%d roles", result.RoleColumns), Inline: true},
			{Name: "Sheet", Value: result.SheetName, Inline: true},
			{Name: "Server", Value: b.guildName(m.GuildID), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Synced by %s", m.Author.Username)},
	}
	if len(result.Roles) > 0 {
		preview := result.Roles
		suffix := ""
		if len(preview) > 5 {
			preview = preview[:5]
			suffix = "..."
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Roles Found",
			Value: strings.Join(preview, ", ") + suffix,
		})
	}
	return embed
}

func (b *Bot) handleMemberCount(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	members, err := b.chat.GuildMembers(ctx, m.GuildID)
	if err != nil {
		_, _ = s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Could not fetch members: %s", err))
		return
	}

	total := len(members)
	bots := 0
	online := 0
	for i := range members {
		if members[i].Bot {
			bots++
			continue
		}
		if members[i].Status.IsOnline() {
			online++
		}
	}

	embed := &discordgo.MessageEmbed{
		Title: "Server Member Statistics",
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total Members", Value: fmt.Sprintf("%d", total), Inline: true},
			{Name: "Human Members", Value: fmt.Sprintf("%d", total-bots), Inline: true},
			{Name: "Online Now", Value: fmt.Sprintf("%d", online), Inline: true},
			{Name: "Bots", Value: fmt.Sprintf("%d", bots), Inline: true},
		},
	}
	_, _ = s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

func (b *Bot) handleListRoles(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	roles, err := b.chat.GuildRoles(ctx, m.GuildID)
	if err != nil {
		_, _ = s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Could not fetch roles: %s", err))
		return
	}
	catalog := syncengine.BuildRoleCatalog(roles)
	if len(catalog) == 0 {
		_, _ = s.ChannelMessageSend(m.ChannelID, "No roles found in this server (excluding @everyone)")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Server Roles for Sheet Columns",
		Description: fmt.Sprintf("Found %d roles that will be created as individual columns:", len(catalog)),
		Color:       colorInfo,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Each role will have its own column with 'Yes' or 'No' values"},
	}
	for start := 0; start < len(catalog); start += 10 {
		end := start + 10
		if end > len(catalog) {
			end = len(catalog)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("Roles %d-%d", start+1, end),
			Value:  "• " + strings.Join(catalog[start:end], "\n• "),
			Inline: true,
		})
	}
	_, _ = s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

func (b *Bot) handleDebugMembers(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	if !b.hasPermission(s, m, discordgo.PermissionManageGuild) {
		_, _ = s.ChannelMessageSend(m.ChannelID, "You need 'Manage Server' permission to debug members")
		return
	}

	members, err := b.chat.GuildMembers(ctx, m.GuildID)
	if err != nil {
		_, _ = s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to fetch members: %s", err))
		return
	}

	bots := 0
	for i := range members {
		if members[i].Bot {
			bots++
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Member Debug Information",
		Description: memberDebugLines(members, debugMemberLimit),
		Color:       colorDebug,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total Members", Value: fmt.Sprintf("%d", len(members)), Inline: true},
			{Name: "Humans", Value: fmt.Sprintf("%d", len(members)-bots), Inline: true},
			{Name: "Bots", Value: fmt.Sprintf("%d", bots), Inline: true},
		},
	}
	_, _ = s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

// memberDebugLines renders the first limit members, one per line, for
// the debug embed.
func memberDebugLines(members []models.Member, limit int) string {
	if len(members) == 0 {
		return "No members visible"
	}

	shown := len(members)
	if shown > limit {
		shown = limit
	}
	lines := make([]string, 0, shown+1)
	for i := 0; i < shown; i++ {
		member := &members[i]
		kind := "Human"
		if member.Bot {
			kind = "Bot"
		}
		status := string(member.Status)
		if status == "" {
			status = string(models.StatusOffline)
		}
		lines = append(lines, fmt.Sprintf("%d. %s (%s) - %s", i+1, member.Tag(), kind, status))
	}
	if len(members) > limit {
		lines = append(lines, fmt.Sprintf("... and %d more members", len(members)-limit))
	}
	return strings.Join(lines, "\n")
}

// handleApproveCommand is the text fallback for /approve:
// "!approve [@member]", or bare "!approve" inside an application thread.
func (b *Bot) handleApproveCommand(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if !b.hasPermission(s, m, discordgo.PermissionManageRoles) {
		_, _ = s.ChannelMessageSend(m.ChannelID, "❌ You don't have permission to manage applications.")
		return
	}

	member, err := b.commandApplicant(ctx, s, m, args)
	if err != nil {
		_, _ = s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("❌ %s", err))
		return
	}

	_, _ = s.ChannelMessageSend(m.ChannelID,
		fmt.Sprintf("Sending Membership approval to <@%s> and announcing them. One moment...", member.ID))

	result, err := b.apps.Approve(ctx, m.GuildID, b.guildName(m.GuildID), member, m.Author.Username)
	if err != nil {
		_, _ = s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Approval failed: %s", err))
		return
	}
	_, _ = s.ChannelMessageSendEmbed(m.ChannelID, decisionEmbed(result, member))
}

// handleRejectCommand is the text fallback for /reject:
// "!reject [@member] [reason...]"; inside a thread the applicant comes
// from the title and every argument is the reason.
func (b *Bot) handleRejectCommand(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if !b.hasPermission(s, m, discordgo.PermissionManageRoles) {
		_, _ = s.ChannelMessageSend(m.ChannelID, "❌ You don't have permission to manage applications.")
		return
	}

	var memberArgs, reasonArgs []string
	if len(args) > 0 {
		if _, ok := parseMention(args[0]); !ok && b.isThreadChannel(s, m.ChannelID) {
			// In a thread the applicant comes from the title, so every
			// argument is reason text.
			reasonArgs = args
		} else {
			memberArgs = args[:1]
			reasonArgs = args[1:]
		}
	}

	member, err := b.commandApplicant(ctx, s, m, memberArgs)
	if err != nil {
		_, _ = s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("❌ %s", err))
		return
	}
	reason := strings.Join(reasonArgs, " ")

	_, _ = s.ChannelMessageSend(m.ChannelID,
		fmt.Sprintf("Sending Membership rejection to <@%s>. One moment...", member.ID))

	result, err := b.apps.Reject(ctx, b.guildName(m.GuildID), member, m.Author.Username, reason)
	if err != nil {
		_, _ = s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Rejection failed: %s", err))
		return
	}
	_, _ = s.ChannelMessageSendEmbed(m.ChannelID, decisionEmbed(result, member))
}

// commandApplicant resolves the applicant for a text command: an
// explicit argument when given, otherwise the enclosing thread's title.
func (b *Bot) commandApplicant(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) (*models.Member, error) {
	if len(args) > 0 {
		return b.resolveMemberArg(ctx, m.GuildID, args[0])
	}
	if !b.isThreadChannel(s, m.ChannelID) {
		return nil, fmt.Errorf("specify a member or use this command in an application thread")
	}
	channel, err := s.Channel(m.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("could not inspect this channel: %w", err)
	}
	member, err := b.apps.ResolveApplicant(ctx, m.GuildID, channel.Name)
	if err != nil {
		return nil, fmt.Errorf("could not find the member from the thread title: %w", err)
	}
	return member, nil
}

// resolveMemberArg resolves a command argument naming a member: a
// mention like <@123>, or a username/display name with an optional
// leading @.
func (b *Bot) resolveMemberArg(ctx context.Context, guildID string, arg string) (*models.Member, error) {
	if id, ok := parseMention(arg); ok {
		members, err := b.chat.GuildMembers(ctx, guildID)
		if err != nil {
			return nil, err
		}
		for i := range members {
			if members[i].ID == id {
				if members[i].Bot {
					return nil, fmt.Errorf("cannot approve or reject bots")
				}
				return &members[i], nil
			}
		}
		return nil, fmt.Errorf("no guild member matches %s", arg)
	}

	name := strings.TrimPrefix(arg, "@")
	member, err := b.chat.FindMemberByName(ctx, guildID, name)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("no guild member matches %q", name)
	}
	if member.Bot {
		return nil, fmt.Errorf("cannot approve or reject bots")
	}
	return member, nil
}

// parseMention extracts the user ID from a <@123> or <@!123> mention.
func parseMention(arg string) (string, bool) {
	if !strings.HasPrefix(arg, "<@") || !strings.HasSuffix(arg, ">") {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(arg, "<@"), ">")
	id = strings.TrimPrefix(id, "!")
	if id == "" {
		return "", false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return id, true
}

func (b *Bot) isThreadChannel(s *discordgo.Session, channelID string) bool {
	channel, err := s.Channel(channelID)
	return err == nil && channel != nil && channel.IsThread()
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	switch data.Name {
	case "approve":
		b.handleApprove(s, i)
	case "reject":
		b.handleReject(s, i)
	}
}

func (b *Bot) handleApprove(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	member, ok := b.resolveThreadApplicant(ctx, s, i)
	if !ok {
		return
	}

	respond(s, i, fmt.Sprintf("Sending Membership approval to <@%s> and announcing them. One moment...", member.ID))

	result, err := b.apps.Approve(ctx, i.GuildID, b.guildName(i.GuildID), member, invokerName(i))
	if err != nil {
		followupText(s, i, fmt.Sprintf("Approval failed: %s", err))
		return
	}
	followupEmbed(s, i, decisionEmbed(result, member))
}

func (b *Bot) handleReject(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	member, ok := b.resolveThreadApplicant(ctx, s, i)
	if !ok {
		return
	}

	reason := ""
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "reason" {
			reason = opt.StringValue()
		}
	}

	respond(s, i, fmt.Sprintf("Sending Membership rejection to <@%s>. One moment...", member.ID))

	result, err := b.apps.Reject(ctx, b.guildName(i.GuildID), member, invokerName(i), reason)
	if err != nil {
		followupText(s, i, fmt.Sprintf("Rejection failed: %s", err))
		return
	}
	followupEmbed(s, i, decisionEmbed(result, member))
}

// resolveThreadApplicant enforces the thread-only, manage-roles rules
// and parses the applicant out of the thread title.
func (b *Bot) resolveThreadApplicant(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) (*models.Member, bool) {
	if i.Member == nil || i.Member.Permissions&discordgo.PermissionManageRoles == 0 {
		respondEphemeral(s, i, "❌ You don't have permission to manage applications.")
		return nil, false
	}

	channel, err := s.Channel(i.ChannelID)
	if err != nil || channel == nil || !channel.IsThread() {
		respondEphemeral(s, i, "❌ This command can only be used in threads.")
		return nil, false
	}

	member, err := b.apps.ResolveApplicant(ctx, i.GuildID, channel.Name)
	if err != nil {
		respondEphemeral(s, i, fmt.Sprintf("❌ Could not find the member from the thread title: %s", err))
		return nil, false
	}
	return member, true
}

func decisionEmbed(result *models.ApplicationResult, member *models.Member) *discordgo.MessageEmbed {
	title := "✅ Application Approved"
	description := fmt.Sprintf("Successfully approved <@%s>'s application!", member.ID)
	color := colorSuccess
	if result.Decision == models.DecisionRejected {
		title = "❌ Application Rejected"
		description = fmt.Sprintf("Successfully rejected <@%s>'s application.", member.ID)
		color = 0xff0000
	}

	var status []string
	if result.DMDelivered {
		status = append(status, "✅ DM sent")
	} else {
		status = append(status, "❌ DM failed (user may have DMs disabled)")
	}
	if result.Decision == models.DecisionApproved {
		if result.RoleAdded != "" || result.RoleRemoved != "" {
			status = append(status, "✅ Roles updated")
		} else {
			status = append(status, "⚠️ No roles changed")
		}
		if result.Announced {
			status = append(status, "✅ Announcement posted")
		} else {
			status = append(status, "❌ Announcement failed")
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: strings.Join(status, "\n")},
		},
	}
	if result.Reason != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Reason", Value: result.Reason})
	}
	return embed
}

func (b *Bot) hasPermission(s *discordgo.Session, m *discordgo.MessageCreate, permission int64) bool {
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		logrus.WithError(err).Debug("permission lookup failed")
		return false
	}
	return perms&permission != 0
}

func (b *Bot) emitMetrics(ctx context.Context, result *models.SyncResult, syncErr error) {
	if b.emitter == nil {
		return
	}
	if result == nil {
		result = &models.SyncResult{}
	}
	if err := b.emitter.EmitSync(ctx, result, syncErr != nil); err != nil {
		logrus.WithError(err).Warn("metrics emission failed")
	}
}

func invokerName(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.Username
	}
	return "unknown"
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		logrus.WithError(err).Debug("interaction response failed")
	}
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logrus.WithError(err).Debug("interaction response failed")
	}
}

func followupText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: content}); err != nil {
		logrus.WithError(err).Debug("followup failed")
	}
}

func followupEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}); err != nil {
		logrus.WithError(err).Debug("followup failed")
	}
}

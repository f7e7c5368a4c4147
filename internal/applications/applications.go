package applications

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dmhcommunity/beanbot/internal/config"
	"github.com/dmhcommunity/beanbot/internal/discord"
	"github.com/dmhcommunity/beanbot/internal/interfaces"
	"github.com/dmhcommunity/beanbot/internal/models"
)

// Thread titles follow the Dyno convention:
// "@username - DMH Membership Request (#469)".
var titlePattern = regexp.MustCompile(`^@([a-zA-Z0-9_]+)`)

var (
	approvedRoleKeywords = []string{"member", "verified", "approved"}
	pendingRoleKeywords  = []string{"pending", "applicant", "unverified"}
	announceKeywords     = []string{"welcome", "announcements", "general"}
)

const (
	colorApproved = 0x00ff00
	colorRejected = 0xff0000
)

// ErrApplicantNotFound is returned when no guild member matches the
// username in the thread title.
type ErrApplicantNotFound struct {
	Username string
}

func (e *ErrApplicantNotFound) Error() string {
	return fmt.Sprintf("no guild member matches applicant %q", e.Username)
}

// ParseApplicantUsername extracts the applicant's username from a
// thread title. The second return is false when the title does not
// follow the naming convention.
func ParseApplicantUsername(title string) (string, bool) {
	match := titlePattern.FindStringSubmatch(title)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// Service executes application decisions: role mutation, applicant DM,
// and the new-member announcement.
type Service struct {
	chat interfaces.ChatClient
	cfg  *config.Config
}

// NewService creates an application service.
func NewService(chat interfaces.ChatClient, cfg *config.Config) *Service {
	return &Service{chat: chat, cfg: cfg}
}

// ResolveApplicant finds the member named in an application thread
// title, by username or display name.
func (s *Service) ResolveApplicant(ctx context.Context, guildID string, threadTitle string) (*models.Member, error) {
	username, ok := ParseApplicantUsername(threadTitle)
	if !ok {
		return nil, fmt.Errorf("thread title %q does not name an applicant", threadTitle)
	}
	member, err := s.chat.FindMemberByName(ctx, guildID, username)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, &ErrApplicantNotFound{Username: username}
	}
	if member.Bot {
		return nil, fmt.Errorf("applicant %q is a bot", username)
	}
	return member, nil
}

// Approve applies an approval: assigns the approved role, removes the
// pending role, DMs the applicant, and announces them. DM and
// announcement failures are reported in the result, not returned as
// errors.
func (s *Service) Approve(ctx context.Context, guildID string, guildName string, member *models.Member, approverName string) (*models.ApplicationResult, error) {
	result := &models.ApplicationResult{
		Decision:   models.DecisionApproved,
		MemberID:   member.ID,
		MemberName: member.DisplayName,
	}

	approved, pending, err := s.resolveWorkflowRoles(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if approved != nil && !member.HasRole(approved.Name) {
		if err := s.chat.AddMemberRole(ctx, guildID, member.ID, approved.ID); err != nil {
			return nil, fmt.Errorf("assigning approved role: %w", err)
		}
		result.RoleAdded = approved.Name
	}
	if pending != nil && member.HasRole(pending.Name) {
		if err := s.chat.RemoveMemberRole(ctx, guildID, member.ID, pending.ID); err != nil {
			return nil, fmt.Errorf("removing pending role: %w", err)
		}
		result.RoleRemoved = pending.Name
	}

	result.DMDelivered = s.sendDecisionDM(ctx, member, approvalNotice(guildName, approverName))
	result.Announced = s.announce(ctx, guildID, member, approverName)

	logrus.WithFields(logrus.Fields{
		"member":       member.Tag(),
		"role_added":   result.RoleAdded,
		"role_removed": result.RoleRemoved,
		"dm":           result.DMDelivered,
		"announced":    result.Announced,
	}).Info("application approved")

	return result, nil
}

// Reject applies a rejection: DMs the applicant with the optional
// reason. No roles change.
func (s *Service) Reject(ctx context.Context, guildName string, member *models.Member, approverName string, reason string) (*models.ApplicationResult, error) {
	result := &models.ApplicationResult{
		Decision:   models.DecisionRejected,
		MemberID:   member.ID,
		MemberName: member.DisplayName,
		Reason:     reason,
	}
	result.DMDelivered = s.sendDecisionDM(ctx, member, rejectionNotice(guildName, approverName, reason))

	logrus.WithFields(logrus.Fields{
		"member": member.Tag(),
		"reason": reason,
		"dm":     result.DMDelivered,
	}).Info("application rejected")

	return result, nil
}

// resolveWorkflowRoles finds the approved and pending roles: configured
// IDs first, keyword match as fallback. A missing role is nil, not an
// error.
func (s *Service) resolveWorkflowRoles(ctx context.Context, guildID string) (approved *models.Role, pending *models.Role, err error) {
	roles, err := s.chat.GuildRoles(ctx, guildID)
	if err != nil {
		return nil, nil, err
	}
	approved = pickRole(roles, s.cfg.Bot.ApprovedRoleID, approvedRoleKeywords)
	pending = pickRole(roles, s.cfg.Bot.PendingRoleID, pendingRoleKeywords)
	return approved, pending, nil
}

func pickRole(roles []models.Role, configuredID string, keywords []string) *models.Role {
	if configuredID != "" {
		for i := range roles {
			if roles[i].ID == configuredID {
				return &roles[i]
			}
		}
	}
	for i := range roles {
		name := strings.ToLower(roles[i].Name)
		for _, keyword := range keywords {
			if strings.Contains(name, keyword) {
				return &roles[i]
			}
		}
	}
	return nil
}

// AnnouncementChannel finds the channel for new-member announcements:
// configured ID first, then a keyword match over text channels.
func (s *Service) AnnouncementChannel(ctx context.Context, guildID string) (string, error) {
	channels, err := s.chat.GuildChannels(ctx, guildID)
	if err != nil {
		return "", err
	}
	if id := s.cfg.Bot.AnnouncementChannelID; id != "" {
		for _, ch := range channels {
			if ch.ID == id {
				return ch.ID, nil
			}
		}
	}
	for _, ch := range channels {
		if !ch.IsText {
			continue
		}
		name := strings.ToLower(ch.Name)
		for _, keyword := range announceKeywords {
			if strings.Contains(name, keyword) {
				return ch.ID, nil
			}
		}
	}
	return "", nil
}

func (s *Service) sendDecisionDM(ctx context.Context, member *models.Member, notice models.Notice) bool {
	err := s.chat.SendDirectMessage(ctx, member.ID, notice)
	if err == nil {
		return true
	}
	if discord.IsForbiddenError(err) {
		logrus.WithField("member", member.Tag()).Info("applicant has DMs disabled")
	} else {
		logrus.WithError(err).WithField("member", member.Tag()).Warn("decision DM failed")
	}
	return false
}

func (s *Service) announce(ctx context.Context, guildID string, member *models.Member, approverName string) bool {
	channelID, err := s.AnnouncementChannel(ctx, guildID)
	if err != nil || channelID == "" {
		if err != nil {
			logrus.WithError(err).Warn("could not resolve announcement channel")
		}
		return false
	}

	notice := models.Notice{
		Title:       "🎉 New Member Approved!",
		Description: fmt.Sprintf("Please welcome <@%s> to the server!", member.ID),
		Color:       colorApproved,
		Footer:      "Welcome to the community!",
		Thumbnail:   member.AvatarURL,
	}
	notice.AddField("Member", fmt.Sprintf("%s (%s)", member.DisplayName, member.Tag()), true)
	notice.AddField("Approved by", approverName, true)

	if err := s.chat.SendChannelMessage(ctx, channelID, notice); err != nil {
		logrus.WithError(err).WithField("channel_id", channelID).Warn("announcement failed")
		return false
	}
	return true
}

func approvalNotice(guildName string, approverName string) models.Notice {
	notice := models.Notice{
		Title:       "🎉 Application Approved!",
		Description: "Your application has been approved! Welcome to the server!",
		Color:       colorApproved,
		Footer:      "Welcome to the community!",
	}
	notice.AddField("Approved by", approverName, true)
	notice.AddField("Server", guildName, true)
	return notice
}

func rejectionNotice(guildName string, approverName string, reason string) models.Notice {
	notice := models.Notice{
		Title:       "❌ Application Rejected",
		Description: "Unfortunately, your application has been rejected.",
		Color:       colorRejected,
		Footer:      "You can reapply in the future if you wish.",
	}
	notice.AddField("Rejected by", approverName, true)
	notice.AddField("Server", guildName, true)
	if reason != "" {
		notice.AddField("Reason", reason, false)
	}
	return notice
}

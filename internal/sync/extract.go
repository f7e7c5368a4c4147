package sync

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dmhcommunity/beanbot/internal/models"
)

// ExtractRecords builds one MemberRecord per human member, in source
// order. Automated accounts are skipped. It never fails: an empty
// result simply means there is nothing to write.
func ExtractRecords(members []models.Member, catalog []string, now time.Time) []models.MemberRecord {
	now = now.UTC()
	lastSynced := now.Format(models.TimestampLayout)

	records := make([]models.MemberRecord, 0, len(members))
	bots := 0
	for i := range members {
		member := &members[i]
		if member.Bot {
			bots++
			continue
		}
		records = append(records, buildRecord(member, catalog, now, lastSynced))
	}

	logrus.WithFields(logrus.Fields{
		"total":  len(members),
		"bots":   bots,
		"humans": len(records),
	}).Info("extracted member records")

	return records
}

func buildRecord(member *models.Member, catalog []string, now time.Time, lastSynced string) models.MemberRecord {
	names := make([]string, 0, len(member.Roles))
	for _, role := range member.Roles {
		if role.Name == models.EveryoneRole {
			continue
		}
		names = append(names, role.Name)
	}
	rolesJoined := "None"
	if len(names) > 0 {
		rolesJoined = strings.Join(names, ", ")
	}

	highest := "Member"
	if top := member.TopRole(); top != nil && top.Name != models.EveryoneRole {
		highest = top.Name
	}

	joinedServer := "Unknown"
	serverAgeDays := 0
	if member.JoinedAt != nil {
		joinedServer = member.JoinedAt.UTC().Format(models.TimestampLayout)
		serverAgeDays = wholeDays(now.Sub(member.JoinedAt.UTC()))
	}

	avatar := member.AvatarURL
	if avatar == "" {
		avatar = "No Avatar"
	}

	status := member.Status
	if status == "" {
		status = models.StatusOffline
	}

	flags := make(map[string]bool, len(catalog))
	for _, name := range catalog {
		flags[name] = member.HasRole(name)
	}

	return models.MemberRecord{
		Username:       member.Tag(),
		DisplayName:    member.DisplayName,
		UserID:         member.ID,
		Discriminator:  member.Discriminator,
		Nickname:       member.Nickname,
		Roles:          rolesJoined,
		HighestRole:    highest,
		AccountCreated: member.CreatedAt.UTC().Format(models.TimestampLayout),
		AccountAgeDays: wholeDays(now.Sub(member.CreatedAt.UTC())),
		JoinedServer:   joinedServer,
		ServerAgeDays:  serverAgeDays,
		Status:         string(status),
		IsOnline:       status.IsOnline(),
		AvatarURL:      avatar,
		LastSynced:     lastSynced,
		RoleFlags:      flags,
	}
}

func wholeDays(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

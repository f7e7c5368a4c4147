package interfaces

import (
	"context"

	"github.com/dmhcommunity/beanbot/internal/models"
)

// ChatClient defines operations needed from the chat platform.
type ChatClient interface {
	// GuildRoles returns every named role in the guild, excluding the
	// implicit everyone role.
	GuildRoles(ctx context.Context, guildID string) ([]models.Role, error)

	// GuildMembers returns the full member list. Implementations must
	// attempt a full refresh when their cache is incomplete; if the
	// refresh fails they log it and return whatever is cached.
	GuildMembers(ctx context.Context, guildID string) ([]models.Member, error)

	// FindMemberByName resolves a member by username or display name.
	FindMemberByName(ctx context.Context, guildID string, name string) (*models.Member, error)

	// GuildChannels returns the guild's channels.
	GuildChannels(ctx context.Context, guildID string) ([]models.Channel, error)

	AddMemberRole(ctx context.Context, guildID string, userID string, roleID string) error
	RemoveMemberRole(ctx context.Context, guildID string, userID string, roleID string) error

	// SendDirectMessage delivers a notice to a user's DM channel.
	SendDirectMessage(ctx context.Context, userID string, notice models.Notice) error

	// SendChannelMessage delivers a notice to a guild channel or thread.
	SendChannelMessage(ctx context.Context, channelID string, notice models.Notice) error
}

// SheetsClient defines operations needed from the spreadsheet backend.
type SheetsClient interface {
	// SheetTitles returns the titles of every sheet in the spreadsheet.
	SheetTitles(ctx context.Context) ([]string, error)

	// ClearSheet erases every cell in the named sheet.
	ClearSheet(ctx context.Context, sheetName string) error

	// UpdateSheet writes the grid starting at the sheet's top-left
	// cell, values taken verbatim.
	UpdateSheet(ctx context.Context, sheetName string, values [][]interface{}) error
}

// SyncEngine defines sync orchestration. The progress callback belongs
// to the single invocation and may be nil.
type SyncEngine interface {
	Sync(ctx context.Context, guildID string, sheetName string, progress func(models.SyncPhase)) (*models.SyncResult, error)
}

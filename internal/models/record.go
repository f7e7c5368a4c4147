package models

// TimestampLayout is the display format for timestamps written to the
// sheet.
const TimestampLayout = "2006-01-02 15:04:05"

// BaseColumns are the fixed header labels preceding the dynamic
// per-role columns. Their order is the row layout contract.
var BaseColumns = []string{
	"Username",
	"Display Name",
	"User ID",
	"Discriminator",
	"Nickname",
	"Roles",
	"Highest Role",
	"Account Created",
	"Account Age (Days)",
	"Joined Server",
	"Server Age (Days)",
	"Status",
	"Is Online",
	"Avatar URL",
	"Last Synced",
}

// MemberRecord is the flat, per-sync projection of one human member.
// Constructed during a sync pass and discarded after being written.
type MemberRecord struct {
	Username       string          `json:"username"`
	DisplayName    string          `json:"display_name"`
	UserID         string          `json:"user_id"`
	Discriminator  string          `json:"discriminator"`
	Nickname       string          `json:"nickname"`
	Roles          string          `json:"roles"`
	HighestRole    string          `json:"highest_role"`
	AccountCreated string          `json:"account_created"`
	AccountAgeDays int             `json:"account_age_days"`
	JoinedServer   string          `json:"joined_server"`
	ServerAgeDays  int             `json:"server_age_days"`
	Status         string          `json:"status"`
	IsOnline       bool            `json:"is_online"`
	AvatarURL      string          `json:"avatar_url"`
	LastSynced     string          `json:"last_synced"`
	RoleFlags      map[string]bool `json:"role_flags"`
}

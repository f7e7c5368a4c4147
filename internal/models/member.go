package models

import "time"

// EveryoneRole is the implicit role every guild member holds. It is
// excluded from role catalogs, role listings, and per-role columns.
const EveryoneRole = "@everyone"

// PresenceStatus is a member's presence as reported by the gateway.
type PresenceStatus string

const (
	StatusOnline       PresenceStatus = "online"
	StatusIdle         PresenceStatus = "idle"
	StatusDoNotDisturb PresenceStatus = "dnd"
	StatusOffline      PresenceStatus = "offline"
)

// IsOnline reports whether the status is anything other than offline.
func (s PresenceStatus) IsOnline() bool {
	return s != StatusOffline && s != ""
}

// Role is a named guild role.
type Role struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Member is a guild member as loaded from the chat platform.
type Member struct {
	ID            string         `json:"id"`
	Username      string         `json:"username"`
	Discriminator string         `json:"discriminator,omitempty"`
	DisplayName   string         `json:"display_name"`
	Nickname      string         `json:"nickname,omitempty"`
	Bot           bool           `json:"bot"`
	Roles         []Role         `json:"roles"`
	CreatedAt     time.Time      `json:"created_at"`
	JoinedAt      *time.Time     `json:"joined_at,omitempty"`
	Status        PresenceStatus `json:"status"`
	AvatarURL     string         `json:"avatar_url,omitempty"`
}

// Tag returns the member's canonical handle. Legacy accounts render as
// username#discriminator; migrated accounts (discriminator "0") as the
// bare username.
func (m *Member) Tag() string {
	if m.Discriminator == "" || m.Discriminator == "0" {
		return m.Username
	}
	return m.Username + "#" + m.Discriminator
}

// TopRole returns the member's highest-positioned role, or nil when the
// member holds no roles beyond the implicit everyone role.
func (m *Member) TopRole() *Role {
	var top *Role
	for i := range m.Roles {
		if top == nil || m.Roles[i].Position > top.Position {
			top = &m.Roles[i]
		}
	}
	return top
}

// HasRole reports whether the member holds a role with the given name.
func (m *Member) HasRole(name string) bool {
	for _, r := range m.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Channel is a guild channel, used for announcement delivery.
type Channel struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsText bool   `json:"is_text"`
}

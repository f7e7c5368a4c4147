package discord

import (
	"context"

	"github.com/dmhcommunity/beanbot/internal/models"
)

// MockClient is a simple mock implementation of the chat client.
type MockClient struct {
	GuildRolesFunc         func(ctx context.Context, guildID string) ([]models.Role, error)
	GuildMembersFunc       func(ctx context.Context, guildID string) ([]models.Member, error)
	FindMemberByNameFunc   func(ctx context.Context, guildID string, name string) (*models.Member, error)
	GuildChannelsFunc      func(ctx context.Context, guildID string) ([]models.Channel, error)
	AddMemberRoleFunc      func(ctx context.Context, guildID string, userID string, roleID string) error
	RemoveMemberRoleFunc   func(ctx context.Context, guildID string, userID string, roleID string) error
	SendDirectMessageFunc  func(ctx context.Context, userID string, notice models.Notice) error
	SendChannelMessageFunc func(ctx context.Context, channelID string, notice models.Notice) error
}

func (m *MockClient) GuildRoles(ctx context.Context, guildID string) ([]models.Role, error) {
	if m.GuildRolesFunc == nil {
		return nil, nil
	}
	return m.GuildRolesFunc(ctx, guildID)
}

func (m *MockClient) GuildMembers(ctx context.Context, guildID string) ([]models.Member, error) {
	if m.GuildMembersFunc == nil {
		return nil, nil
	}
	return m.GuildMembersFunc(ctx, guildID)
}

func (m *MockClient) FindMemberByName(ctx context.Context, guildID string, name string) (*models.Member, error) {
	if m.FindMemberByNameFunc == nil {
		return nil, nil
	}
	return m.FindMemberByNameFunc(ctx, guildID, name)
}

func (m *MockClient) GuildChannels(ctx context.Context, guildID string) ([]models.Channel, error) {
	if m.GuildChannelsFunc == nil {
		return nil, nil
	}
	return m.GuildChannelsFunc(ctx, guildID)
}

func (m *MockClient) AddMemberRole(ctx context.Context, guildID string, userID string, roleID string) error {
	if m.AddMemberRoleFunc == nil {
		return nil
	}
	return m.AddMemberRoleFunc(ctx, guildID, userID, roleID)
}

func (m *MockClient) RemoveMemberRole(ctx context.Context, guildID string, userID string, roleID string) error {
	if m.RemoveMemberRoleFunc == nil {
		return nil
	}
	return m.RemoveMemberRoleFunc(ctx, guildID, userID, roleID)
}

func (m *MockClient) SendDirectMessage(ctx context.Context, userID string, notice models.Notice) error {
	if m.SendDirectMessageFunc == nil {
		return nil
	}
	return m.SendDirectMessageFunc(ctx, userID, notice)
}

func (m *MockClient) SendChannelMessage(ctx context.Context, channelID string, notice models.Notice) error {
	if m.SendChannelMessageFunc == nil {
		return nil
	}
	return m.SendChannelMessageFunc(ctx, channelID, notice)
}

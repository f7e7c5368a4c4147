package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dmhcommunity/beanbot/internal/models"
)

type fakeGuildAPI struct {
	roles    []*discordgo.Role
	rolesErr error

	memberPages [][]*discordgo.Member
	memberCalls []string
	membersErr  error

	channels    []*discordgo.Channel
	channelsErr error

	addedRoles   []string
	removedRoles []string

	dmChannel    *discordgo.Channel
	dmChannelErr error

	sentEmbeds map[string]*discordgo.MessageEmbed
	sendErr    error
}

func (f *fakeGuildAPI) GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	return f.roles, f.rolesErr
}

func (f *fakeGuildAPI) GuildMembers(guildID string, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error) {
	if f.membersErr != nil {
		return nil, f.membersErr
	}
	f.memberCalls = append(f.memberCalls, after)
	call := len(f.memberCalls) - 1
	if call >= len(f.memberPages) {
		return nil, nil
	}
	return f.memberPages[call], nil
}

func (f *fakeGuildAPI) GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	return f.channels, f.channelsErr
}

func (f *fakeGuildAPI) GuildMemberRoleAdd(guildID string, userID string, roleID string, options ...discordgo.RequestOption) error {
	f.addedRoles = append(f.addedRoles, roleID)
	return nil
}

func (f *fakeGuildAPI) GuildMemberRoleRemove(guildID string, userID string, roleID string, options ...discordgo.RequestOption) error {
	f.removedRoles = append(f.removedRoles, roleID)
	return nil
}

func (f *fakeGuildAPI) UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return f.dmChannel, f.dmChannelErr
}

func (f *fakeGuildAPI) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	if f.sentEmbeds == nil {
		f.sentEmbeds = make(map[string]*discordgo.MessageEmbed)
	}
	f.sentEmbeds[channelID] = embed
	return &discordgo.Message{}, nil
}

func testClient(api *fakeGuildAPI) *Client {
	return &Client{api: api}
}

func guildRoles() []*discordgo.Role {
	return []*discordgo.Role{
		{ID: "1", Name: models.EveryoneRole, Position: 0},
		{ID: "2", Name: "Admin", Position: 5},
		{ID: "3", Name: "Member", Position: 1},
	}
}

func rawMember(id string, username string, roleIDs ...string) *discordgo.Member {
	return &discordgo.Member{
		User:     &discordgo.User{ID: id, Username: username},
		Roles:    roleIDs,
		JoinedAt: time.Now().AddDate(0, 0, -10),
	}
}

func TestGuildRolesExcludesEveryone(t *testing.T) {
	client := testClient(&fakeGuildAPI{roles: guildRoles()})

	roles, err := client.GuildRoles(context.Background(), "123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(roles))
	}
	for _, r := range roles {
		if r.Name == models.EveryoneRole {
			t.Fatal("everyone role must be excluded")
		}
	}
	if roles[0].ID != "2" || roles[0].Position != 5 {
		t.Fatalf("unexpected role mapping: %+v", roles[0])
	}
}

func TestGuildRolesRequiresGuildID(t *testing.T) {
	client := testClient(&fakeGuildAPI{})
	if _, err := client.GuildRoles(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty guild ID")
	}
}

func TestGuildMembersMapping(t *testing.T) {
	member := rawMember("100", "alice", "2", "3", "99")
	member.Nick = "Ally"
	api := &fakeGuildAPI{
		roles:       guildRoles(),
		memberPages: [][]*discordgo.Member{{member}},
	}
	client := testClient(api)
	client.presence = func(guildID, userID string) models.PresenceStatus {
		return models.StatusIdle
	}

	members, err := client.GuildMembers(context.Background(), "123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(members))
	}

	m := members[0]
	if m.DisplayName != "Ally" || m.Nickname != "Ally" {
		t.Fatalf("expected nickname as display name, got %q / %q", m.DisplayName, m.Nickname)
	}
	if len(m.Roles) != 2 {
		t.Fatalf("expected unknown role IDs dropped, got %v", m.Roles)
	}
	if m.JoinedAt == nil {
		t.Fatal("expected join time set")
	}
	if m.Status != models.StatusIdle {
		t.Fatalf("expected presence from state, got %q", m.Status)
	}
}

func TestGuildMembersDisplayNameFallback(t *testing.T) {
	member := rawMember("100", "alice")
	member.User.GlobalName = "Alice G"
	api := &fakeGuildAPI{
		roles:       guildRoles(),
		memberPages: [][]*discordgo.Member{{member}},
	}

	members, err := testClient(api).GuildMembers(context.Background(), "123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if members[0].DisplayName != "Alice G" {
		t.Fatalf("expected global name fallback, got %q", members[0].DisplayName)
	}
	if members[0].Status != models.StatusOffline {
		t.Fatalf("expected offline without presence source, got %q", members[0].Status)
	}
}

func TestGuildMembersPagination(t *testing.T) {
	full := make([]*discordgo.Member, membersPageSize)
	for i := range full {
		full[i] = rawMember(fmt.Sprintf("%d", i+1), fmt.Sprintf("user%d", i+1))
	}
	rest := []*discordgo.Member{rawMember("9999", "last")}

	api := &fakeGuildAPI{
		roles:       guildRoles(),
		memberPages: [][]*discordgo.Member{full, rest},
	}

	members, err := testClient(api).GuildMembers(context.Background(), "123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(members) != membersPageSize+1 {
		t.Fatalf("expected %d members, got %d", membersPageSize+1, len(members))
	}
	if len(api.memberCalls) != 2 {
		t.Fatalf("expected 2 page fetches, got %d", len(api.memberCalls))
	}
	if api.memberCalls[0] != "" || api.memberCalls[1] != fmt.Sprintf("%d", membersPageSize) {
		t.Fatalf("unexpected pagination cursors: %v", api.memberCalls)
	}
}

func TestGuildMembersCachedFallback(t *testing.T) {
	api := &fakeGuildAPI{
		roles:      guildRoles(),
		membersErr: errors.New("rate limited"),
	}
	client := testClient(api)
	client.cached = func(guildID string) []*discordgo.Member {
		return []*discordgo.Member{rawMember("100", "alice")}
	}

	members, err := client.GuildMembers(context.Background(), "123")
	if err != nil {
		t.Fatalf("expected cached fallback, got %v", err)
	}
	if len(members) != 1 || members[0].Username != "alice" {
		t.Fatalf("unexpected members: %+v", members)
	}
}

func TestGuildMembersNoCacheFails(t *testing.T) {
	api := &fakeGuildAPI{
		roles:      guildRoles(),
		membersErr: errors.New("rate limited"),
	}

	if _, err := testClient(api).GuildMembers(context.Background(), "123"); err == nil {
		t.Fatal("expected error when no cached members exist")
	}
}

func TestFindMemberByName(t *testing.T) {
	alice := rawMember("100", "alice")
	bob := rawMember("101", "bob")
	bob.Nick = "Bobby"
	api := &fakeGuildAPI{
		roles:       guildRoles(),
		memberPages: [][]*discordgo.Member{{alice, bob}},
	}
	client := testClient(api)

	found, err := client.FindMemberByName(context.Background(), "123", "alice")
	if err != nil || found == nil || found.ID != "100" {
		t.Fatalf("expected alice by username, got %+v (%v)", found, err)
	}

	api.memberCalls = nil
	found, err = client.FindMemberByName(context.Background(), "123", "Bobby")
	if err != nil || found == nil || found.ID != "101" {
		t.Fatalf("expected bob by display name, got %+v (%v)", found, err)
	}

	api.memberCalls = nil
	found, err = client.FindMemberByName(context.Background(), "123", "ghost")
	if err != nil || found != nil {
		t.Fatalf("expected nil for unknown name, got %+v (%v)", found, err)
	}
}

func TestGuildChannels(t *testing.T) {
	api := &fakeGuildAPI{
		channels: []*discordgo.Channel{
			{ID: "1", Name: "general", Type: discordgo.ChannelTypeGuildText},
			{ID: "2", Name: "voice", Type: discordgo.ChannelTypeGuildVoice},
		},
	}

	channels, err := testClient(api).GuildChannels(context.Background(), "123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !channels[0].IsText || channels[1].IsText {
		t.Fatalf("unexpected channel types: %+v", channels)
	}
}

func TestSendDirectMessage(t *testing.T) {
	api := &fakeGuildAPI{dmChannel: &discordgo.Channel{ID: "dm-1"}}
	client := testClient(api)

	notice := models.Notice{Title: "Hello", Color: 0x00ff00, Footer: "footer"}
	notice.AddField("Server", "DMH", true)

	if err := client.SendDirectMessage(context.Background(), "100", notice); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	embed := api.sentEmbeds["dm-1"]
	if embed == nil || embed.Title != "Hello" {
		t.Fatalf("unexpected embed: %+v", embed)
	}
	if embed.Footer == nil || embed.Footer.Text != "footer" {
		t.Fatalf("expected footer mapped, got %+v", embed.Footer)
	}
	if len(embed.Fields) != 1 || embed.Fields[0].Name != "Server" || !embed.Fields[0].Inline {
		t.Fatalf("expected field mapped, got %+v", embed.Fields)
	}
}

func TestIsForbiddenError(t *testing.T) {
	forbidden := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}
	if !IsForbiddenError(forbidden) {
		t.Fatal("expected 403 to match")
	}
	notFound := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}
	if IsForbiddenError(notFound) {
		t.Fatal("404 must not match")
	}
	if IsForbiddenError(errors.New("plain")) {
		t.Fatal("plain errors must not match")
	}
}

// Package directory provides a fixed, file-backed lookup directory for
// running the parser without a Discord connection.
package directory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/discordgo"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("not found")

type User struct {
	ID         string `json:"id" yaml:"id"`
	Username   string `json:"username" yaml:"username"`
	GlobalName string `json:"global_name,omitempty" yaml:"global_name,omitempty"`
	Bot        bool   `json:"bot,omitempty" yaml:"bot,omitempty"`
}

type Member struct {
	GuildID string   `json:"guild_id" yaml:"guild_id"`
	UserID  string   `json:"user_id" yaml:"user_id"`
	Nick    string   `json:"nick,omitempty" yaml:"nick,omitempty"`
	Roles   []string `json:"roles,omitempty" yaml:"roles,omitempty"`
}

type Channel struct {
	ID      string `json:"id" yaml:"id"`
	GuildID string `json:"guild_id,omitempty" yaml:"guild_id,omitempty"`
	Name    string `json:"name" yaml:"name"`
}

type Role struct {
	ID      string `json:"id" yaml:"id"`
	GuildID string `json:"guild_id" yaml:"guild_id"`
	Name    string `json:"name" yaml:"name"`
	Color   int    `json:"color,omitempty" yaml:"color,omitempty"`
}

// Fixture is the file format of a static directory.
type Fixture struct {
	Users    []User    `json:"users" yaml:"users"`
	Members  []Member  `json:"members" yaml:"members"`
	Channels []Channel `json:"channels" yaml:"channels"`
	Roles    []Role    `json:"roles" yaml:"roles"`
}

// Static answers lookups from a Fixture. It is read-only after construction
// and safe for concurrent use.
type Static struct {
	users    map[string]*discordgo.User
	members  map[string]*discordgo.Member
	channels map[string]*discordgo.Channel
	roles    map[string]*discordgo.Role
}

func scoped(guildID, id string) string { return guildID + "/" + id }

// New indexes f. Members must reference a listed user.
func New(f Fixture) (*Static, error) {
	s := &Static{
		users:    make(map[string]*discordgo.User, len(f.Users)),
		members:  make(map[string]*discordgo.Member, len(f.Members)),
		channels: make(map[string]*discordgo.Channel, len(f.Channels)),
		roles:    make(map[string]*discordgo.Role, len(f.Roles)),
	}
	for _, u := range f.Users {
		s.users[u.ID] = &discordgo.User{ID: u.ID, Username: u.Username, GlobalName: u.GlobalName, Bot: u.Bot}
	}
	for _, m := range f.Members {
		u, ok := s.users[m.UserID]
		if !ok {
			return nil, fmt.Errorf("member %s of guild %s: unknown user", m.UserID, m.GuildID)
		}
		s.members[scoped(m.GuildID, m.UserID)] = &discordgo.Member{GuildID: m.GuildID, User: u, Nick: m.Nick, Roles: m.Roles}
	}
	for _, c := range f.Channels {
		typ := discordgo.ChannelTypeGuildText
		if c.GuildID == "" {
			typ = discordgo.ChannelTypeDM
		}
		s.channels[c.ID] = &discordgo.Channel{ID: c.ID, GuildID: c.GuildID, Name: c.Name, Type: typ}
	}
	for _, r := range f.Roles {
		s.roles[scoped(r.GuildID, r.ID)] = &discordgo.Role{ID: r.ID, Name: r.Name, Color: r.Color}
	}
	return s, nil
}

// Load reads a YAML or JSON fixture file.
func Load(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read directory fixture: %w", err)
	}
	var f Fixture
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&f)
	case ".json":
		err = json.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("unsupported fixture format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decode directory fixture: %w", err)
	}
	return New(f)
}

func (s *Static) User(ctx context.Context, userID string) (*discordgo.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if u, ok := s.users[userID]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
}

func (s *Static) Member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m, ok := s.members[scoped(guildID, userID)]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("member %s: %w", userID, ErrNotFound)
}

func (s *Static) Channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c, ok := s.channels[channelID]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
}

func (s *Static) Role(ctx context.Context, guildID, roleID string) (*discordgo.Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r, ok := s.roles[scoped(guildID, roleID)]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("role %s: %w", roleID, ErrNotFound)
}

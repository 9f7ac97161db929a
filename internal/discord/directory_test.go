package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/cmdargs/pkg/args"
	"github.com/keshon/cmdargs/pkg/retrylimit"
)

// stateDirectory serves everything from the state cache, so no request
// leaves the process.
func stateDirectory(t *testing.T) *Directory {
	t.Helper()
	st := discordgo.NewState()
	st.User = &discordgo.User{ID: "bot", Username: "cmdargs"}
	err := st.GuildAdd(&discordgo.Guild{
		ID:       "g1",
		Members:  []*discordgo.Member{{User: &discordgo.User{ID: "123", Username: "alice"}, Nick: "Al"}},
		Roles:    []*discordgo.Role{{ID: "r1", Name: "mods"}},
		Channels: []*discordgo.Channel{{ID: "c1", GuildID: "g1", Name: "general"}},
	})
	if err != nil {
		t.Fatalf("GuildAdd() error = %v", err)
	}
	return NewDirectory(&discordgo.Session{State: st}, nil, retrylimit.DefaultConfig())
}

func TestDirectoryUsesState(t *testing.T) {
	d := stateDirectory(t)
	ctx := context.Background()

	m, err := d.Member(ctx, "g1", "123")
	if err != nil {
		t.Fatalf("Member() error = %v", err)
	}
	if m.Nick != "Al" || m.GuildID != "g1" {
		t.Errorf("member = %+v", m)
	}
	r, err := d.Role(ctx, "g1", "r1")
	if err != nil || r.Name != "mods" {
		t.Errorf("Role() = %v, %v", r, err)
	}
	ch, err := d.Channel(ctx, "c1")
	if err != nil || ch.Name != "general" {
		t.Errorf("Channel() = %v, %v", ch, err)
	}
	u, err := d.User(ctx, "bot")
	if err != nil || u.Username != "cmdargs" {
		t.Errorf("User() = %v, %v", u, err)
	}
}

func TestDirectoryCancelled(t *testing.T) {
	d := stateDirectory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Member(ctx, "g1", "999"); !errors.Is(err, context.Canceled) {
		t.Errorf("Member() error = %v, want context.Canceled", err)
	}
	if _, err := d.User(ctx, "999"); !errors.Is(err, context.Canceled) {
		t.Errorf("User() error = %v, want context.Canceled", err)
	}
}

func TestDirectoryFeedsMemberArguments(t *testing.T) {
	d := stateDirectory(t)
	res, err := embeddedSet(t).ParseLine(context.Background(), "polecen perform <@!123> warn", args.NewContext(d, "g1"))
	if err != nil {
		t.Fatalf("ParseLine() error = %v", err)
	}
	v, _ := res.Get("target")
	m, ok := v.(*discordgo.Member)
	if !ok || m.User.Username != "alice" {
		t.Errorf("target = %v", v)
	}
}

func TestPrefixLine(t *testing.T) {
	tests := []struct {
		content, prefix string
		want            string
		ok              bool
	}{
		{"!calc 1 + 2", "!", "calc 1 + 2", true},
		{"calc 1 + 2", "!", "", false},
		{"cmd> date", "cmd> ", "date", true},
		{"!date", "", "", false},
	}
	for _, tt := range tests {
		got, ok := prefixLine(tt.content, tt.prefix)
		if got != tt.want || ok != tt.ok {
			t.Errorf("prefixLine(%q, %q) = %q, %v, want %q, %v", tt.content, tt.prefix, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFirstToken(t *testing.T) {
	tests := map[string]string{
		"calc 1 + 2":     "calc",
		`  "help" calc `: "help",
		"":               "",
	}
	for line, want := range tests {
		if got := firstToken(line); got != want {
			t.Errorf("firstToken(%q) = %q, want %q", line, got, want)
		}
	}
}

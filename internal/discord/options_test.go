package discord

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/cmdargs/pkg/args"
	"github.com/keshon/cmdargs/pkg/command"
)

func performInteraction() discordgo.ApplicationCommandInteractionData {
	return discordgo.ApplicationCommandInteractionData{
		Name:        "polecen",
		CommandType: discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{{
			Name: "perform",
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "target", Type: discordgo.ApplicationCommandOptionUser, Value: "123"},
				{Name: "action", Type: discordgo.ApplicationCommandOptionString, Value: "kick"},
			},
		}},
		Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
			Users:   map[string]*discordgo.User{"123": {ID: "123", Username: "alice"}},
			Members: map[string]*discordgo.Member{"123": {Nick: "Al"}},
		},
	}
}

func TestInteractionOptionsResolvesMembers(t *testing.T) {
	opts := InteractionOptions(performInteraction(), "g1")
	if len(opts) != 1 || opts[0].Name != "perform" {
		t.Fatalf("got %+v, want one perform option", opts)
	}
	sub := opts[0].Options
	if len(sub) != 2 {
		t.Fatalf("perform has %d options, want 2", len(sub))
	}
	m, ok := sub[0].Value.(*discordgo.Member)
	if !ok {
		t.Fatalf("target value = %T, want *discordgo.Member", sub[0].Value)
	}
	if m.User == nil || m.User.ID != "123" || m.GuildID != "g1" || m.Nick != "Al" {
		t.Errorf("member = %+v", m)
	}
	if sub[1].Value != "kick" {
		t.Errorf("action = %v", sub[1].Value)
	}
}

func TestInteractionParsesWithoutLookups(t *testing.T) {
	set := embeddedSet(t)
	opts := InteractionOptions(performInteraction(), "g1")

	// No directory: every model value comes resolved.
	res, err := set.ParseOptions(context.Background(), "polecen", opts, args.NewContext(nil, "g1"))
	if err != nil {
		t.Fatalf("ParseOptions() error = %v", err)
	}
	if got := res.Path(); len(got) != 2 || got[1] != "perform" {
		t.Fatalf("path = %v", got)
	}
	m, ok := command.Get[*discordgo.Member](res, "target")
	if !ok || m.Nick != "Al" {
		t.Errorf("target = %v, %v", m, ok)
	}
	if action, _ := command.Get[string](res, "action"); action != "kick" {
		t.Errorf("action = %q", action)
	}
	if _, ok := res.Get("reason"); ok {
		t.Error("reason should be absent")
	}
}

func TestResolvedValue(t *testing.T) {
	res := &discordgo.ApplicationCommandInteractionDataResolved{
		Users: map[string]*discordgo.User{"u1": {ID: "u1"}},
		Roles: map[string]*discordgo.Role{"r1": {ID: "r1", Name: "mods"}},
		Channels: map[string]*discordgo.Channel{
			"c1": {ID: "c1", Type: discordgo.ChannelTypeGuildText},
			"d1": {ID: "d1", Type: discordgo.ChannelTypeDM},
		},
	}
	opt := func(typ discordgo.ApplicationCommandOptionType, v any) *discordgo.ApplicationCommandInteractionDataOption {
		return &discordgo.ApplicationCommandInteractionDataOption{Name: "x", Type: typ, Value: v}
	}

	if u, ok := resolvedValue(opt(discordgo.ApplicationCommandOptionUser, "u1"), res, "g1").(*discordgo.User); !ok || u.ID != "u1" {
		t.Errorf("user without member = %v", u)
	}
	if r, ok := resolvedValue(opt(discordgo.ApplicationCommandOptionRole, "r1"), res, "g1").(*discordgo.Role); !ok || r.Name != "mods" {
		t.Errorf("role = %v", r)
	}
	ch, ok := resolvedValue(opt(discordgo.ApplicationCommandOptionChannel, "c1"), res, "g1").(*discordgo.Channel)
	if !ok || ch.GuildID != "g1" {
		t.Errorf("guild channel = %+v", ch)
	}
	if res.Channels["c1"].GuildID != "" {
		t.Error("resolved data was modified")
	}
	dm, ok := resolvedValue(opt(discordgo.ApplicationCommandOptionChannel, "d1"), res, "g1").(*discordgo.Channel)
	if !ok || dm.GuildID != "" {
		t.Errorf("dm channel = %+v", dm)
	}
	if v := resolvedValue(opt(discordgo.ApplicationCommandOptionUser, "missing"), res, "g1"); v != "missing" {
		t.Errorf("unresolved user = %v, want raw id", v)
	}
	if v := resolvedValue(opt(discordgo.ApplicationCommandOptionInteger, float64(3)), res, "g1"); v != float64(3) {
		t.Errorf("integer = %v", v)
	}
}

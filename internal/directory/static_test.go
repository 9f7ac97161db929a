package directory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/cmdargs/pkg/args"
)

var _ args.Directory = (*Static)(nil)

func TestLoadYAML(t *testing.T) {
	dir, err := Load(filepath.Join("testdata", "directory.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	ctx := context.Background()

	m, err := dir.Member(ctx, "1", "123")
	if err != nil || m.Nick != "Al" || m.User.Username != "alice" {
		t.Errorf("Member() = %+v, %v", m, err)
	}
	if _, err := dir.Member(ctx, "2", "123"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Member(other guild) error = %v", err)
	}
	if ch, err := dir.Channel(ctx, "56"); err != nil || ch.Type != discordgo.ChannelTypeDM {
		t.Errorf("Channel(56) = %+v, %v", ch, err)
	}
	if r, err := dir.Role(ctx, "1", "77"); err != nil || r.Name != "mods" {
		t.Errorf("Role() = %+v, %v", r, err)
	}
	if u, err := dir.User(ctx, "456"); err != nil || u.Username != "bob" {
		t.Errorf("User() = %+v, %v", u, err)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir.json")
	body := `{"users":[{"id":"9","username":"zed"}],"members":[{"guild_id":"1","user_id":"9"}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	dir, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := dir.Member(context.Background(), "1", "9"); err != nil {
		t.Errorf("Member() error = %v", err)
	}
}

func TestNewRejectsDanglingMember(t *testing.T) {
	_, err := New(Fixture{Members: []Member{{GuildID: "1", UserID: "404"}}})
	if err == nil {
		t.Error("New() accepted a member without a user")
	}
}

func TestResolvesThroughParser(t *testing.T) {
	dir, err := Load(filepath.Join("testdata", "directory.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	resolve, _ := args.Default().Lookup(args.TypeRole)
	v, err := resolve(context.Background(), args.NewContext(dir, "1"), args.Text("<@&77>"))
	if err != nil {
		t.Fatalf("resolve role error = %v", err)
	}
	if v.(*discordgo.Role).Name != "mods" {
		t.Errorf("role = %+v", v)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := dir.User(ctx, "123"); !errors.Is(err, context.Canceled) {
		t.Errorf("User() with cancelled ctx error = %v", err)
	}
}

package config

import (
	"errors"
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"DISCORD_TOKEN", "COMMAND_PREFIX", "STORAGE_PATH", "DISCORD_GUILD_BLACKLIST", "LOOKUP_RATE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CommandPrefix != "!" || cfg.StoragePath != "datastore.json" || !cfg.InitSlash || cfg.LookupRate != 5 {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	if _, err := New(); !errors.Is(err, ErrMissingToken) {
		t.Errorf("New() error = %v, want ErrMissingToken", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DISCORD_TOKEN", "secret")
	t.Setenv("COMMAND_PREFIX", "?")
	t.Setenv("DISCORD_GUILD_BLACKLIST", "1,2")
	t.Setenv("LOOKUP_RETRIES", "7")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.DiscordToken != "secret" || cfg.CommandPrefix != "?" || cfg.LookupRetries != 7 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !cfg.Blacklisted("2") || cfg.Blacklisted("3") {
		t.Errorf("Blacklisted() wrong for %v", cfg.GuildBlacklist)
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DISCORD_TOKEN", "")
	os.Unsetenv("DISCORD_TOKEN")
	if err := os.WriteFile(".env", []byte("DISCORD_TOKEN=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := New()
	t.Cleanup(func() { os.Unsetenv("DISCORD_TOKEN") })
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.DiscordToken != "from-file" {
		t.Errorf("DiscordToken = %q", cfg.DiscordToken)
	}
}

func TestLoadRejectsBadNumber(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOOKUP_RATE", "fast")
	if _, err := Load(false); err == nil {
		t.Error("Load() accepted LOOKUP_RATE=fast")
	}
}

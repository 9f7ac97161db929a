package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

const fixture = "../../internal/directory/testdata/directory.yaml"

func newTestCLI(t *testing.T, o options) (*cli, *strings.Builder) {
	t.Helper()
	var out strings.Builder
	c, closeFn, err := newCLI(o, &out)
	if err != nil {
		t.Fatalf("newCLI() error = %v", err)
	}
	t.Cleanup(closeFn)
	return c, &out
}

func TestHandlePrintsResult(t *testing.T) {
	c, out := newTestCLI(t, options{fixture: fixture, guildID: "1"})

	if !c.handle(context.Background(), `polecen perform <@!123> "slap gently"`) {
		t.Fatalf("handle() failed:\n%s", out)
	}
	for _, want := range []string{`"command": "polecen"`, `"command": "perform"`, `"action": "slap gently"`, `"nick": "Al"`, `"reason": null`} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output lacks %s:\n%s", want, out)
		}
	}
}

func TestHandlePrintsReadError(t *testing.T) {
	c, out := newTestCLI(t, options{fixture: fixture, guildID: "1"})

	if c.handle(context.Background(), "polecen perform <@!999> warn") {
		t.Fatal("handle() succeeded for an unknown member")
	}
	for _, want := range []string{`"kind": "ValueParseError"`, `"position": 2`} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output lacks %s:\n%s", want, out)
		}
	}
}

func TestHandleExec(t *testing.T) {
	c, out := newTestCLI(t, options{
		fixture:   fixture,
		guildID:   "1",
		exec:      true,
		storePath: filepath.Join(t.TempDir(), "store.json"),
	})

	ctx := context.Background()
	for _, line := range []string{"calc 6 * 7", "polecen perform 123 warn", "history"} {
		if !c.handle(ctx, line) {
			t.Fatalf("handle(%q) failed:\n%s", line, out)
		}
	}
	for _, want := range []string{"6 * 7 = **42**", "**warn** on <@123> (Al)", "== History =="} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestLoopSkipsBlankLines(t *testing.T) {
	c, out := newTestCLI(t, options{})
	in := strings.NewReader("\n  \ndate\ncalc 1 + 1\n")
	if err := c.loop(context.Background(), in); err != nil {
		t.Fatalf("loop() error = %v", err)
	}
	if got := strings.Count(out.String(), `"command": `); got != 2 {
		t.Errorf("printed %d results, want 2:\n%s", got, out)
	}
}

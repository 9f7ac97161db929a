package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/keshon/cmdargs/internal/storage"
	"github.com/keshon/cmdargs/pkg/cmd"
	"github.com/keshon/cmdargs/pkg/command"
)

type recorder struct {
	guilds []string
	recs   []storage.CommandHistoryRecord
}

func (r *recorder) AppendCommandToHistory(guildID string, rec storage.CommandHistoryRecord) error {
	r.guilds = append(r.guilds, guildID)
	r.recs = append(r.recs, rec)
	return nil
}

func testCommand(err error) (cmd.Command, *int) {
	runs := 0
	return &cmd.Func{
		Def: command.Definition{Name: "polecen"},
		RunFunc: func(context.Context, *cmd.Invocation) error {
			runs++
			return err
		},
	}, &runs
}

func TestWithGuildOnly(t *testing.T) {
	c, runs := testCommand(nil)
	var replies []cmd.Response
	inv := &cmd.Invocation{Responder: cmd.ResponderFunc(func(_ context.Context, r cmd.Response) error {
		replies = append(replies, r)
		return nil
	})}

	wrapped := cmd.Apply(c, WithGuildOnly())
	if err := wrapped.Run(context.Background(), inv); err != nil {
		t.Fatal(err)
	}
	if *runs != 0 || len(replies) != 1 || !replies[0].Error {
		t.Errorf("DM invocation: runs=%d replies=%+v", *runs, replies)
	}

	inv.GuildID = "g1"
	if err := wrapped.Run(context.Background(), inv); err != nil {
		t.Fatal(err)
	}
	if *runs != 1 {
		t.Errorf("guild invocation: runs=%d", *runs)
	}
}

func TestWithCommandLogger(t *testing.T) {
	boom := errors.New("boom")
	c, _ := testCommand(boom)
	rec := &recorder{}
	wrapped := cmd.Apply(c, WithCommandLogger(rec))

	inv := &cmd.Invocation{
		Result:  &command.Result{Name: "polecen", Sub: &command.Result{Name: "version"}},
		Source:  cmd.SourcePrefix,
		Line:    "polecen ver",
		GuildID: "g1",
		UserID:  "123",
	}
	if err := wrapped.Run(context.Background(), inv); !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want boom", err)
	}
	if len(rec.recs) != 1 {
		t.Fatalf("recorded %d entries", len(rec.recs))
	}
	got := rec.recs[0]
	if rec.guilds[0] != "g1" || got.Command != "polecen version" || got.Error != "boom" || got.Line != "polecen ver" {
		t.Errorf("record = %+v", got)
	}

	inv.GuildID = ""
	_ = wrapped.Run(context.Background(), inv)
	if len(rec.recs) != 1 {
		t.Error("DM invocation was recorded")
	}
}

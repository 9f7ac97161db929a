package command

import (
	"context"
	"errors"
	"testing"

	"github.com/keshon/cmdargs/pkg/args"
)

func TestNewSetRejectsSharedRootNames(t *testing.T) {
	_, err := NewSet([]Definition{
		{Name: "date", Aliases: []string{"d"}},
		{Name: "dice", Aliases: []string{"d"}},
	}, nil)
	if !errors.Is(err, ErrAmbiguousNode) {
		t.Fatalf("NewSet() error = %v, want ErrAmbiguousNode", err)
	}

	_, err = NewSet([]Definition{{Name: "ok"}, {Name: "bad", Arguments: []ArgumentDefinition{{Name: "x", Type: "nope"}}}}, nil)
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("NewSet() error = %v, want ErrUnknownType", err)
	}
}

func TestSetParseLine(t *testing.T) {
	set, err := NewSet([]Definition{polecenDefinition(), mathDefinition()}, nil)
	if err != nil {
		t.Fatalf("NewSet() error = %v", err)
	}
	if len(set.Roots()) != 2 {
		t.Fatalf("Roots() = %d", len(set.Roots()))
	}
	ctx := context.Background()

	res, err := set.ParseLine(ctx, "polecen ? ", guildContext())
	if err != nil {
		t.Fatalf("ParseLine() error = %v", err)
	}
	if res.Alias != "polecen" || res.Leaf().Name != "version" || res.Leaf().Alias != "?" {
		t.Errorf("unexpected result %+v / %+v", res, res.Leaf())
	}

	_, err = set.ParseLine(ctx, "math calc 1 + x", guildContext())
	re := readError(t, err)
	if re.Kind != ValueParseError || re.Position != 4 || re.Name != "rhs" {
		t.Errorf("got %+v, want ValueParseError at 4", re)
	}

	_, err = set.ParseLine(ctx, "polecen", guildContext())
	if re := readError(t, err); re.Kind != MissingSubcommand || re.Position != 1 {
		t.Errorf("got %+v, want MissingSubcommand{1}", re)
	}

	_, err = set.ParseLine(ctx, "", guildContext())
	if re := readError(t, err); re.Kind != MissingSubcommand || re.Position != 0 {
		t.Errorf("got %+v, want MissingSubcommand{0}", re)
	}

	_, err = set.ParseLine(ctx, "nope", guildContext())
	if re := readError(t, err); re.Kind != UnknownSubcommand || re.Given != "nope" {
		t.Errorf("got %+v, want UnknownSubcommand{nope}", re)
	}
}

func TestSetParseOptions(t *testing.T) {
	set, err := NewSet([]Definition{mathDefinition()}, nil)
	if err != nil {
		t.Fatalf("NewSet() error = %v", err)
	}
	res, err := set.ParseOptions(context.Background(), "math", []Option{
		{Name: "calc", Options: []Option{
			{Name: "lhs", Value: float64(6)},
			{Name: "op", Value: "*"},
			{Name: "rhs", Value: float64(7)},
		}},
	}, args.Context{})
	if err != nil {
		t.Fatalf("ParseOptions() error = %v", err)
	}
	m := res.Map()
	sub := m["subcommand"].(map[string]any)
	if sub["command"] != "calc" || sub["arguments"].(map[string]any)["rhs"] != 7 {
		t.Errorf("Map() = %v", m)
	}

	_, err = set.ParseOptions(context.Background(), "calc", nil, args.Context{})
	if !errors.Is(err, ErrUnknownSubcommand) {
		t.Errorf("ParseOptions(calc) error = %v", err)
	}
}

package command

import (
	"context"
	"errors"
	"testing"

	"github.com/keshon/cmdargs/pkg/args"
)

func TestCompileRejects(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
		want error
	}{
		{
			name: "empty name",
			def:  Definition{},
			want: ErrEmptyAliasSet,
		},
		{
			name: "required after optional",
			def: Definition{Name: "perform", Arguments: []ArgumentDefinition{
				{Name: "reason", Type: "text", Required: Optional()},
				{Name: "target", Type: "member"},
			}},
			want: ErrOptionalBeforeRequired,
		},
		{
			name: "arguments and children",
			def: Definition{
				Name:      "polecen",
				Arguments: []ArgumentDefinition{{Name: "x", Type: "int"}},
				Children:  []Definition{{Name: "version"}},
			},
			want: ErrAmbiguousNode,
		},
		{
			name: "overlapping sibling aliases",
			def: Definition{Name: "polecen", Children: []Definition{
				{Name: "version", Aliases: []string{"v"}},
				{Name: "verbose", Aliases: []string{"v"}},
			}},
			want: ErrAmbiguousNode,
		},
		{
			name: "sibling alias equals sibling name",
			def: Definition{Name: "polecen", Children: []Definition{
				{Name: "version"},
				{Name: "ver", Aliases: []string{"version"}},
			}},
			want: ErrAmbiguousNode,
		},
		{
			name: "duplicate argument",
			def: Definition{Name: "calc", Arguments: []ArgumentDefinition{
				{Name: "x", Type: "int"},
				{Name: "x", Type: "int"},
			}},
			want: ErrDuplicateArgument,
		},
		{
			name: "unnamed argument",
			def:  Definition{Name: "calc", Arguments: []ArgumentDefinition{{Type: "int"}}},
			want: ErrDuplicateArgument,
		},
		{
			name: "unknown type",
			def:  Definition{Name: "calc", Arguments: []ArgumentDefinition{{Name: "x", Type: "complex"}}},
			want: ErrUnknownType,
		},
		{
			name: "rest not last",
			def: Definition{Name: "say", Arguments: []ArgumentDefinition{
				{Name: "text", Type: "text", Rest: true},
				{Name: "to", Type: "user"},
			}},
			want: ErrMisplacedRest,
		},
		{
			name: "alias with space",
			def:  Definition{Name: "polecen", Aliases: []string{"po len"}},
			want: ErrInvalidAlias,
		},
		{
			name: "alias with quote",
			def:  Definition{Name: `"x"`},
			want: ErrInvalidAlias,
		},
		{
			name: "repeated alias",
			def:  Definition{Name: "version", Aliases: []string{"ver", "ver"}},
			want: ErrInvalidAlias,
		},
		{
			name: "nested child without name",
			def:  Definition{Name: "polecen", Children: []Definition{{Name: "perform"}, {}}},
			want: ErrEmptyAliasSet,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.def, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Compile() error = %v, want %v", err, tt.want)
			}
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("error %T is not a *SchemaError", err)
			}
		})
	}
}

func TestCompileSchemaErrorPath(t *testing.T) {
	def := Definition{Name: "polecen", Children: []Definition{
		{Name: "perform", Arguments: []ArgumentDefinition{
			{Name: "reason", Type: "text", Required: Optional()},
			{Name: "action", Type: "text"},
		}},
	}}
	_, err := Compile(def, nil)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("Compile() error = %v, want *SchemaError", err)
	}
	if len(se.Path) != 2 || se.Path[0] != "polecen" || se.Path[1] != "perform" {
		t.Errorf("Path = %v", se.Path)
	}
	if se.Argument != "action" {
		t.Errorf("Argument = %q, want action", se.Argument)
	}
	want := `required argument follows an optional one in "polecen perform" (argument "action")`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCompileUsesRegistry(t *testing.T) {
	def := Definition{Name: "paint", Arguments: []ArgumentDefinition{{Name: "colour", Type: "colour"}}}
	if _, err := Compile(def, nil); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("default registry: error = %v, want ErrUnknownType", err)
	}

	reg := args.Default().Clone()
	reg.Register("colour", func(_ context.Context, _ args.Context, raw args.Raw) (any, error) {
		s, _ := raw.String()
		return s, nil
	})
	node, err := Compile(def, reg)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := node.Arguments()[0].Type; got != "colour" {
		t.Errorf("Type = %q", got)
	}
}

func TestCompileTree(t *testing.T) {
	node := MustCompile(polecenDefinition(), nil)
	if !node.IsParent() {
		t.Fatal("root should be a parent")
	}
	children := node.Children()
	if len(children) != 2 {
		t.Fatalf("got %d children", len(children))
	}
	version := children[1]
	for _, alias := range []string{"version", "ver", "?"} {
		if c, ok := node.Child(alias); !ok || c != version {
			t.Errorf("Child(%q) did not select version", alias)
		}
	}
	if _, ok := node.Child("Version"); ok {
		t.Error("matching must be case sensitive")
	}
	perform := children[0]
	specs := perform.Arguments()
	if len(specs) != 3 || !specs[0].Required || !specs[1].Required || specs[2].Required {
		t.Errorf("unexpected argument specs %+v", specs)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic")
		}
	}()
	MustCompile(Definition{}, nil)
}

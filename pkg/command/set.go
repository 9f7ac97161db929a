package command

import (
	"context"
	"slices"
	"strconv"

	"github.com/keshon/cmdargs/pkg/args"
)

// Set is a group of root commands whose first token picks the root. Roots
// must not share names.
type Set struct {
	roots  []*Node
	parser *Parser
}

// NewSet compiles defs against reg (nil means args.Default()).
func NewSet(defs []Definition, reg *args.Registry) (*Set, error) {
	s := &Set{parser: NewParser(reg)}
	owner := make(map[string]string)
	for _, def := range defs {
		root, err := Compile(def, reg)
		if err != nil {
			return nil, err
		}
		for _, name := range root.names {
			if prev, ok := owner[name]; ok {
				return nil, &SchemaError{
					Kind:   AmbiguousNode,
					Path:   []string{root.Name()},
					Detail: "root alias " + strconv.Quote(name) + " already used by " + strconv.Quote(prev),
				}
			}
			owner[name] = root.Name()
		}
		s.roots = append(s.roots, root)
	}
	return s, nil
}

// Roots returns the root commands in declaration order.
func (s *Set) Roots() []*Node {
	return slices.Clone(s.roots)
}

// Lookup finds the root command that token names.
func (s *Set) Lookup(token string) (*Node, bool) {
	for _, r := range s.roots {
		if r.Matches(token) {
			return r, true
		}
	}
	return nil, false
}

// ParseLine tokenizes text, selects the root from the first token and parses
// the rest against it. Positions count from the root token.
func (s *Set) ParseLine(ctx context.Context, text string, pc args.Context) (*Result, error) {
	in, stop := Tokens(args.Split(text))
	defer stop()

	token, rest, ok := in.Selector()
	if !ok {
		return nil, &ReadError{Kind: MissingSubcommand, Position: 0}
	}
	root, ok := s.Lookup(token)
	if !ok {
		return nil, &ReadError{Kind: UnknownSubcommand, Position: 0, Given: token}
	}
	res, err := s.parser.Parse(ctx, root, rest, 1, pc)
	if err != nil {
		return nil, err
	}
	res.Alias = token
	return res, nil
}

// ParseOptions parses a structured payload addressed to the root called name.
func (s *Set) ParseOptions(ctx context.Context, name string, opts []Option, pc args.Context) (*Result, error) {
	root, ok := s.Lookup(name)
	if !ok {
		return nil, &ReadError{Kind: UnknownSubcommand, Position: 0, Given: name}
	}
	res, err := s.parser.Parse(ctx, root, Options(opts), 1, pc)
	if err != nil {
		return nil, err
	}
	res.Alias = name
	return res, nil
}

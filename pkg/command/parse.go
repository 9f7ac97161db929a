package command

import (
	"context"
	"errors"

	"github.com/keshon/cmdargs/pkg/args"
)

// Parser reads input against compiled schemas. The zero value uses
// args.Default(). A Parser holds no per-call state and may be shared.
type Parser struct {
	Registry *args.Registry
}

// NewParser returns a Parser resolving values through reg.
func NewParser(reg *args.Registry) *Parser {
	return &Parser{Registry: reg}
}

func (p *Parser) registry() *args.Registry {
	if p == nil || p.Registry == nil {
		return args.Default()
	}
	return p.Registry
}

// ParseLine splits text and parses it against schema from position 0.
func (p *Parser) ParseLine(ctx context.Context, schema *Node, text string, pc args.Context) (*Result, error) {
	in, stop := Tokens(args.Split(text))
	defer stop()
	return p.Parse(ctx, schema, in, 0, pc)
}

// ParseOptions parses a named structured payload against schema.
func (p *Parser) ParseOptions(ctx context.Context, schema *Node, opts []Option, pc args.Context) (*Result, error) {
	return p.Parse(ctx, schema, Options(opts), 0, pc)
}

// Parse reads in against node. position is the index of the next token in
// the full command line and is reported verbatim in errors. The first
// failure aborts the parse; no partial result is returned.
func (p *Parser) Parse(ctx context.Context, node *Node, in Input, position int, pc args.Context) (*Result, error) {
	if node.parent {
		token, child, ok := in.Selector()
		if !ok {
			return nil, &ReadError{Kind: MissingSubcommand, Position: position}
		}
		next, ok := node.Child(token)
		if !ok {
			return nil, &ReadError{Kind: UnknownSubcommand, Position: position, Given: token}
		}
		sub, err := p.Parse(ctx, next, child, position+1, pc)
		if err != nil {
			return nil, err
		}
		sub.Alias = token
		return &Result{Name: node.Name(), Sub: sub}, nil
	}

	reg := p.registry()
	res := &Result{Name: node.Name(), Values: make([]Value, 0, len(node.arguments))}
	for _, spec := range node.arguments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		val := Value{Name: spec.Name, Type: spec.Type}
		raw, n, ok := in.Argument(spec)
		if !ok {
			if spec.Required {
				return nil, &ReadError{Kind: RequiredArgumentMissing, Position: position, Name: spec.Name}
			}
			res.Values = append(res.Values, val)
			continue
		}
		resolve, found := reg.Lookup(spec.Type)
		if !found {
			// Compile checks types against a registry; a different one was
			// handed to this parser.
			return nil, &ReadError{Kind: ValueParseError, Position: position, Name: spec.Name, Err: args.TypeError()}
		}
		v, err := resolve(ctx, pc, raw)
		if err != nil {
			err = args.AsParseError(err)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, &ReadError{Kind: ValueParseError, Position: position, Name: spec.Name, Err: err}
		}
		val.Present, val.Value = true, v
		res.Values = append(res.Values, val)
		position += n
	}
	return res, nil
}

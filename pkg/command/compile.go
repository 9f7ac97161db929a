package command

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/keshon/cmdargs/pkg/args"
)

// Compile validates def and builds its schema. Argument types are checked
// against reg; a nil reg means args.Default().
func Compile(def Definition, reg *args.Registry) (*Node, error) {
	if reg == nil {
		reg = args.Default()
	}
	return compileNode(def, nil, reg)
}

// MustCompile is Compile for definitions known to be valid; it panics otherwise.
func MustCompile(def Definition, reg *args.Registry) *Node {
	n, err := Compile(def, reg)
	if err != nil {
		panic(err)
	}
	return n
}

func compileNode(def Definition, parentPath []string, reg *args.Registry) (*Node, error) {
	path := append(append([]string(nil), parentPath...), def.Name)
	if def.Name == "" {
		return nil, &SchemaError{Kind: EmptyAliasSet, Path: parentPath}
	}

	names := make([]string, 0, 1+len(def.Aliases))
	for _, name := range append([]string{def.Name}, def.Aliases...) {
		if name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 || strings.Contains(name, `"`) {
			return nil, &SchemaError{Kind: InvalidAlias, Path: path, Detail: "alias " + strconv.Quote(name)}
		}
		for _, seen := range names {
			if seen == name {
				return nil, &SchemaError{Kind: InvalidAlias, Path: path, Detail: "alias " + strconv.Quote(name) + " repeated"}
			}
		}
		names = append(names, name)
	}

	n := &Node{names: names, description: def.Description}

	if len(def.Children) > 0 {
		if len(def.Arguments) > 0 {
			return nil, &SchemaError{Kind: AmbiguousNode, Path: path, Detail: "node declares both arguments and children"}
		}
		n.parent = true
		owner := make(map[string]string)
		for _, childDef := range def.Children {
			child, err := compileNode(childDef, path, reg)
			if err != nil {
				return nil, err
			}
			for _, name := range child.names {
				if prev, ok := owner[name]; ok {
					return nil, &SchemaError{
						Kind:   AmbiguousNode,
						Path:   path,
						Detail: "alias " + strconv.Quote(name) + " used by both " + strconv.Quote(prev) + " and " + strconv.Quote(child.Name()),
					}
				}
				owner[name] = child.Name()
			}
			n.children = append(n.children, child)
		}
		return n, nil
	}

	seenOptional := false
	argNames := make(map[string]bool)
	for i, a := range def.Arguments {
		if a.Name == "" {
			return nil, &SchemaError{Kind: DuplicateArgument, Path: path, Detail: "argument without a name"}
		}
		if argNames[a.Name] {
			return nil, &SchemaError{Kind: DuplicateArgument, Path: path, Argument: a.Name}
		}
		argNames[a.Name] = true

		typ := args.TypeID(a.Type)
		if !reg.Has(typ) {
			return nil, &SchemaError{Kind: UnknownType, Path: path, Argument: a.Name, Detail: strconv.Quote(a.Type)}
		}
		if a.Rest && i != len(def.Arguments)-1 {
			return nil, &SchemaError{Kind: MisplacedRest, Path: path, Argument: a.Name}
		}

		required := a.IsRequired()
		if required && seenOptional {
			return nil, &SchemaError{Kind: OptionalBeforeRequired, Path: path, Argument: a.Name}
		}
		if !required {
			seenOptional = true
		}

		n.arguments = append(n.arguments, ArgumentSpec{
			Name:        a.Name,
			Type:        typ,
			Required:    required,
			Description: a.Description,
			Rest:        a.Rest,
		})
	}
	return n, nil
}

package command

import "github.com/keshon/cmdargs/pkg/args"

// Result is the outcome of parsing against a Node. For a parent, Sub holds
// the matched child's result; for a leaf, Values holds one entry per
// declared argument in declaration order.
type Result struct {
	// Name is the canonical name of the matched node.
	Name string
	// Alias is the token that selected the node; empty when the node was
	// parsed directly rather than selected by name.
	Alias  string
	Sub    *Result
	Values []Value
}

// Value is one parsed argument. Present is false for an optional argument
// that had no input.
type Value struct {
	Name    string
	Type    args.TypeID
	Present bool
	Value   any
}

// Leaf follows the chain of subcommands down to the leaf result.
func (r *Result) Leaf() *Result {
	for r.Sub != nil {
		r = r.Sub
	}
	return r
}

// Path returns the canonical names from r down to the leaf.
func (r *Result) Path() []string {
	var path []string
	for cur := r; cur != nil; cur = cur.Sub {
		path = append(path, cur.Name)
	}
	return path
}

// Lookup finds the leaf argument called name.
func (r *Result) Lookup(name string) (Value, bool) {
	for _, v := range r.Leaf().Values {
		if v.Name == name {
			return v, true
		}
	}
	return Value{}, false
}

// Get returns the parsed value of a leaf argument; ok is false when the
// argument is unknown or absent.
func (r *Result) Get(name string) (any, bool) {
	v, ok := r.Lookup(name)
	if !ok || !v.Present {
		return nil, false
	}
	return v.Value, true
}

// Get is the typed form of Result.Get.
func Get[T any](r *Result, name string) (T, bool) {
	var zero T
	v, ok := r.Get(name)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Map renders the result as nested maps, suitable for JSON output.
func (r *Result) Map() map[string]any {
	m := map[string]any{"command": r.Name}
	if r.Sub != nil {
		m["subcommand"] = r.Sub.Map()
		return m
	}
	values := make(map[string]any, len(r.Values))
	for _, v := range r.Values {
		if v.Present {
			values[v.Name] = v.Value
		} else {
			values[v.Name] = nil
		}
	}
	m["arguments"] = values
	return m
}

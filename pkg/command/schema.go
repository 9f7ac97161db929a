package command

import (
	"slices"

	"github.com/keshon/cmdargs/pkg/args"
)

// ArgumentSpec is a compiled argument declaration.
type ArgumentSpec struct {
	Name        string
	Type        args.TypeID
	Required    bool
	Description string
	Rest        bool
}

// Node is a compiled command: a leaf with ordered arguments or a parent with
// ordered children. Nodes are immutable and safe to share between
// goroutines.
type Node struct {
	names       []string
	description string
	arguments   []ArgumentSpec
	children    []*Node
	parent      bool
}

// Name returns the canonical name, used to tag results.
func (n *Node) Name() string { return n.names[0] }

// Aliases returns the names accepted besides the canonical one.
func (n *Node) Aliases() []string { return slices.Clone(n.names[1:]) }

// Names returns the canonical name followed by the aliases.
func (n *Node) Names() []string { return slices.Clone(n.names) }

func (n *Node) Description() string { return n.description }

// IsParent reports whether the node selects among children.
func (n *Node) IsParent() bool { return n.parent }

// Arguments returns the leaf's arguments in declaration order.
func (n *Node) Arguments() []ArgumentSpec { return slices.Clone(n.arguments) }

// Children returns the parent's children in declaration order.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Matches reports whether token is one of the node's names. Matching is case
// sensitive.
func (n *Node) Matches(token string) bool {
	return slices.Contains(n.names, token)
}

// Child returns the first child matching token.
func (n *Node) Child(token string) (*Node, bool) {
	for _, c := range n.children {
		if c.Matches(token) {
			return c, true
		}
	}
	return nil, false
}

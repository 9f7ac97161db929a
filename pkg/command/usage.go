package command

import "strings"

// Usage renders a one-line synopsis of node, e.g.
//
//	perform <target> <action> [reason]
//	polecen <perform|version>
func Usage(node *Node) string {
	var b strings.Builder
	b.WriteString(node.Name())
	if node.parent {
		names := make([]string, len(node.children))
		for i, c := range node.children {
			names[i] = c.Name()
		}
		b.WriteString(" <" + strings.Join(names, "|") + ">")
		return b.String()
	}
	for _, a := range node.arguments {
		b.WriteByte(' ')
		b.WriteString(argumentUsage(a))
	}
	return b.String()
}

func argumentUsage(a ArgumentSpec) string {
	name := a.Name
	if a.Rest {
		name += "..."
	}
	if a.Required {
		return "<" + name + ">"
	}
	return "[" + name + "]"
}

// Entry describes one reachable leaf.
type Entry struct {
	// Path holds the canonical names from the described node to the leaf.
	Path        []string
	Aliases     []string
	Usage       string
	Description string
	Arguments   []ArgumentSpec
}

func (e Entry) String() string {
	if e.Description == "" {
		return e.Usage
	}
	return e.Usage + " - " + e.Description
}

// Describe lists every leaf under node in declaration order.
func Describe(node *Node) []Entry {
	var out []Entry
	describe(node, nil, &out)
	return out
}

func describe(node *Node, prefix []string, out *[]Entry) {
	path := append(append([]string(nil), prefix...), node.Name())
	if node.parent {
		for _, c := range node.children {
			describe(c, path, out)
		}
		return
	}
	usage := Usage(node)
	if len(prefix) > 0 {
		usage = strings.Join(prefix, " ") + " " + usage
	}
	*out = append(*out, Entry{
		Path:        path,
		Aliases:     node.Aliases(),
		Usage:       usage,
		Description: node.description,
		Arguments:   node.Arguments(),
	})
}

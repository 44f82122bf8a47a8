// Package selection models the look-ahead view of a GraphQL field: its name,
// alias, arguments and the fields selected beneath it.
//
// The executor builds one Node per database-backed root field before the field
// is resolved, and the query translator walks it to emit a single DQL query.
// Nodes are read-only once built.
package selection

import (
	"fmt"
	"sort"
	"strings"
)

// Argument is a name/value pair supplied to a field. Values are nil, string,
// int, int64, float64, bool, []any or map[string]any.
type Argument struct {
	Name  string
	Value any
}

// ArgumentSource gives keyed access to field arguments.
type ArgumentSource interface {
	Argument(name string) (any, bool)
}

// Node is one field of a selection tree.
type Node struct {
	name     string
	alias    string
	args     []Argument
	children []*Node
	index    map[string]int
}

// New returns a node for the given field.
func New(name, alias string, args ...Argument) *Node {
	return &Node{name: name, alias: alias, args: args}
}

// Name returns the field name.
func (n *Node) Name() string { return n.name }

// Alias returns the alias the client chose, or "".
func (n *Node) Alias() string { return n.alias }

// ResponseName returns the alias when set and the field name otherwise.
func (n *Node) ResponseName() string {
	if n.alias != "" {
		return n.alias
	}
	return n.name
}

// Arguments returns the field arguments in the order they were written.
func (n *Node) Arguments() []Argument { return n.args }

// Argument implements ArgumentSource.
func (n *Node) Argument(name string) (any, bool) {
	for _, a := range n.args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// Children returns the selected subfields.
func (n *Node) Children() []*Node { return n.children }

// ChildNames returns the field names of the selected subfields. A name occurs
// more than once only when the same field is selected with different
// arguments.
func (n *Node) ChildNames() []string {
	names := make([]string, len(n.children))
	for i, c := range n.children {
		names[i] = c.name
	}
	return names
}

// Child returns the first subfield named name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Add attaches child beneath n. A child addressing the same stored value as an
// existing one (same field name and identical arguments) is merged into it, so
// that each stored value is fetched once no matter how many aliases select it.
func (n *Node) Add(child *Node) *Node {
	key := child.key()
	if i, ok := n.index[key]; ok {
		existing := n.children[i]
		for _, gc := range child.children {
			existing.Add(gc)
		}
		return n
	}
	if n.index == nil {
		n.index = make(map[string]int)
	}
	n.index[key] = len(n.children)
	n.children = append(n.children, child)
	return n
}

// key identifies the stored value a node addresses.
func (n *Node) key() string {
	if len(n.args) == 0 {
		return n.name
	}
	return n.name + "(" + CanonicalArguments(n.args) + ")"
}

// String renders the tree in GraphQL-like notation. Used in logs and tests.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n.alias != "" && n.alias != n.name {
		b.WriteString(n.alias)
		b.WriteString(": ")
	}
	b.WriteString(n.name)
	if len(n.args) > 0 {
		b.WriteString("(")
		b.WriteString(CanonicalArguments(n.args))
		b.WriteString(")")
	}
	if len(n.children) > 0 {
		b.WriteString(" { ")
		for i, c := range n.children {
			if i > 0 {
				b.WriteString(" ")
			}
			c.write(b)
		}
		b.WriteString(" }")
	}
}

// CanonicalArguments renders arguments sorted by name with their values in a
// stable notation, so that equal argument sets render identically.
func CanonicalArguments(args []Argument) string {
	sorted := make([]Argument, len(args))
	copy(sorted, args)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	parts := make([]string, len(sorted))
	for i, a := range sorted {
		parts[i] = a.Name + ": " + CanonicalValue(a.Value)
	}
	return strings.Join(parts, ", ")
}

// CanonicalValue renders a single argument value.
func CanonicalValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = CanonicalValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + CanonicalValue(v[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// MapArguments adapts an argument map, as produced by argument coercion, to
// ArgumentSource.
type MapArguments map[string]any

func (m MapArguments) Argument(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

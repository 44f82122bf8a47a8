package dql

import (
	"fmt"
	"strings"
)

// Scalar selects a value predicate under its own name.
func Scalar(predicate string) string { return predicate }

// Renamed selects predicate under label, e.g. Renamed("id", "uid").
func Renamed(label, predicate string) string { return label + ": " + predicate }

// Edge describes a traversal from one node to related nodes.
type Edge struct {
	// Label is the key the result is stored under. Empty means Predicate.
	Label string
	// Predicate is the edge name in the database.
	Predicate string
	// Reverse traverses the edge backwards (~predicate).
	Reverse bool
	// Type restricts targets to nodes of a dgraph type. Empty means no filter.
	Type string
	// Match adds a full-text term filter to the type filter.
	Match *TermMatch
	// OrderDescFacet orders targets by a facet on the edge, highest first.
	OrderDescFacet string
	// First limits the number of targets. Zero means unlimited.
	First int
}

// TermMatch filters targets whose Field contains any of the terms in Term.
// Term must already satisfy SearchTerm.
type TermMatch struct {
	Func  string
	Field string
	Term  string
}

// Wrap renders the edge around the fragment selected on its targets. A
// fragment of several lines is indented in a block of its own.
func (e Edge) Wrap(inner string) string {
	var b strings.Builder
	pred := e.Predicate
	if e.Reverse {
		pred = "~" + pred
	}
	label := e.Label
	if label == "" {
		label = e.Predicate
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(pred)
	if filter := e.filter(); filter != "" {
		b.WriteString(" @filter(")
		b.WriteString(filter)
		b.WriteString(")")
	}
	if e.OrderDescFacet != "" {
		fmt.Fprintf(&b, " @facets(orderdesc: %s)", e.OrderDescFacet)
	}
	if e.First > 0 {
		fmt.Fprintf(&b, " (first: %d)", e.First)
	}
	if !strings.Contains(inner, "\n") {
		b.WriteString(" { ")
		b.WriteString(inner)
		b.WriteString(" }")
		return b.String()
	}
	b.WriteString(" {\n  ")
	b.WriteString(strings.ReplaceAll(inner, "\n", "\n  "))
	b.WriteString("\n}")
	return b.String()
}

func (e Edge) filter() string {
	var parts []string
	if e.Type != "" {
		parts = append(parts, fmt.Sprintf("type(%s)", e.Type))
	}
	if m := e.Match; m != nil {
		fn := m.Func
		if fn == "" {
			fn = "anyofterms"
		}
		parts = append(parts, fmt.Sprintf("%s(%s, %q)", fn, m.Field, m.Term))
	}
	return strings.Join(parts, " AND ")
}

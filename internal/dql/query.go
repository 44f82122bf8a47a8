// Package dql compiles GraphQL selection trees into Dgraph queries.
//
// Each entity type supplies a FieldMapper that knows, for each of its fields,
// which predicate or edge realizes it. InnerQuery walks a selection with a
// mapper, recursing into related entities through their own mappers, and
// either returns the whole fragment or a CompositeError listing every field it
// could not translate.
package dql

import (
	"fmt"
	"strings"

	"github.com/hanpama/haikugraph/internal/selection"
)

// FieldMapper translates the fields of one entity type.
type FieldMapper interface {
	// DgraphType is the dgraph type entities of this kind carry.
	DgraphType() string
	// MapField returns the fragment realizing child, or a QueryError.
	// Unrecognized fields must yield *UnknownFieldError.
	MapField(child *selection.Node) (string, error)
}

// InnerQuery translates every field selected beneath sel. Failures are not
// reported one at a time: all of them are returned together as a
// *CompositeError at sel's field name.
func InnerQuery(m FieldMapper, sel *selection.Node) (string, error) {
	var (
		fragments []string
		failures  []QueryError
	)
	for _, child := range sel.Children() {
		fragment, err := m.MapField(child)
		if err != nil {
			failures = append(failures, asQueryError(child.Name(), err))
			continue
		}
		fragments = append(fragments, fragment)
	}
	if len(failures) > 0 {
		return "", &CompositeError{AtField: sel.Name(), Children: failures}
	}
	if len(fragments) == 0 {
		// Only __typename was selected. An empty block matches nothing, so
		// fetch the uid to keep the nodes in the result.
		return Placeholder, nil
	}
	return strings.Join(fragments, "\n"), nil
}

// Placeholder is selected for a node when no field of it maps to a predicate.
const Placeholder = "dgraph.uid: uid"

// Nested translates child as a related entity reached through edge.
func Nested(edge Edge, m FieldMapper, child *selection.Node) (string, error) {
	inner, err := InnerQuery(m, child)
	if err != nil {
		return "", err
	}
	if edge.Type == "" {
		edge.Type = m.DgraphType()
	}
	return edge.Wrap(inner), nil
}

// Search translates child as a bounded full-text search over the targets of
// edge. child must carry a term and a first argument; the block is aliased to
// the fingerprint of the field and its arguments.
func Search(edge Edge, field string, m FieldMapper, child *selection.Node) (string, error) {
	args, argErr := ValidateArgs(child, SearchArgs...)
	inner, innerErr := InnerQuery(m, child)
	if argErr != nil || innerErr != nil {
		var failures []QueryError
		if argErr != nil {
			failures = append(failures, asQueryError(child.Name(), argErr))
		}
		if ce, ok := innerErr.(*CompositeError); ok {
			failures = append(failures, ce.Children...)
		} else if innerErr != nil {
			failures = append(failures, asQueryError(child.Name(), innerErr))
		}
		return "", &CompositeError{AtField: child.Name(), Children: failures}
	}
	edge.Label = Fingerprint(child.Name(), args)
	if edge.Type == "" {
		edge.Type = m.DgraphType()
	}
	edge.Match = &TermMatch{Func: "anyofterms", Field: field, Term: args.String("term")}
	edge.First = args.Int("first")
	return edge.Wrap(inner), nil
}

// SearchArgs declares the arguments of search fields.
var SearchArgs = []ArgSpec{
	{Name: "term", Kind: KindString, Check: SearchTerm},
	{Name: "first", Kind: KindInt, Check: PageSize},
}

// Query is a compiled root query and the variables the driver binds into it.
type Query struct {
	// Block names the root query block; the result is found under it.
	Block string
	Text  string
	Vars  map[string]string
}

// RootQuery compiles sel into a named query fetching the single node whose uid
// is passed as $id. The uid is bound by the driver and never written into the
// query text.
func RootQuery(block string, m FieldMapper, sel *selection.Node, uid string) (Query, error) {
	inner, err := InnerQuery(m, sel)
	if err != nil {
		return Query{}, err
	}
	text := fmt.Sprintf(`query %s($id: string) {
  %s(func: uid($id)) @filter(type(%s)) {
    %s
  }
}`, block, block, m.DgraphType(), strings.ReplaceAll(inner, "\n", "\n    "))
	return Query{Block: block, Text: text, Vars: map[string]string{"$id": uid}}, nil
}

package executor

import (
	"fmt"

	language "github.com/hanpama/haikugraph/internal/language"
	schema "github.com/hanpama/haikugraph/internal/schema"
	"github.com/hanpama/haikugraph/internal/selection"
)

// Lookahead returns the look-ahead of every async field in the root selection
// set of the operation, in query order, without resolving anything.
func Lookahead(sch *schema.Schema, document *language.QueryDocument, operationName string, variableValues map[string]any) ([]*selection.Node, error) {
	operation := getOperation(document, operationName)
	if operation == nil {
		return nil, fmt.Errorf("operation not found")
	}
	coerced, err := coerceVariableValues(sch, operation, variableValues)
	if err != nil {
		return nil, err
	}
	rootType, err := rootTypeFor(sch, operation)
	if err != nil {
		return nil, err
	}
	state := &executionState{schema: sch, document: document, variableValues: coerced}
	var out []*selection.Node
	for _, cf := range collectFields(state, rootType, operation.SelectionSet).orderedFields() {
		def := getFieldDefinition(rootType, cf.Fields[0].Name)
		if def == nil || !def.Async {
			continue
		}
		out = append(out, buildSelection(state, rootType, cf.Fields))
	}
	return out, nil
}

// buildSelection builds the look-ahead of a field group collected on
// parentType. Unknown fields are kept: it is up to the consumer to reject
// them.
func buildSelection(state *executionState, parentType *schema.Type, fields []*language.Field) *selection.Node {
	first := fields[0]
	node := selection.New(first.Name, first.Alias, lookaheadArguments(state, first.Arguments)...)
	var fieldType *schema.Type
	if parentType != nil {
		if def := getFieldDefinition(parentType, first.Name); def != nil {
			fieldType = state.schema.Types[schema.GetNamedType(def.Type)]
		}
	}
	visited := make(map[string]bool)
	for _, f := range fields {
		addLookahead(state, fieldType, f.SelectionSet, node, visited)
	}
	return node
}

func addLookahead(state *executionState, typ *schema.Type, selectionSet language.SelectionSet, parent *selection.Node, visited map[string]bool) {
	for _, sel := range selectionSet {
		switch sel := sel.(type) {
		case *language.Field:
			if sel.Name == "__typename" || !shouldIncludeNode(state, sel.Directives) {
				continue
			}
			parent.Add(buildSelection(state, typ, []*language.Field{sel}))
		case *language.InlineFragment:
			if !shouldIncludeNode(state, sel.Directives) || !typeConditionMatches(typ, sel.TypeCondition) {
				continue
			}
			addLookahead(state, typ, sel.SelectionSet, parent, visited)
		case *language.FragmentSpread:
			if !shouldIncludeNode(state, sel.Directives) || visited[sel.Name] {
				continue
			}
			visited[sel.Name] = true
			def := getFragmentDefinition(state.document, sel.Name)
			if def == nil || !typeConditionMatches(typ, def.TypeCondition) || !shouldIncludeNode(state, def.Directives) {
				continue
			}
			addLookahead(state, typ, def.SelectionSet, parent, visited)
		}
	}
}

func lookaheadArguments(state *executionState, arguments language.ArgumentList) []selection.Argument {
	out := make([]selection.Argument, 0, len(arguments))
	for _, arg := range arguments {
		out = append(out, selection.Argument{
			Name:  arg.Name,
			Value: valueFromASTWithVars(arg.Value, state.variableValues),
		})
	}
	return out
}

func typeConditionMatches(typ *schema.Type, condition string) bool {
	return condition == "" || typ == nil || condition == typ.Name
}

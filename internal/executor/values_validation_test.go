package executor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	language "github.com/hanpama/haikugraph/internal/language"
	schema "github.com/hanpama/haikugraph/internal/schema"
)

func variablesOf(t *testing.T, query string) *language.OperationDefinition {
	t.Helper()
	return mustParseQuery(t, query).Operations[0]
}

func TestCoerceVariableValues_ScalarTypeMismatch(t *testing.T) {
	sch := &schema.Schema{}

	op := &language.OperationDefinition{
		Operation: language.Query,
		VariableDefinitions: ast.VariableDefinitionList{
			&ast.VariableDefinition{
				Variable: "count",
				Type:     &ast.Type{NamedType: "Int", NonNull: true},
			},
		},
	}

	_, err := coerceVariableValues(sch, op, map[string]any{
		"count": "42",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot coerce")
}

func TestCoerceVariableValues_Int(t *testing.T) {
	op := variablesOf(t, `query ($first: Int) { a }`)

	got, err := coerceVariableValues(&schema.Schema{}, op, map[string]any{"first": float64(3)})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"first": 3}, got)

	_, err = coerceVariableValues(&schema.Schema{}, op, map[string]any{"first": 2.5})
	require.ErrorContains(t, err, "variable $first of type Int cannot be coerced")

	_, err = coerceVariableValues(&schema.Schema{}, op, map[string]any{"first": float64(1 << 40)})
	require.ErrorContains(t, err, "out of the Int range")
}

func TestCoerceVariableValues_Lists(t *testing.T) {
	op := variablesOf(t, `query ($ids: [ID!]!) { a }`)

	got, err := coerceVariableValues(&schema.Schema{}, op, map[string]any{"ids": []any{"0x1", 2}})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"ids": []any{"0x1", "2"}}, got)

	// A single value stands for a list of one.
	got, err = coerceVariableValues(&schema.Schema{}, op, map[string]any{"ids": "0x1"})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"ids": []any{"0x1"}}, got)

	_, err = coerceVariableValues(&schema.Schema{}, op, map[string]any{"ids": []any{"0x1", nil}})
	require.ErrorContains(t, err, "cannot provide null for non-null type")
}

func TestCoerceVariableValues_Boolean(t *testing.T) {
	op := variablesOf(t, `query ($withAuthor: Boolean = false) { a }`)

	got, err := coerceVariableValues(&schema.Schema{}, op, nil)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"withAuthor": false}, got)

	_, err = coerceVariableValues(&schema.Schema{}, op, map[string]any{"withAuthor": "yes"})
	require.ErrorContains(t, err, "cannot coerce yes (string) to boolean")
}

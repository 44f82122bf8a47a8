package introspection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	executor "github.com/hanpama/haikugraph/internal/executor"
	language "github.com/hanpama/haikugraph/internal/language"
	schema "github.com/hanpama/haikugraph/internal/schema"
)

const testSDL = `
"Library root"
type Query {
  hello: String
  book(id: ID!): Book
}

"A bound book"
type Book {
  id: ID!
  title: String @deprecated(reason: "use name")
  name: String!
  tags(first: Int = 10): [String!]!
  cover: Cover
}

enum Cover { HARD SOFT @deprecated }
`

func execute(t *testing.T, query string) *executor.ExecutionResult {
	t.Helper()
	sch, err := schema.BuildFromSDL("test.graphql", testSDL)
	require.NoError(t, err)
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.hello": executor.NewMockValueResolver("world"),
	})
	w := Wrap(rt, sch)
	doc, err := language.ParseQuery(query)
	require.NoError(t, err)
	return executor.NewExecutor(w.Runtime, w.Schema).ExecuteRequest(context.Background(), doc, "", nil, nil)
}

func TestSchemaQueryType(t *testing.T) {
	res := execute(t, `{ hello __schema { queryType { name kind } mutationType { name } } }`)
	require.Empty(t, res.Errors)
	require.Equal(t, map[string]any{
		"hello": "world",
		"__schema": map[string]any{
			"queryType":    map[string]any{"name": "Query", "kind": "OBJECT"},
			"mutationType": nil,
		},
	}, res.Data)
}

func TestTypeFieldsAndWrappers(t *testing.T) {
	res := execute(t, `{
		__type(name: "Book") {
			kind
			description
			fields {
				name
				type { kind name ofType { kind name ofType { kind name ofType { name kind } } } }
			}
		}
	}`)
	require.Empty(t, res.Errors)
	typ := res.Data.(map[string]any)["__type"].(map[string]any)
	require.Equal(t, "OBJECT", typ["kind"])
	require.Equal(t, "A bound book", typ["description"])

	fields := typ["fields"].([]any)
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.(map[string]any)["name"].(string)
	}
	require.Equal(t, []string{"id", "name", "tags", "cover"}, names)

	tags := fields[2].(map[string]any)["type"]
	require.Equal(t, map[string]any{
		"kind": "NON_NULL",
		"name": nil,
		"ofType": map[string]any{
			"kind": "LIST",
			"name": nil,
			"ofType": map[string]any{
				"kind":   "NON_NULL",
				"name":   nil,
				"ofType": map[string]any{"name": "String", "kind": "SCALAR"},
			},
		},
	}, tags)

	cover := fields[3].(map[string]any)["type"]
	require.Equal(t, map[string]any{"kind": "ENUM", "name": "Cover", "ofType": nil}, cover)
}

func TestDeprecationAndDefaults(t *testing.T) {
	res := execute(t, `{
		book: __type(name: "Book") {
			fields(includeDeprecated: true) {
				name
				isDeprecated
				deprecationReason
				args { name defaultValue }
			}
		}
		cover: __type(name: "Cover") {
			enumValues { name }
			all: enumValues(includeDeprecated: true) { name isDeprecated }
		}
	}`)
	require.Empty(t, res.Errors)
	data := res.Data.(map[string]any)

	fields := data["book"].(map[string]any)["fields"].([]any)
	require.Len(t, fields, 5)
	title := fields[1].(map[string]any)
	require.Equal(t, "title", title["name"])
	require.Equal(t, true, title["isDeprecated"])
	require.Equal(t, "use name", title["deprecationReason"])
	tags := fields[3].(map[string]any)
	require.Equal(t, []any{map[string]any{"name": "first", "defaultValue": "10"}}, tags["args"])

	cover := data["cover"].(map[string]any)
	require.Equal(t, []any{map[string]any{"name": "HARD"}}, cover["enumValues"])
	require.Len(t, cover["all"], 2)
}

func TestUnknownTypeIsNull(t *testing.T) {
	res := execute(t, `{ __type(name: "Nope") { name } }`)
	require.Empty(t, res.Errors)
	require.Equal(t, map[string]any{"__type": nil}, res.Data)
}

func TestRootFieldsAreHidden(t *testing.T) {
	res := execute(t, `{ __type(name: "Query") { description fields { name } } }`)
	require.Empty(t, res.Errors)
	require.Equal(t, map[string]any{"__type": map[string]any{
		"description": "Library root",
		"fields": []any{
			map[string]any{"name": "hello"},
			map[string]any{"name": "book"},
		},
	}}, res.Data)
}

func TestTypenameField(t *testing.T) {
	sch, err := schema.BuildFromSDL("test.graphql", testSDL)
	require.NoError(t, err)
	// __typename works without the wrapper
	exec := executor.NewExecutor(executor.NewMockRuntime(nil), sch)
	doc, err := language.ParseQuery("{__typename}")
	require.NoError(t, err)
	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)
	require.Empty(t, res.Errors)
	require.Equal(t, map[string]any{"__typename": "Query"}, res.Data)
}

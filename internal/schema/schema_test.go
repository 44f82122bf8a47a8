package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const testSDL = `
"An instant in time."
scalar DateTime

enum Mood {
  CALM
  STORMY @deprecated(reason: "use CALM")
}

type Query {
  version: String!
  poem(id: ID!): Poem
  poems(first: Int = 10): [Poem!]!
}

type Poem {
  id: ID!
  lines(max: Int = 3): [String!]!
  mood: Mood
  postedAt: DateTime!
  old: String @deprecated
}
`

func TestBuildFromSDL(t *testing.T) {
	s, err := BuildFromSDL("test.graphql", testSDL)
	require.NoError(t, err)

	require.Equal(t, "Query", s.QueryType)
	require.Nil(t, s.GetMutationType())

	query := s.GetQueryType()
	require.NotNil(t, query)
	require.Equal(t, []string{"version", "poem", "poems"}, fieldNames(query))
	require.False(t, query.Field("version").Async)
	require.True(t, query.Field("poem").Async)
	require.True(t, query.Field("poems").Async)
	require.Equal(t, 10, int(query.Field("poems").Arguments[0].DefaultValue.(int64)))

	poem := s.Types["Poem"]
	require.Equal(t, TypeKindObject, poem.Kind)
	for _, f := range poem.Fields {
		require.False(t, f.Async, f.Name)
	}
	if diff := cmp.Diff(NonNullType(ListType(NonNullType(NamedType("String")))), poem.Field("lines").Type); diff != "" {
		t.Fatalf("type mismatch (-want +got):\n%s", diff)
	}
	require.True(t, poem.Field("old").IsDeprecated)
	require.Equal(t, "No longer supported", poem.Field("old").DeprecationReason)

	mood := s.Types["Mood"]
	require.Equal(t, TypeKindEnum, mood.Kind)
	require.True(t, mood.EnumValues[1].IsDeprecated)
	require.Equal(t, "use CALM", mood.EnumValues[1].DeprecationReason)

	require.Equal(t, "An instant in time.", s.Types["DateTime"].Description)
}

func TestBuildFromSDL_IncludesPrelude(t *testing.T) {
	s, err := BuildFromSDL("test.graphql", testSDL)
	require.NoError(t, err)

	for _, name := range []string{"String", "Int", "Float", "Boolean", "ID", "__Schema", "__Type", "__TypeKind"} {
		require.Contains(t, s.Types, name)
	}
	for _, name := range []string{"include", "skip", "deprecated"} {
		require.Contains(t, s.Directives, name)
	}
	require.Nil(t, s.GetQueryType().Field("__schema"))
	require.Nil(t, s.Types["Poem"].Field("__typename"))
}

func TestBuildFromSDL_Invalid(t *testing.T) {
	_, err := BuildFromSDL("bad.graphql", `type Query { poem: Missing }`)
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	s, err := BuildFromSDL("test.graphql", testSDL)
	require.NoError(t, err)

	want := `"""
An instant in time.
"""
scalar DateTime

enum Mood {
  CALM
  STORMY @deprecated(reason: "use CALM")
}

type Poem {
  id: ID!
  lines(max: Int = 3): [String!]!
  mood: Mood
  postedAt: DateTime!
  old: String @deprecated(reason: "No longer supported")
}

type Query {
  version: String!
  poem(id: ID!): Poem
  poems(first: Int = 10): [Poem!]!
}
`
	if diff := cmp.Diff(want, Render(s)); diff != "" {
		t.Fatalf("render mismatch (-want +got):\n%s", diff)
	}

	again, err := BuildFromSDL("rendered.graphql", Render(s))
	require.NoError(t, err)
	require.Equal(t, Render(s), Render(again))
}

func fieldNames(t *Type) []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

package executor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hanpama/haikugraph/internal/selection"
	"github.com/stretchr/testify/require"
)

func renderAll(nodes []*selection.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.String()
	}
	return out
}

func TestLookahead(t *testing.T) {
	sch := mustLibrarySchema(t)
	doc := mustParseQuery(t, `
query Q($withAuthor: Boolean!, $n: Int) {
  version
  book(id: "1") {
    title
    t2: title
    ...BookParts
    ... on Book { author { name } }
    tags(first: $n)
    skipped: id @skip(if: true)
    author @include(if: $withAuthor) { alias: name }
    ... on Author { ignored }
  }
  books { tags }
}

fragment BookParts on Book { id __typename }
`)

	got, err := Lookahead(sch, doc, "Q", map[string]any{"withAuthor": true, "n": 3})
	require.NoError(t, err)

	want := []string{
		`book(id: "1") { title id author { name } tags(first: 3) }`,
		`books { tags }`,
	}
	if diff := cmp.Diff(want, renderAll(got)); diff != "" {
		t.Fatalf("lookahead mismatch (-want +got):\n%s", diff)
	}
}

func TestLookahead_ExcludedBranches(t *testing.T) {
	sch := mustLibrarySchema(t)
	doc := mustParseQuery(t, `
query ($withAuthor: Boolean!) {
  book(id: "1") {
    author @include(if: $withAuthor) { name }
    ...Extra @skip(if: true)
  }
}

fragment Extra on Book { title }
`)

	got, err := Lookahead(sch, doc, "", map[string]any{"withAuthor": false})
	require.NoError(t, err)
	require.Equal(t, []string{`book(id: "1")`}, renderAll(got))
}

func TestLookahead_DistinctArgumentsStayApart(t *testing.T) {
	sch := mustLibrarySchema(t)
	doc := mustParseQuery(t, `{ book(id: "1") { few: tags(first: 1) many: tags(first: 5) again: tags(first: 1) } }`)

	got, err := Lookahead(sch, doc, "", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, []string{"tags", "tags"}, got[0].ChildNames())
	require.Equal(t, "few", got[0].Children()[0].Alias())
	require.Equal(t, `book(id: "1") { few: tags(first: 1) many: tags(first: 5) }`, got[0].String())
}

func TestLookahead_MissingVariable(t *testing.T) {
	sch := mustLibrarySchema(t)
	doc := mustParseQuery(t, `query ($id: ID!) { book(id: $id) { id } }`)

	_, err := Lookahead(sch, doc, "", nil)
	require.Error(t, err)

	doc = mustParseQuery(t, `query ($n: Int) { book(id: "1") { tags(first: $n) } }`)
	got, err := Lookahead(sch, doc, "", nil)
	require.NoError(t, err)
	v, ok := got[0].Child("tags").Argument("first")
	require.True(t, ok)
	require.Nil(t, v)
}

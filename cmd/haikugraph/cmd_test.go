package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanpama/haikugraph/internal/eventbus"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const userQuery = `query User($id: ID!) {
  apiVersion
  me: discordUser(id: $id) { discordSnowflake haikus { id } }
}`

func TestCompile(t *testing.T) {
	file := writeFile(t, "user.graphql", userQuery)

	out, err := execute(t, "", "compile", "--variables", `{"id":"0x1a"}`, file)
	require.NoError(t, err)
	require.Equal(t, `# me
query discordUser($id: string) {
  discordUser(func: uid($id)) @filter(type(DiscordUser)) {
    discordSnowflake
    haikus: ~author @filter(type(Haiku)) { id: uid }
  }
}
# vars: {"$id":"0x1a"}
`, out)
}

func TestCompile_Stdin(t *testing.T) {
	out, err := execute(t, `{ person(id: "0x2") { name } }`, "compile")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "# person\nquery person($id: string) {"), out)
}

func TestCompile_ReportsFieldErrors(t *testing.T) {
	out, err := execute(t, `{ a: haiku(haikuId: "0x1") { nope } b: person(id: "zz") { name } }`, "compile")
	require.EqualError(t, err, "2 of 2 root fields failed to compile")
	require.Contains(t, out, "# a\n")
	require.Contains(t, out, `"message": "Error generating DB query"`)
	require.Contains(t, out, `"invalid_query"`)
	require.Contains(t, out, "# b\n")
	require.Contains(t, out, `"message": "invalid_input"`)
}

func TestCompile_MissingVariable(t *testing.T) {
	_, err := execute(t, userQuery, "compile")
	require.Error(t, err)
}

func TestCompile_VariablesFromEnvironment(t *testing.T) {
	t.Setenv("HAIKUGRAPH_VARIABLES", `{"id":"0x7"}`)
	out, err := execute(t, userQuery, "compile")
	require.NoError(t, err)
	require.Contains(t, out, `# vars: {"$id":"0x7"}`)
}

func TestCompile_ConfigFile(t *testing.T) {
	cfg := writeFile(t, "haikugraph.yaml", "operation: Second\nvariables: '{\"id\":\"0x9\"}'\n")
	doc := `query First { apiVersion } query Second($id: ID!) { discordServer(id: $id) { discordSnowflake } }`

	out, err := execute(t, doc, "--config", cfg, "compile")
	require.NoError(t, err)
	require.Contains(t, out, "# discordServer\n")
	require.Contains(t, out, `# vars: {"$id":"0x9"}`)
}

func TestSchema(t *testing.T) {
	out, err := execute(t, "", "schema")
	require.NoError(t, err)
	require.Contains(t, out, "type Haiku {")
	require.Contains(t, out, "searchHaikus(term: String!, first: Int!): [Haiku!]!")
	require.NotContains(t, out, "__Schema")
}

func TestBuildHandler(t *testing.T) {
	t.Cleanup(func() { eventbus.Use(nil) })
	sc := newServeCmd()
	require.NoError(t, sc.Conf.BindPFlags(sc.Cmd.Flags()))
	sc.Conf.Set("metrics", false)

	h, cleanup, err := buildHandler(sc.Conf)
	require.NoError(t, err)
	defer cleanup()

	req := httptest.NewRequest("POST", GraphQLPath, strings.NewReader(`{"query":"{ apiVersion __schema { queryType { name } } }"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"data":{"apiVersion":"1.0","__schema":{"queryType":{"name":"Query"}}}}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/debug/prometheus_metrics", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuildHandler_WithoutIntrospection(t *testing.T) {
	t.Cleanup(func() { eventbus.Use(nil) })
	sc := newServeCmd()
	require.NoError(t, sc.Conf.BindPFlags(sc.Cmd.Flags()))
	sc.Conf.Set("metrics", false)
	sc.Conf.Set("introspection", false)

	h, cleanup, err := buildHandler(sc.Conf)
	require.NoError(t, err)
	defer cleanup()

	req := httptest.NewRequest("POST", GraphQLPath, strings.NewReader(`{"query":"{ __schema { queryType { name } } }"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Contains(t, w.Body.String(), `"errors"`)
}

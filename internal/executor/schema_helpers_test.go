package executor

import (
	"strings"
	"testing"

	schema "github.com/hanpama/haikugraph/internal/schema"
	"github.com/stretchr/testify/require"
)

// mustBuildSchema builds sdl and marks exactly the listed "Type.field"
// coordinates as async. Every other field resolves synchronously.
func mustBuildSchema(t *testing.T, sdl string, async ...string) *schema.Schema {
	t.Helper()
	sch, err := schema.BuildFromSDL("test.graphql", sdl)
	require.NoError(t, err)
	for _, typ := range sch.Types {
		for _, f := range typ.Fields {
			f.Async = false
		}
	}
	for _, coord := range async {
		typeName, fieldName, _ := strings.Cut(coord, ".")
		typ := sch.Types[typeName]
		require.NotNil(t, typ, coord)
		f := typ.Field(fieldName)
		require.NotNil(t, f, coord)
		f.Async = true
	}
	return sch
}

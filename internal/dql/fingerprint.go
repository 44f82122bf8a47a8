package dql

import (
	"fmt"
	"strings"

	farm "github.com/dgryski/go-farm"
	"github.com/hanpama/haikugraph/internal/selection"
)

// Fingerprint names one parameterized instance of a field. The same field
// with the same validated arguments always yields the same name; different
// arguments yield different names barring a 64-bit hash collision.
//
// The name is used as the DQL alias of the field's block and as the key the
// resolver reads the block back from, e.g. "searchHaikus_5f0c2e4b1a2d3c4e".
func Fingerprint(field string, args Args) string {
	var b strings.Builder
	b.WriteString(field)
	for _, a := range args {
		b.WriteByte(0)
		b.WriteString(a.Name)
		b.WriteByte(0)
		b.WriteString(selection.CanonicalValue(a.Value))
	}
	return fmt.Sprintf("%s_%016x", field, farm.Fingerprint64([]byte(b.String())))
}

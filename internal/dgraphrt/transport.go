package dgraphrt

import (
	"context"

	"github.com/hanpama/haikugraph/internal/dql"
)

// Transport sends a compiled query to Dgraph and returns the JSON result, an
// object holding one array per query block.
//
// Implementations MUST be safe for concurrent use: loads of one batch run in
// parallel.
//
// Provided implementations:
// - internal/dgraphtp.Transport: dgo client over gRPC
// - fakeTransport in the tests of this package
type Transport interface {
	Query(ctx context.Context, q dql.Query) ([]byte, error)
}

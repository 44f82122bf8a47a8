// Package dgraphtp sends compiled queries to Dgraph alphas over gRPC.
package dgraphtp

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/dgo/v250"
	"github.com/dgraph-io/dgo/v250/protos/api"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/hanpama/haikugraph/internal/dql"
	eventbus "github.com/hanpama/haikugraph/internal/eventbus"
	events "github.com/hanpama/haikugraph/internal/events"
)

// Transport runs read-only queries against a set of alphas. Connections are
// created on first use; dgo spreads queries over the endpoints.
//
// Outgoing gRPC metadata on the query context, such as forwarded HTTP
// headers, reaches Dgraph unchanged.
type Transport struct {
	opts   *Options
	target string

	mu     sync.Mutex
	conns  []*grpc.ClientConn
	dg     *dgo.Dgraph
	closed atomic.Bool
}

func New(opts ...Option) *Transport {
	o := defaultOptions()
	for _, f := range opts {
		f(o)
	}
	if len(o.DialOptions) == 0 {
		o.DialOptions = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	target := strings.Join(o.Endpoints, ",")
	if len(o.Clients) > 0 {
		target = "custom"
	}
	return &Transport{opts: o, target: target}
}

// Query runs q in a read-only transaction and returns the raw JSON result.
func (t *Transport) Query(ctx context.Context, q dql.Query) ([]byte, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	dg, err := t.client()
	if err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok && t.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.QueryTimeout)
		defer cancel()
	}

	txn := dg.NewReadOnlyTxn()
	if t.opts.BestEffort {
		txn = txn.BestEffort()
	}
	defer func() { _ = txn.Discard(ctx) }()

	id := uuid.NewString()
	start := time.Now()
	eventbus.Publish(ctx, events.DgraphQueryStart{ID: id, Block: q.Block, Target: t.target})
	resp, err := txn.QueryWithVars(ctx, q.Text, q.Vars)
	var out []byte
	if err == nil {
		out = resp.GetJson()
	}
	eventbus.Publish(ctx, events.DgraphQueryFinish{
		ID:       id,
		Block:    q.Block,
		Target:   t.target,
		Bytes:    len(out),
		Err:      err,
		Duration: time.Since(start),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "dgraphtp: query %s", q.Block)
	}
	if glog.V(3) {
		glog.Infof("dgraphtp: %s answered %d bytes in %s", q.Block, len(out), time.Since(start))
	}
	return out, nil
}

// Close releases every connection. Queries issued afterwards fail with
// ErrClosed.
func (t *Transport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var first error
	for _, cc := range t.conns {
		if err := cc.Close(); err != nil && first == nil {
			first = err
		}
	}
	t.conns = nil
	t.dg = nil
	return first
}

func (t *Transport) client() (*dgo.Dgraph, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dg != nil {
		return t.dg, nil
	}
	if len(t.opts.Clients) > 0 {
		t.dg = dgo.NewDgraphClient(t.opts.Clients...)
		return t.dg, nil
	}
	if len(t.opts.Endpoints) == 0 {
		return nil, ErrNoEndpoints
	}
	clients := make([]api.DgraphClient, 0, len(t.opts.Endpoints))
	for _, addr := range t.opts.Endpoints {
		cc, err := grpc.NewClient(addr, t.opts.DialOptions...)
		if err != nil {
			for _, c := range t.conns {
				_ = c.Close()
			}
			t.conns = nil
			return nil, errors.Wrapf(err, "dgraphtp: connecting to %s", addr)
		}
		t.conns = append(t.conns, cc)
		clients = append(clients, api.NewDgraphClient(cc))
	}
	glog.Infof("dgraphtp: connected to %s", t.target)
	t.dg = dgo.NewDgraphClient(clients...)
	return t.dg, nil
}

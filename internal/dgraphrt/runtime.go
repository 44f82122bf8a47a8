// Package dgraphrt resolves GraphQL operations against Dgraph.
//
// Every root field returning an entity is a loader. A loader compiles the
// look-ahead of its field into one DQL query, runs it through the Transport
// and decodes the node it returns into an entity view. Everything below the
// root is then projected from the views without further I/O.
//
// Errors follow two policies. A selection that cannot be compiled is the
// client's mistake and is reported in full, with the tree of failures in the
// error extensions. Anything that goes wrong afterwards (transport, result
// shape, a stored value of the wrong type) is logged and surfaced as the same
// "Unable to resolve field" error.
package dgraphrt

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/hanpama/haikugraph/internal/dql"
	"github.com/hanpama/haikugraph/internal/entity"
	"github.com/hanpama/haikugraph/internal/executor"
	schema "github.com/hanpama/haikugraph/internal/schema"
	"github.com/hanpama/haikugraph/internal/selection"
)

// APIVersion is the value of Query.apiVersion.
const APIVersion = "1.0"

// loader describes a root field fetching one node by uid.
type loader struct {
	kind  string
	idArg string
}

var loaders = map[string]loader{
	"haiku":          {kind: "Haiku", idArg: "haikuId"},
	"discordUser":    {kind: "DiscordUser", idArg: "id"},
	"discordChannel": {kind: "DiscordChannel", idArg: "id"},
	"discordServer":  {kind: "DiscordServer", idArg: "id"},
	"person":         {kind: "Person", idArg: "id"},
}

// Runtime implements executor.Runtime over a Dgraph transport.
// Invariants and boundaries:
//   - I/O happens only in BatchResolveAsync, one query per root load.
//   - Sources handed back by the executor are entity views produced by this
//     runtime; anything else is a programming error.
//   - Loads of one batch are independent and run concurrently, bounded by
//     Options.MaxConcurrentLoads. Results keep task order.
type Runtime struct {
	transport Transport
	schema    *schema.Schema
	opts      *Options
}

var _ executor.Runtime = (*Runtime)(nil)

func New(transport Transport, sch *schema.Schema, opts ...Option) *Runtime {
	o := defaultOptions()
	for _, f := range opts {
		f(o)
	}
	if o.MaxConcurrentLoads <= 0 {
		o.MaxConcurrentLoads = 1
	}
	return &Runtime{transport: transport, schema: sch, opts: o}
}

// ResolveSync projects a field of an already loaded view.
func (r *Runtime) ResolveSync(_ context.Context, objectType string, field string, source any, args map[string]any) (any, error) {
	if objectType == r.schema.QueryType {
		if field == "apiVersion" {
			return APIVersion, nil
		}
		glog.Errorf("dgraphrt: no resolver for %s.%s", objectType, field)
		return nil, unableToResolve()
	}
	view, ok := source.(entity.View)
	if !ok {
		panic(fmt.Sprintf("ResolveSync: source for %s.%s must be an entity view, got %T", objectType, field, source))
	}
	v, err := view.Resolve(field, args)
	if err != nil {
		if !errors.Is(err, entity.ErrUnresolvable) {
			glog.Errorf("dgraphrt: resolving %s.%s: %v", objectType, field, err)
		}
		return nil, unableToResolve()
	}
	return v, nil
}

// BatchResolveAsync runs the root loads of one depth.
func (r *Runtime) BatchResolveAsync(ctx context.Context, tasks []executor.AsyncResolveTask) []executor.AsyncResolveResult {
	results := make([]executor.AsyncResolveResult, len(tasks))
	var g errgroup.Group
	g.SetLimit(r.opts.MaxConcurrentLoads)
	for i, task := range tasks {
		g.Go(func() error {
			v, err := r.load(ctx, task)
			results[i] = executor.AsyncResolveResult{Value: v, Error: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Compile returns the query a root field selection would run, without
// running it. Errors are the ones the field would report.
func (r *Runtime) Compile(sel *selection.Node) (dql.Query, error) {
	id, _ := sel.Argument(loaders[sel.Name()].idArg)
	return r.compile(sel.Name(), id, sel)
}

func (r *Runtime) compile(field string, id any, sel *selection.Node) (dql.Query, error) {
	l, ok := loaders[field]
	if !ok {
		glog.Errorf("dgraphrt: no loader for %s.%s", r.schema.QueryType, field)
		return dql.Query{}, unableToResolve()
	}
	uid, _ := id.(string)
	if !dql.IsValidUID(uid) {
		return dql.Query{}, invalidInput()
	}
	q, err := dql.RootQuery(field, entity.Kinds[l.kind].Mapper, sel, uid)
	if err != nil {
		var qerr dql.QueryError
		if errors.As(err, &qerr) {
			glog.V(1).Infof("dgraphrt: %s: %v", msgQueryGeneration, err)
			return dql.Query{}, queryGeneration(qerr)
		}
		glog.Errorf("dgraphrt: compiling %s: %v", field, err)
		return dql.Query{}, unableToResolve()
	}
	return q, nil
}

func (r *Runtime) load(ctx context.Context, task executor.AsyncResolveTask) (any, error) {
	if task.ObjectType != r.schema.QueryType {
		glog.Errorf("dgraphrt: no loader for %s.%s", task.ObjectType, task.Field)
		return nil, unableToResolve()
	}
	l := loaders[task.Field]
	q, err := r.compile(task.Field, task.Args[l.idArg], task.Selection)
	if err != nil {
		return nil, err
	}
	if glog.V(2) {
		glog.Infof("dgraphrt: running %s with %v:\n%s", q.Block, q.Vars, q.Text)
	}

	raw, err := r.transport.Query(ctx, q)
	if err != nil {
		glog.Errorf("dgraphrt: DB query result error for %s: %v", q.Block, err)
		return nil, unableToResolve()
	}
	node, err := rootNode(raw, q.Block)
	if err != nil {
		glog.Errorf("dgraphrt: %v", err)
		return nil, unableToResolve()
	}
	if node == nil {
		return nil, nil
	}
	view, err := entity.Kinds[l.kind].Decode(node)
	if err != nil {
		glog.Errorf("dgraphrt: decoding %s: %v", q.Block, err)
		return nil, unableToResolve()
	}
	return view, nil
}

// rootNode extracts the first node of block from a query result. A block that
// matched nothing yields nil; a missing or malformed block is an error.
func rootNode(raw []byte, block string) ([]byte, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.Errorf("parsing DB query result for %s: invalid JSON", block)
	}
	res := gjson.GetBytes(raw, block)
	switch {
	case !res.Exists():
		return nil, errors.Errorf("parsing DB query result: block %s missing", block)
	case res.IsArray():
		nodes := res.Array()
		if len(nodes) == 0 {
			return nil, nil
		}
		return []byte(nodes[0].Raw), nil
	case res.IsObject():
		return []byte(res.Raw), nil
	}
	return nil, errors.Errorf("parsing DB query result: block %s is %s", block, res.Type)
}

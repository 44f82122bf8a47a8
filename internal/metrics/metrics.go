// Package metrics records request statistics with OpenCensus and exposes them
// in the Prometheus text format.
package metrics

import (
	"context"
	"net/http"
	"time"

	"contrib.go.opencensus.io/exporter/prometheus"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	eventbus "github.com/hanpama/haikugraph/internal/eventbus"
	events "github.com/hanpama/haikugraph/internal/events"
)

// Path is where the server mounts the exporter.
const Path = "/debug/prometheus_metrics"

var (
	NumOperations = stats.Int64("graphql_operations_total",
		"Total number of GraphQL operations", stats.UnitDimensionless)
	NumFieldErrors = stats.Int64("graphql_field_errors_total",
		"Total number of field errors returned to clients", stats.UnitDimensionless)
	NumQueries = stats.Int64("dgraph_queries_total",
		"Total number of queries sent to Dgraph", stats.UnitDimensionless)
	ResponseBytes = stats.Int64("dgraph_response_bytes",
		"Size of Dgraph query results", stats.UnitBytes)
	LatencyMs = stats.Float64("latency",
		"Latency of the various methods", stats.UnitMilliseconds)

	KeyStatus = tag.MustNewKey("status")
	KeyMethod = tag.MustNewKey("method")

	TagValueStatusOK    = "ok"
	TagValueStatusError = "error"

	defaultLatencyMsDistribution = view.Distribution(
		0, 0.5, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000, 10000)

	allViews = []*view.View{
		{
			Name:        NumOperations.Name(),
			Measure:     NumOperations,
			Description: NumOperations.Description(),
			Aggregation: view.Count(),
			TagKeys:     []tag.Key{KeyMethod, KeyStatus},
		},
		{
			Name:        NumFieldErrors.Name(),
			Measure:     NumFieldErrors,
			Description: NumFieldErrors.Description(),
			Aggregation: view.Sum(),
		},
		{
			Name:        NumQueries.Name(),
			Measure:     NumQueries,
			Description: NumQueries.Description(),
			Aggregation: view.Count(),
			TagKeys:     []tag.Key{KeyMethod, KeyStatus},
		},
		{
			Name:        ResponseBytes.Name(),
			Measure:     ResponseBytes,
			Description: ResponseBytes.Description(),
			Aggregation: view.Distribution(0, 256, 1024, 4096, 16384, 65536, 262144, 1048576),
			TagKeys:     []tag.Key{KeyMethod},
		},
		{
			Name:        LatencyMs.Name(),
			Measure:     LatencyMs,
			Description: LatencyMs.Description(),
			Aggregation: defaultLatencyMsDistribution,
			TagKeys:     []tag.Key{KeyMethod, KeyStatus},
		},
	}
)

// Setup registers the views, subscribes to request events and returns the
// Prometheus handler together with a function undoing the subscription.
func Setup(namespace string) (http.Handler, func(), error) {
	if err := view.Register(allViews...); err != nil {
		return nil, nil, errors.Wrap(err, "registering OpenCensus views")
	}
	pe, err := prometheus.NewExporter(prometheus.Options{
		Namespace: namespace,
		OnError:   func(err error) { glog.Errorf("metrics: %v", err) },
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "creating OpenCensus Prometheus exporter")
	}
	view.RegisterExporter(pe)
	unsubscribe := Attach()
	return pe, func() {
		unsubscribe()
		view.UnregisterExporter(pe)
	}, nil
}

// Attach records statistics for the events published on the global bus.
func Attach() (unsubscribe func()) {
	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.GraphQLFinish) {
			method := "graphql." + e.OperationType
			record(ctx, method, len(e.Errors) > 0, e.Duration, NumOperations.M(1))
			if len(e.Errors) > 0 {
				stats.Record(ctx, NumFieldErrors.M(int64(len(e.Errors))))
			}
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.DgraphQueryFinish) {
			record(ctx, "dgraph."+e.Block, e.Err != nil, e.Duration, NumQueries.M(1), ResponseBytes.M(int64(e.Bytes)))
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.HTTPFinish) {
			record(ctx, "http."+e.Request.Method, e.Status >= 400, e.Duration)
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func record(ctx context.Context, method string, failed bool, d time.Duration, ms ...stats.Measurement) {
	status := TagValueStatusOK
	if failed {
		status = TagValueStatusError
	}
	ms = append(ms, LatencyMs.M(float64(d)/float64(time.Millisecond)))
	err := stats.RecordWithTags(ctx, []tag.Mutator{
		tag.Upsert(KeyMethod, method),
		tag.Upsert(KeyStatus, status),
	}, ms...)
	if err != nil {
		glog.Warningf("metrics: recording %s: %v", method, err)
	}
}

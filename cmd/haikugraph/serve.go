package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hanpama/haikugraph/internal/dgraphrt"
	"github.com/hanpama/haikugraph/internal/dgraphtp"
	"github.com/hanpama/haikugraph/internal/entity"
	"github.com/hanpama/haikugraph/internal/eventbus"
	"github.com/hanpama/haikugraph/internal/executor"
	"github.com/hanpama/haikugraph/internal/introspection"
	"github.com/hanpama/haikugraph/internal/metrics"
	"github.com/hanpama/haikugraph/internal/otel"
	"github.com/hanpama/haikugraph/internal/schema"
	"github.com/hanpama/haikugraph/internal/server"
)

// GraphQLPath is where the API and the GraphiQL page are served.
const GraphQLPath = "/graphql"

func newServeCmd() *subCommand {
	sc := &subCommand{Conf: viper.New()}
	sc.Cmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the GraphQL HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, sc.Conf)
		},
	}

	f := sc.Cmd.Flags()
	f.StringSlice("dgraph", []string{"localhost:9080"}, "Comma separated list of Dgraph alpha gRPC addresses.")
	f.Duration("query_timeout", 3*time.Second, "Timeout of a single Dgraph query when the request sets none.")
	f.Bool("best_effort", false, "Run read-only queries in best-effort mode, without a timestamp from Zero.")
	f.Int("max_concurrent_loads", 8, "Maximum root fields of one request loaded concurrently.")
	f.String("addr", ":8080", "HTTP listen address.")
	f.Bool("pretty", false, "Indent JSON responses.")
	f.Duration("timeout", 10*time.Second, "Per-request timeout.")
	f.Int64("max_body_bytes", 1<<20, "Maximum request body size in bytes. 0 means unlimited.")
	f.StringSlice("cors", nil, "Allowed CORS origins. Use * to allow any.")
	f.StringSlice("metadata_header", nil, "HTTP headers forwarded to Dgraph as gRPC metadata.")
	f.Bool("introspection", true, "Answer __schema and __type queries.")
	f.Bool("graphiql", true, "Serve GraphiQL to browsers requesting "+GraphQLPath+".")
	f.Bool("metrics", true, "Expose Prometheus metrics at "+metrics.Path+".")
	f.String("otel_endpoint", "", "OTLP gRPC collector address. Tracing is off when empty.")
	f.String("otel_service", "haikugraph", "Service name reported with traces.")
	return sc
}

func runServe(ctx context.Context, conf *viper.Viper) error {
	h, cleanup, err := buildHandler(conf)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              conf.GetString("addr"),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	glog.Infof("GraphQL server listening on %s", srv.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	glog.Infof("Shutting down GraphQL server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildHandler wires the server for conf. The returned function releases the
// Dgraph connections and the telemetry exporters.
func buildHandler(conf *viper.Viper) (http.Handler, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(conf.GetString("otel_endpoint"), conf.GetString("otel_service"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "otel setup")
	}
	closers = append(closers, func() {
		if err := shutdown(context.Background()); err != nil {
			glog.Warningf("otel shutdown: %v", err)
		}
	})

	sch, err := schema.BuildFromSDL("schema.graphql", entity.SDL)
	if err != nil {
		cleanup()
		return nil, nil, errors.Wrap(err, "build schema")
	}

	tp := dgraphtp.New(
		dgraphtp.WithEndpoints(conf.GetStringSlice("dgraph")...),
		dgraphtp.WithQueryTimeout(conf.GetDuration("query_timeout")),
		dgraphtp.WithBestEffort(conf.GetBool("best_effort")),
	)
	closers = append(closers, func() { _ = tp.Close() })

	var rt executor.Runtime = dgraphrt.New(tp, sch,
		dgraphrt.WithMaxConcurrentLoads(conf.GetInt("max_concurrent_loads")))
	served := sch
	if conf.GetBool("introspection") {
		w := introspection.Wrap(rt, sch)
		rt, served = w.Runtime, w.Schema
	}

	sopts := []server.Option{
		server.WithTimeout(conf.GetDuration("timeout")),
		server.WithMaxBodyBytes(conf.GetInt64("max_body_bytes")),
		server.WithGraphiQL(conf.GetBool("graphiql")),
	}
	if conf.GetBool("pretty") {
		sopts = append(sopts, server.WithPretty())
	}
	if origins := conf.GetStringSlice("cors"); len(origins) > 0 {
		sopts = append(sopts, server.WithCORS(origins...))
	}
	if headers := conf.GetStringSlice("metadata_header"); len(headers) > 0 {
		sopts = append(sopts, server.WithMetadataHeaders(headers...))
	}
	h, err := server.New(rt, served, sopts...)
	if err != nil {
		cleanup()
		return nil, nil, errors.Wrap(err, "server init")
	}

	mux := http.NewServeMux()
	mux.Handle(GraphQLPath, h)
	if conf.GetBool("metrics") {
		mh, stop, err := metrics.Setup("haikugraph")
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, stop)
		mux.Handle(metrics.Path, mh)
	}
	return mux, cleanup, nil
}

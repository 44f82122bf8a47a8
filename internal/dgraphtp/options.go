package dgraphtp

import (
	"time"

	"github.com/dgraph-io/dgo/v250/protos/api"
	"google.golang.org/grpc"
)

// Options configures the Dgraph transport.
//
// Defaults:
// - QueryTimeout: 3s (used only if the incoming context has no deadline)
// - DialOptions:  insecure credentials
// - BestEffort:   false
//
// Either Endpoints or Clients must be set. Clients, when given, are used as-is
// and Endpoints are ignored.
type Options struct {
	Endpoints    []string
	QueryTimeout time.Duration
	BestEffort   bool

	DialOptions []grpc.DialOption
	Clients     []api.DgraphClient
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{QueryTimeout: 3 * time.Second}
}

func WithEndpoints(addrs ...string) Option     { return func(o *Options) { o.Endpoints = addrs } }
func WithQueryTimeout(d time.Duration) Option  { return func(o *Options) { o.QueryTimeout = d } }
func WithBestEffort(enable bool) Option        { return func(o *Options) { o.BestEffort = enable } }
func WithClients(c ...api.DgraphClient) Option { return func(o *Options) { o.Clients = c } }
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *Options) { o.DialOptions = opts }
}

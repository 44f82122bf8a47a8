package dgraphtp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/dgo/v250/protos/api"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/hanpama/haikugraph/internal/dql"
	eventbus "github.com/hanpama/haikugraph/internal/eventbus"
	events "github.com/hanpama/haikugraph/internal/events"
)

// fakeAlpha answers Query and panics on any other Dgraph RPC.
type fakeAlpha struct {
	api.DgraphClient

	mu       sync.Mutex
	requests []*api.Request
	metadata []metadata.MD
	deadline []bool
	json     string
	err      error
}

func (f *fakeAlpha) Query(ctx context.Context, in *api.Request, opts ...grpc.CallOption) (*api.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, in)
	md, _ := metadata.FromOutgoingContext(ctx)
	f.metadata = append(f.metadata, md)
	_, ok := ctx.Deadline()
	f.deadline = append(f.deadline, ok)
	if f.err != nil {
		return nil, f.err
	}
	return &api.Response{Json: []byte(f.json)}, nil
}

var userQuery = dql.Query{
	Block: "discordUser",
	Text:  "query discordUser($id: string) {\n  discordUser(func: uid($id)) @filter(type(DiscordUser)) {\n    discordSnowflake\n  }\n}",
	Vars:  map[string]string{"$id": "0x1a"},
}

func TestQuery(t *testing.T) {
	alpha := &fakeAlpha{json: `{"discordUser":[{"discordSnowflake":"1"}]}`}
	tp := New(WithClients(alpha))
	defer tp.Close()

	ctx := metadata.NewOutgoingContext(context.Background(), metadata.Pairs("graphql-request-id", "r-1"))
	got, err := tp.Query(ctx, userQuery)
	require.NoError(t, err)
	require.JSONEq(t, `{"discordUser":[{"discordSnowflake":"1"}]}`, string(got))

	require.Len(t, alpha.requests, 1)
	req := alpha.requests[0]
	require.Equal(t, userQuery.Text, req.Query)
	require.Equal(t, userQuery.Vars, req.Vars)
	require.True(t, req.ReadOnly)
	require.False(t, req.BestEffort)
	require.Equal(t, []string{"r-1"}, alpha.metadata[0].Get("graphql-request-id"))
	require.True(t, alpha.deadline[0])
}

func TestQuery_BestEffortWithoutDefaultTimeout(t *testing.T) {
	alpha := &fakeAlpha{json: `{}`}
	tp := New(WithClients(alpha), WithBestEffort(true), WithQueryTimeout(0))

	_, err := tp.Query(context.Background(), userQuery)
	require.NoError(t, err)
	require.True(t, alpha.requests[0].BestEffort)
	require.False(t, alpha.deadline[0])
}

func TestQuery_Events(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	var started []events.DgraphQueryStart
	var finished []events.DgraphQueryFinish
	eventbus.Subscribe(func(ctx context.Context, e events.DgraphQueryStart) { started = append(started, e) })
	eventbus.Subscribe(func(ctx context.Context, e events.DgraphQueryFinish) { finished = append(finished, e) })

	boom := errors.New("alpha unavailable")
	tp := New(WithClients(&fakeAlpha{err: boom}))
	_, err := tp.Query(context.Background(), userQuery)
	require.Error(t, err)
	require.Contains(t, err.Error(), "query discordUser")
	require.Contains(t, err.Error(), boom.Error())

	require.Len(t, started, 1)
	require.Equal(t, "discordUser", started[0].Block)
	require.Equal(t, "custom", started[0].Target)
	require.NotEmpty(t, started[0].ID)
	require.Len(t, finished, 1)
	require.Equal(t, started[0].ID, finished[0].ID)
	require.Equal(t, "discordUser", finished[0].Block)
	require.Error(t, finished[0].Err)
	require.Zero(t, finished[0].Bytes)
}

func TestQuery_NoEndpoints(t *testing.T) {
	_, err := New().Query(context.Background(), userQuery)
	require.ErrorIs(t, err, ErrNoEndpoints)
}

func TestClose(t *testing.T) {
	tp := New(WithEndpoints("localhost:9080"), WithQueryTimeout(time.Second))
	// Connections are created lazily, so this does not need a running alpha.
	_, err := tp.client()
	require.NoError(t, err)
	require.Len(t, tp.conns, 1)

	require.NoError(t, tp.Close())
	require.NoError(t, tp.Close())
	_, err = tp.Query(context.Background(), userQuery)
	require.ErrorIs(t, err, ErrClosed)
}

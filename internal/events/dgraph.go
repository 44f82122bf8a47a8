package events

import "time"

// DgraphQueryStart is emitted before a query is sent to Dgraph.
type DgraphQueryStart struct {
	// ID pairs the start of a query with its finish; loads of one request
	// run concurrently.
	ID string
	// Block is the name of the root query block, such as "discordUser".
	Block  string
	Target string
}

// DgraphQueryFinish is emitted after Dgraph answers or the call fails.
type DgraphQueryFinish struct {
	ID       string
	Block    string
	Target   string
	Bytes    int
	Err      error
	Duration time.Duration
}

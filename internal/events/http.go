package events

import (
	"net/http"
	"time"
)

// HTTPStart is emitted when the server receives a request. The context carries
// the request ID.
type HTTPStart struct {
	Request *http.Request
}

// HTTPFinish is emitted once the response is written.
type HTTPFinish struct {
	Request *http.Request
	Status  int
	// Operations is the number of GraphQL operations executed: 0 when the
	// request was rejected, more than 1 for batches.
	Operations int
	Duration   time.Duration
}

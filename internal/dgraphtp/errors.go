package dgraphtp

import "github.com/pkg/errors"

var (
	// ErrNoEndpoints indicates the transport was built without any alpha to
	// talk to.
	ErrNoEndpoints = errors.New("dgraphtp: no endpoints configured")
	// ErrClosed is returned by queries issued after Close.
	ErrClosed = errors.New("dgraphtp: closed")
)

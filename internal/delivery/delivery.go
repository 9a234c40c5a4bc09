// Package delivery defines the entry points through which the outside world
// reaches the application.
package delivery

import "context"

// Delivery is a long-running transport (HTTP server, worker loop) whose Serve
// blocks until the listener stops or fails.
type Delivery interface {
	Serve(ctx context.Context) error
}

// Package delivery holds the transports that expose the application.
package delivery

import "context"

// Delivery is a transport served for the lifetime of the application.
type Delivery interface {
	Serve(ctx context.Context) error
}

package web

import "context"

// Server is the control surface the app starts next to the run loop.
type Server interface {
	Start(ctx context.Context) error
	Stop() error
}

package resync

import (
	"context"
	"time"
)

// TimeSource returns the current absolute time from a network server.
type TimeSource interface {
	Query(ctx context.Context, server string) (time.Time, error)
}

// TimeSourceFunc adapts a function to TimeSource.
type TimeSourceFunc func(ctx context.Context, server string) (time.Time, error)

func (f TimeSourceFunc) Query(ctx context.Context, server string) (time.Time, error) {
	return f(ctx, server)
}

//go:build !tinygo

package resync

import (
	"context"
	"time"

	"github.com/beevik/ntp"
)

// NTPSource queries an NTP server.
type NTPSource struct {
	Timeout time.Duration
}

func (s NTPSource) Query(ctx context.Context, server string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	opts := ntp.QueryOptions{Timeout: s.Timeout}
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); opts.Timeout == 0 || d < opts.Timeout {
			opts.Timeout = d
		}
	}
	resp, err := ntp.QueryWithOptions(server, opts)
	if err != nil {
		return time.Time{}, err
	}
	if err := resp.Validate(); err != nil {
		return time.Time{}, err
	}
	return time.Now().Add(resp.ClockOffset), nil
}

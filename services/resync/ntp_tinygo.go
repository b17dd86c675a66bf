//go:build tinygo

package resync

import (
	"context"
	"net"
	"time"
)

// NTPSource queries an NTP server with a single SNTP exchange.
type NTPSource struct {
	Timeout time.Duration
}

func (s NTPSource) Query(ctx context.Context, server string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	conn, err := net.Dial("udp", net.JoinHostPort(server, "123"))
	if err != nil {
		return time.Time{}, err
	}
	defer conn.Close()

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	_ = conn.SetDeadline(time.Now().Add(timeout))

	var buf [sntpPacketLen]byte
	sent := time.Now()
	encodeSNTPRequest(buf[:], sent)
	if _, err := conn.Write(buf[:]); err != nil {
		return time.Time{}, err
	}
	n, err := conn.Read(buf[:])
	if err != nil {
		return time.Time{}, err
	}
	return decodeSNTPResponse(buf[:n], sent, time.Now())
}

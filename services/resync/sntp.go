package resync

import (
	"encoding/binary"
	"errors"
	"time"
)

// SNTP packet handling for targets without the full NTP client.
//
// Layout (big-endian, 48 bytes):
//   - [0]: LI(2) | VN(3) | Mode(3)
//   - [1]: stratum
//   - [24:32]: originate timestamp
//   - [40:48]: transmit timestamp (seconds since 1900, 32.32 fixed point)

const (
	sntpPacketLen = 48
	sntpVersion   = 4
	sntpModeCli   = 3
	sntpModeSrv   = 4
)

var errSNTPResponse = errors.New("resync: invalid sntp response")

// ntpEpochOffset is the number of seconds from 1900-01-01 to 1970-01-01.
const ntpEpochOffset = 2208988800

func toNTPTimestamp(t time.Time) uint64 {
	secs := uint64(t.Unix() + ntpEpochOffset)
	frac := uint64(t.Nanosecond()) << 32 / 1e9
	return secs<<32 | frac
}

func fromNTPTimestamp(ts uint64) time.Time {
	secs := int64(ts>>32) - ntpEpochOffset
	nanos := int64((ts & 0xFFFFFFFF) * 1e9 >> 32)
	return time.Unix(secs, nanos)
}

func encodeSNTPRequest(dst []byte, xmit time.Time) {
	for i := range dst[:sntpPacketLen] {
		dst[i] = 0
	}
	dst[0] = sntpVersion<<3 | sntpModeCli
	binary.BigEndian.PutUint64(dst[40:48], toNTPTimestamp(xmit))
}

// decodeSNTPResponse returns the server transmit time adjusted by half the
// round trip, given the request transmit time and the local receive time.
func decodeSNTPResponse(src []byte, sent, recv time.Time) (time.Time, error) {
	if len(src) < sntpPacketLen {
		return time.Time{}, errSNTPResponse
	}
	if src[0]&0x07 != sntpModeSrv {
		return time.Time{}, errSNTPResponse
	}
	if stratum := src[1]; stratum == 0 || stratum > 15 {
		return time.Time{}, errSNTPResponse
	}
	if binary.BigEndian.Uint64(src[24:32]) != toNTPTimestamp(sent) {
		return time.Time{}, errSNTPResponse
	}
	xmit := binary.BigEndian.Uint64(src[40:48])
	if xmit == 0 {
		return time.Time{}, errSNTPResponse
	}
	rtt := recv.Sub(sent)
	if rtt < 0 {
		rtt = 0
	}
	return fromNTPTimestamp(xmit).Add(rtt / 2), nil
}

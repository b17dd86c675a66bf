package refresher

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"

	"timebeacon/hal"
	"timebeacon/hal/haltest"
	"timebeacon/proto"
	"timebeacon/services/credentials"
	"timebeacon/services/resync"
	"timebeacon/services/timecache"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var jst = time.FixedZone("JST", 9*3600)

func TestStepWritesZonedTime(t *testing.T) {
	clock := haltest.NewClock(time.Date(2023, 12, 31, 15, 0, 0, 0, time.UTC))
	cache := timecache.New()
	r := New(clock, cache, jst, time.Millisecond, nil)

	if !r.Step() {
		t.Fatalf("Step = false, want true")
	}
	want := proto.WallClockTime{Year: 2024, Month: 1, Day: 1, Weekday: 1, OffsetHours: 9}
	if got := cache.Read(); got != want {
		t.Fatalf("cache = %+v, want %+v", got, want)
	}
}

func TestStepSkipsUnsetClock(t *testing.T) {
	clock := haltest.NewClock(time.Time{})
	clock.Fail(hal.ErrClockNotSet)
	cache := timecache.New()
	prev := proto.WallClockTime{Year: 2024, Month: 2, Day: 3, Hour: 4, Minute: 5, Second: 6}
	cache.Write(prev)

	r := New(clock, cache, jst, time.Millisecond, nil)
	if r.Step() {
		t.Fatalf("Step = true, want false")
	}
	if got := cache.Read(); got != prev {
		t.Fatalf("cache = %+v, want unchanged %+v", got, prev)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	clock := haltest.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, jst))
	cache := timecache.New()
	r := New(clock, cache, jst, time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	deadline := time.Now().Add(time.Second)
	for !cache.Read().IsSet() {
		if time.Now().After(deadline) {
			t.Fatalf("cache never written")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
}

func TestUnsetToFirstPayload(t *testing.T) {
	clock := haltest.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, jst))
	cache := timecache.New()
	if cache.Read().IsSet() {
		t.Fatalf("new cache is set")
	}

	New(clock, cache, jst, time.Millisecond, nil).Step()

	p := proto.AdvertisementPayload(cache.Read())
	if p[4] != 0xE8 || p[5] != 0x07 {
		t.Fatalf("year bytes = % X, want E8 07", p[4:6])
	}
	if p[6] != 1 || p[7] != 1 {
		t.Fatalf("month/day = %d/%d, want 1/1", p[6], p[7])
	}
	if p[8] != 0 || p[9] != 0 || p[10] != 0 {
		t.Fatalf("h:m:s = %d:%d:%d, want 0:0:0", p[8], p[9], p[10])
	}
}

// heldClock blocks the next Now after it has read the time, until released.
type heldClock struct {
	*haltest.Clock
	read    chan struct{}
	release chan struct{}
}

func (c *heldClock) Now() (time.Time, error) {
	t, err := c.Clock.Now()
	close(c.read)
	<-c.release
	return t, err
}

func TestStepLosesToConcurrentResync(t *testing.T) {
	stale := time.Date(2024, 3, 1, 1, 0, 0, 0, jst)
	synced := time.Date(2024, 3, 1, 12, 0, 0, 0, jst)
	inner := haltest.NewClock(stale)
	clock := &heldClock{Clock: inner, read: make(chan struct{}), release: make(chan struct{})}
	cache := timecache.New()
	r := New(clock, cache, jst, time.Millisecond, nil)

	stepped := make(chan bool, 1)
	go func() { stepped <- r.Step() }()
	<-clock.read

	rs := resync.New(&haltest.WiFi{ConnectAfter: 1}, inner, cache,
		resync.TimeSourceFunc(func(context.Context, string) (time.Time, error) { return synced, nil }),
		credentials.Credentials{SSID: "beacon-net", Passphrase: "secret"},
		resync.Config{Server: "ntp.test", Zone: jst, PollInterval: time.Millisecond, MaxPolls: 3},
		nil)
	if err := rs.Run(context.Background()); err != nil {
		t.Fatalf("resync: %v", err)
	}
	want := proto.FromTime(synced)
	if got := cache.Read(); got != want {
		t.Fatalf("after resync: %v, want %v", got, want)
	}

	close(clock.release)
	if <-stepped {
		t.Fatalf("Step = true, want the stale sample dropped")
	}
	if got := cache.Read(); got != want {
		t.Fatalf("after refresher step: %v, want %v", got, want)
	}

	// The next sample reads the synced clock and goes through.
	if !New(inner, cache, jst, time.Millisecond, nil).Step() {
		t.Fatalf("Step after resync = false, want true")
	}
}

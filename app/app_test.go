package app

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"

	"timebeacon/config"
	"timebeacon/hal"
	"timebeacon/hal/haltest"
	"timebeacon/kernel"
	"timebeacon/proto"
	"timebeacon/services/resync"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var jst = time.FixedZone("JST", 9*3600)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.RefreshInterval = time.Millisecond
	cfg.TickInterval = time.Millisecond
	cfg.AdvertiseWindow = 2 * time.Millisecond
	cfg.JoinPollInterval = time.Millisecond
	cfg.JoinMaxPolls = 3
	return cfg
}

func fixedSource(t time.Time) resync.TimeSource {
	return resync.TimeSourceFunc(func(context.Context, string) (time.Time, error) { return t, nil })
}

func newTestHAL(withCreds bool) *haltest.HAL {
	h := haltest.New(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	h.Net.MAC = net.HardwareAddr{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	if withCreds {
		h.Store["/ssid.txt"] = []byte(`{"ssid":"home","pass":"secret"}`)
	}
	return h
}

func TestRunSyncsThenBroadcasts(t *testing.T) {
	h := newTestHAL(true)
	synced := time.Date(2024, 3, 1, 12, 0, 0, 0, jst)
	a := New(h, testConfig(), WithTimeSource(fixedSource(synced)), WithLogger(zap.NewNop()))

	ctx, cancel := context.WithCancel(context.Background())
	h.Radi.OnStart(func(hal.Advertisement) {
		if starts, _ := h.Radi.Counts(); starts >= 2 {
			cancel()
		}
	})
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}

	if got := h.Net.Begins(); got != 1 {
		t.Fatalf("joins = %d, want 1 initial sync", got)
	}
	if got := h.Net.SSID(); got != "home" {
		t.Fatalf("joined %q, want home", got)
	}
	if got := h.Net.Disconnects(); got != 1 {
		t.Fatalf("disconnects = %d, want 1", got)
	}
	if h.Radi.Type != hal.AdvertisingNonConnectable || h.Radi.Name != "TimeBeacon" {
		t.Fatalf("radio init = %q/%v", h.Radi.Name, h.Radi.Type)
	}

	ads := h.Radi.Installed()
	if len(ads) == 0 {
		t.Fatalf("nothing advertised")
	}
	got, ok := proto.DecodeAdvertisementPayload(ads[0].Payload)
	if !ok || got.Year != 2024 || got.Month != 3 || got.Day != 1 || got.OffsetHours != 9 {
		t.Fatalf("first advertised time = %+v (ok=%v), want 2024-03-01 +09:00", got, ok)
	}
	if h.Disp.FB.(*haltest.Framebuffer).Presents() == 0 {
		t.Fatalf("display never presented")
	}
}

func TestRunWithoutCredentials(t *testing.T) {
	h := newTestHAL(false)
	a := New(h, testConfig(), WithTimeSource(fixedSource(time.Now())), WithLogger(zap.NewNop()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}
	if got := h.Net.Begins(); got != 0 {
		t.Fatalf("joins = %d, want 0", got)
	}
	// The unsynced clock still reads 2020, so the refresher keeps the cache set.
	if got := a.Cache().Read(); got.Year != 2020 {
		t.Fatalf("cache = %s, want 2020 from local clock", got)
	}
}

func TestRunWithoutRadioKeepsTime(t *testing.T) {
	h := newTestHAL(false)
	h.Radi.InitErr = hal.ErrNotImplemented
	a := New(h, testConfig(), WithLogger(zap.NewNop()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}
	if starts, _ := h.Radi.Counts(); starts != 0 || len(h.Radi.Installed()) != 0 {
		t.Fatalf("radio used %d times after failed Init", starts)
	}
	if got := a.Cache().Read(); got.Year != 2020 {
		t.Fatalf("cache = %s, want 2020 from local clock", got)
	}
}

func TestTickFiresOncePerTriggerSecond(t *testing.T) {
	h := newTestHAL(true)
	at := time.Date(2024, 3, 1, 2, 0, 0, 0, jst)
	a := New(h, testConfig(), WithTimeSource(fixedSource(at)), WithLogger(zap.NewNop()))
	ctx := context.Background()

	a.boot(ctx)
	if got := h.Net.Begins(); got != 1 {
		t.Fatalf("joins after boot = %d, want 1", got)
	}

	a.cache.Write(proto.WallClockTime{Year: 2024, Month: 3, Day: 1, Hour: 1, Minute: 59, Second: 59, Weekday: 5, OffsetHours: 9})
	a.tick(ctx)
	if got := h.Net.Begins(); got != 1 {
		t.Fatalf("joins at 01:59:59 = %d, want 1", got)
	}

	a.cache.Write(proto.FromTime(at))
	a.tick(ctx)
	a.tick(ctx)
	if got := h.Net.Begins(); got != 2 {
		t.Fatalf("joins at 02:00:00 = %d, want 2", got)
	}
}

func TestExtraTaskFailureStopsRun(t *testing.T) {
	h := newTestHAL(false)
	boom := errors.New("listener failed")
	a := New(h, testConfig(), WithLogger(zap.NewNop()), WithTask(kernel.Task{
		Name: "extra",
		Run:  func(context.Context) error { return boom },
	}))
	if err := a.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Run = %v, want %v", err, boom)
	}
}

func TestDrawPanic(t *testing.T) {
	fb := haltest.NewFramebuffer(320, 240)
	drawPanic(fb, kernel.PanicInfo{Task: "broadcast", Value: "boom"}, []string{"goroutine 1 [running]:"})

	dark := 0
	buf := fb.Buffer()
	for i := 0; i+1 < len(buf); i += 2 {
		if buf[i] == 0 && buf[i+1] == 0 {
			dark++
		}
	}
	if dark == 0 {
		t.Fatalf("panic screen has no text")
	}
	if fb.Presents() != 1 {
		t.Fatalf("presents = %d, want 1", fb.Presents())
	}
}

func TestTakeRunes(t *testing.T) {
	tests := []struct {
		s          string
		n          int16
		head, tail string
	}{
		{"hello", 3, "hel", "lo"},
		{"hi", 5, "hi", ""},
		{"日本語", 2, "日本", "語"},
		{"x", 0, "", "x"},
	}
	for _, tt := range tests {
		head, tail := takeRunes(tt.s, tt.n)
		if head != tt.head || tail != tt.tail {
			t.Fatalf("takeRunes(%q, %d) = %q, %q; want %q, %q", tt.s, tt.n, head, tail, tt.head, tt.tail)
		}
	}
}

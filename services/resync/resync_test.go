package resync

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"

	"timebeacon/hal/haltest"
	"timebeacon/proto"
	"timebeacon/services/credentials"
	"timebeacon/services/timecache"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var jst = time.FixedZone("JST", 9*3600)

type fixture struct {
	wifi   *haltest.WiFi
	clock  *haltest.Clock
	cache  *timecache.Cache
	events []Event
	r      *Resynchronizer
}

func newFixture(connectAfter int, src TimeSource) *fixture {
	f := &fixture{
		wifi:  &haltest.WiFi{ConnectAfter: connectAfter},
		clock: haltest.NewClock(time.Date(2020, 1, 1, 0, 0, 0, 0, jst)),
		cache: timecache.New(),
	}
	f.r = New(f.wifi, f.clock, f.cache, src,
		credentials.Credentials{SSID: "home", Passphrase: "secret"},
		Config{Server: "ntp.nict.jp", Zone: jst, PollInterval: time.Millisecond, MaxPolls: 20},
		nil)
	f.r.SetNotify(func(ev Event) { f.events = append(f.events, ev) })
	return f
}

func (f *fixture) entered(s State) bool {
	for _, ev := range f.events {
		if ev.State == s {
			return true
		}
	}
	return false
}

func fixedSource(t time.Time) TimeSource {
	return TimeSourceFunc(func(context.Context, string) (time.Time, error) { return t, nil })
}

func TestJoinNeverSucceeds(t *testing.T) {
	queried := false
	src := TimeSourceFunc(func(context.Context, string) (time.Time, error) {
		queried = true
		return time.Time{}, nil
	})
	f := newFixture(0, src)
	before := proto.WallClockTime{Year: 2024, Month: 2, Day: 29, Hour: 2}
	f.cache.Write(before)

	err := f.r.Run(context.Background())
	if !errors.Is(err, ErrJoinTimeout) {
		t.Fatalf("Run = %v, want ErrJoinTimeout", err)
	}
	if got := f.wifi.Polls(); got != 20 {
		t.Fatalf("polls = %d, want 20", got)
	}
	if !f.entered(StateFailed) {
		t.Fatalf("never entered %v; events %+v", StateFailed, f.events)
	}
	if got := f.cache.Read(); got != before {
		t.Fatalf("cache = %+v, want unchanged %+v", got, before)
	}
	if got := f.wifi.Disconnects(); got != 1 {
		t.Fatalf("disconnects = %d, want 1", got)
	}
	if queried {
		t.Fatalf("time source queried without a connection")
	}
	if len(f.clock.Sets()) != 0 {
		t.Fatalf("clock set after failed join")
	}
	if got := f.r.State(); got != StateIdle {
		t.Fatalf("State = %v, want %v", got, StateIdle)
	}
}

func TestSyncWritesExactTime(t *testing.T) {
	want := time.Date(2024, 3, 1, 12, 0, 0, 0, jst)
	f := newFixture(3, fixedSource(want))

	if err := f.r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	wantWall := proto.WallClockTime{
		Year: 2024, Month: 3, Day: 1, Hour: 12,
		Weekday: int(time.Friday), OffsetHours: 9,
	}
	if got := f.cache.Read(); got != wantWall {
		t.Fatalf("cache = %+v, want %+v", got, wantWall)
	}
	if got := f.cache.Read().String(); got != "2024-03-01T12:00:00+09:00" {
		t.Fatalf("cache = %s, want 2024-03-01T12:00:00+09:00", got)
	}
	if sets := f.clock.Sets(); len(sets) != 1 || !sets[0].Equal(want) {
		t.Fatalf("clock sets = %v, want [%v]", sets, want)
	}
	if got := f.wifi.Polls(); got != 3 {
		t.Fatalf("polls = %d, want 3", got)
	}
	if got := f.wifi.Disconnects(); got != 1 {
		t.Fatalf("disconnects = %d, want 1", got)
	}
	if f.entered(StateFailed) {
		t.Fatalf("entered %v on success", StateFailed)
	}
}

func TestSyncConvertsToZone(t *testing.T) {
	f := newFixture(1, fixedSource(time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC)))
	if err := f.r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := f.cache.Read(); got.Hour != 12 || got.OffsetHours != 9 {
		t.Fatalf("cache = %s, want 12:00 at +09:00", got)
	}
}

func TestQueryFailureStillDisconnects(t *testing.T) {
	boom := errors.New("no route")
	f := newFixture(1, TimeSourceFunc(func(context.Context, string) (time.Time, error) {
		return time.Time{}, boom
	}))

	err := f.r.Run(context.Background())
	if !errors.Is(err, ErrQuery) || !errors.Is(err, boom) {
		t.Fatalf("Run = %v, want ErrQuery wrapping %v", err, boom)
	}
	if f.cache.Read().IsSet() {
		t.Fatalf("cache written after failed query")
	}
	if got := f.wifi.Disconnects(); got != 1 {
		t.Fatalf("disconnects = %d, want 1", got)
	}
}

func TestNoCredentials(t *testing.T) {
	wifi := &haltest.WiFi{ConnectAfter: 1}
	r := New(wifi, haltest.NewClock(time.Time{}), timecache.New(), fixedSource(time.Now()),
		credentials.Credentials{}, Config{MaxPolls: 20}, nil)

	if err := r.Run(context.Background()); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("Run = %v, want ErrNoCredentials", err)
	}
	if wifi.Begins() != 0 || wifi.Disconnects() != 0 {
		t.Fatalf("wifi touched without credentials")
	}
}

func TestBeginErrorDisconnects(t *testing.T) {
	f := newFixture(1, fixedSource(time.Now()))
	f.wifi.BeginErr = errors.New("radio busy")

	if err := f.r.Run(context.Background()); !errors.Is(err, ErrJoin) {
		t.Fatalf("Run = %v, want ErrJoin", err)
	}
	if got := f.wifi.Disconnects(); got != 1 {
		t.Fatalf("disconnects = %d, want 1", got)
	}
}

func TestCancelDuringJoinDisconnects(t *testing.T) {
	f := newFixture(0, fixedSource(time.Now()))
	ctx, cancel := context.WithCancel(context.Background())
	f.r.SetNotify(func(ev Event) {
		if ev.Poll == 2 {
			cancel()
		}
	})

	if err := f.r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if got := f.wifi.Disconnects(); got != 1 {
		t.Fatalf("disconnects = %d, want 1", got)
	}
	if got := f.r.State(); got != StateIdle {
		t.Fatalf("State = %v, want %v", got, StateIdle)
	}
}

func TestPollEventsAreNumbered(t *testing.T) {
	f := newFixture(0, fixedSource(time.Now()))
	_ = f.r.Run(context.Background())

	var polls []int
	for _, ev := range f.events {
		if ev.Poll > 0 {
			polls = append(polls, ev.Poll)
		}
	}
	if len(polls) != 20 || polls[0] != 1 || polls[19] != 20 {
		t.Fatalf("poll events = %v, want 1..20", polls)
	}
}

func TestTriggerDue(t *testing.T) {
	at := func(h, m, s int) proto.WallClockTime {
		return proto.WallClockTime{Year: 2024, Month: 1, Day: 1, Hour: h, Minute: m, Second: s, OffsetHours: 9}
	}
	tests := []struct {
		w    proto.WallClockTime
		want bool
	}{
		{at(2, 0, 0), true},
		{at(2, 0, 1), false},
		{at(1, 59, 59), false},
		{at(2, 1, 0), false},
		{at(14, 0, 0), false},
		{at(0, 0, 0), false},
		{proto.WallClockTime{}, false},
	}
	for _, tt := range tests {
		if got := DefaultTrigger.Due(tt.w); got != tt.want {
			t.Fatalf("Due(%s) = %v, want %v", tt.w, got, tt.want)
		}
	}

	midnight := Trigger{}
	if midnight.Due(proto.WallClockTime{}) {
		t.Fatalf("Due(unset) = true for 00:00:00 trigger")
	}
	if !midnight.Due(at(0, 0, 0)) {
		t.Fatalf("Due(00:00:00) = false for 00:00:00 trigger")
	}
}

func TestStateString(t *testing.T) {
	if StateFailed.String() != "failed" || State(99).String() != "unknown" {
		t.Fatalf("State strings = %q %q", StateFailed, State(99))
	}
}

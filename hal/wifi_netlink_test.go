package hal

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"tinygo.org/x/drivers/netlink"
)

type fakeLink struct {
	mu          sync.Mutex
	release     chan struct{}
	err         error
	params      netlink.ConnectParams
	disconnects int
}

func (l *fakeLink) NetConnect(params *netlink.ConnectParams) error {
	l.mu.Lock()
	l.params = *params
	l.mu.Unlock()
	if l.release != nil {
		<-l.release
	}
	return l.err
}

func (l *fakeLink) NetDisconnect() {
	l.mu.Lock()
	l.disconnects++
	l.mu.Unlock()
}

func (l *fakeLink) GetHardwareAddr() (net.HardwareAddr, error) {
	return net.HardwareAddr{1, 2, 3, 4, 5, 6}, nil
}

func (l *fakeLink) disconnectCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.disconnects
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNetlinkWiFiConnects(t *testing.T) {
	link := &fakeLink{}
	w := newNetlinkWiFi(link)

	if err := w.Begin("home", "secret"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	waitFor(t, w.Connected)

	link.mu.Lock()
	p := link.params
	link.mu.Unlock()
	if p.Ssid != "home" || p.Passphrase != "secret" {
		t.Fatalf("params = %+v", p)
	}

	if err := w.Disconnect(); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if w.Connected() {
		t.Fatal("Connected() = true after Disconnect")
	}
}

func TestNetlinkWiFiJoinFails(t *testing.T) {
	link := &fakeLink{err: errors.New("auth failed")}
	w := newNetlinkWiFi(link)

	_ = w.Begin("home", "wrong")
	time.Sleep(5 * time.Millisecond)
	if w.Connected() {
		t.Fatal("Connected() = true after failed join")
	}
}

func TestNetlinkWiFiLateJoinIsTornDown(t *testing.T) {
	link := &fakeLink{release: make(chan struct{})}
	w := newNetlinkWiFi(link)

	_ = w.Begin("home", "secret")
	_ = w.Disconnect()
	close(link.release)

	waitFor(t, func() bool { return link.disconnectCount() == 2 })
	if w.Connected() {
		t.Fatal("Connected() = true for an abandoned join")
	}
}

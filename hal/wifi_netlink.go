package hal

import (
	"net"
	"sync"
	"time"

	"tinygo.org/x/drivers/netlink"
)

const netlinkConnectTimeout = 10 * time.Second

// netlinker is the part of netlink.Netlinker the station lifecycle needs.
type netlinker interface {
	NetConnect(params *netlink.ConnectParams) error
	NetDisconnect()
	GetHardwareAddr() (net.HardwareAddr, error)
}

// netlinkWiFi adapts a blocking NetConnect to the Begin/Connected polling model.
type netlinkWiFi struct {
	mu        sync.Mutex
	link      netlinker
	gen       uint32
	connected bool
}

func newNetlinkWiFi(link netlinker) *netlinkWiFi {
	return &netlinkWiFi{link: link}
}

func (w *netlinkWiFi) Begin(ssid, passphrase string) error {
	w.mu.Lock()
	w.gen++
	gen := w.gen
	w.connected = false
	w.mu.Unlock()

	params := &netlink.ConnectParams{
		Ssid:           ssid,
		Passphrase:     passphrase,
		ConnectTimeout: netlinkConnectTimeout,
	}
	go func() {
		err := w.link.NetConnect(params)

		w.mu.Lock()
		stale := gen != w.gen
		if !stale && err == nil {
			w.connected = true
		}
		w.mu.Unlock()

		// The caller gave up on this join; do not leave the link up.
		if stale && err == nil {
			w.link.NetDisconnect()
		}
	}()
	return nil
}

func (w *netlinkWiFi) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}

func (w *netlinkWiFi) Disconnect() error {
	w.mu.Lock()
	w.gen++
	w.connected = false
	w.mu.Unlock()
	w.link.NetDisconnect()
	return nil
}

func (w *netlinkWiFi) HardwareAddr() (net.HardwareAddr, error) {
	return w.link.GetHardwareAddr()
}

//go:build !tinygo

package hal

import (
	"errors"
	"net"
	"sync"
)

// hostWiFi simulates a station join on a machine that is already networked.
//
// A join with a non-empty SSID completes on the first status poll.
type hostWiFi struct {
	mu        sync.Mutex
	logger    Logger
	joining   bool
	connected bool
	ssid      string
}

func (w *hostWiFi) Begin(ssid, passphrase string) error {
	_ = passphrase
	w.mu.Lock()
	defer w.mu.Unlock()
	if ssid == "" {
		return errors.New("wifi: empty ssid")
	}
	w.ssid = ssid
	w.joining = true
	w.connected = false
	w.logger.WriteLineString("wifi: begin ssid=" + ssid)
	return nil
}

func (w *hostWiFi) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.joining {
		w.joining = false
		w.connected = true
	}
	return w.connected
}

func (w *hostWiFi) Disconnect() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.joining = false
	w.connected = false
	w.logger.WriteLineString("wifi: off")
	return nil
}

func (w *hostWiFi) HardwareAddr() (net.HardwareAddr, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagLoopback != 0 || len(ifc.HardwareAddr) == 0 {
			continue
		}
		return ifc.HardwareAddr, nil
	}
	return nil, ErrNotImplemented
}

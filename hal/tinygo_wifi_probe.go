//go:build tinygo && baremetal && (wioterminal || pyportal || nano_rp2040 || arduino_mkrwifi1010 || matrixportal_m4)

package hal

import "tinygo.org/x/drivers/netlink/probe"

func newBoardWiFi() WiFi {
	link, _ := probe.Probe()
	if link == nil {
		return nullWiFi{}
	}
	return newNetlinkWiFi(link)
}

//go:build tinygo && baremetal && !(wioterminal || pyportal || nano_rp2040 || arduino_mkrwifi1010 || matrixportal_m4)

package hal

func newBoardWiFi() WiFi { return nullWiFi{} }

package hal

import "net"

type nullWiFi struct{}

func (nullWiFi) Begin(ssid, passphrase string) error {
	_ = ssid
	_ = passphrase
	return ErrNotImplemented
}

func (nullWiFi) Connected() bool   { return false }
func (nullWiFi) Disconnect() error { return nil }

func (nullWiFi) HardwareAddr() (net.HardwareAddr, error) {
	return nil, ErrNotImplemented
}

type nullRadio struct{}

func (nullRadio) Init(name string, typ AdvertisingType) error {
	_ = name
	_ = typ
	return ErrNotImplemented
}

func (nullRadio) SetAdvertisement(adv Advertisement) error {
	_ = adv
	return ErrNotImplemented
}

func (nullRadio) Start() error { return ErrNotImplemented }
func (nullRadio) Stop() error  { return nil }

type nullStorage struct{}

func (nullStorage) ReadFile(name string) ([]byte, error) {
	_ = name
	return nil, ErrNotImplemented
}

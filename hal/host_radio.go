//go:build !tinygo

package hal

import (
	"encoding/hex"
	"errors"
	"sync"
)

var errRadioNotInitialized = errors.New("radio: not initialized")

// hostRadio logs advertising activity instead of transmitting.
type hostRadio struct {
	mu     sync.Mutex
	logger Logger

	name        string
	typ         AdvertisingType
	adv         Advertisement
	advertising bool
}

func (r *hostRadio) Init(name string, typ AdvertisingType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name = name
	r.typ = typ
	r.logger.WriteLineString("radio: init name=" + name + " type=" + typ.String())
	return nil
}

func (r *hostRadio) SetAdvertisement(adv Advertisement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.typ == 0 {
		return errRadioNotInitialized
	}
	r.adv = Advertisement{
		LocalName: adv.LocalName,
		Flags:     adv.Flags,
		Payload:   append([]byte(nil), adv.Payload...),
	}
	return nil
}

func (r *hostRadio) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.typ == 0 {
		return errRadioNotInitialized
	}
	r.advertising = true
	r.logger.WriteLineString("radio: start name=" + r.adv.LocalName + " data=" + hex.EncodeToString(r.adv.Payload))
	return nil
}

func (r *hostRadio) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advertising = false
	r.logger.WriteLineString("radio: stop")
	return nil
}

//go:build tinygo && baremetal && (softdevice || ninafw)

package hal

import (
	"errors"

	"timebeacon/proto"

	"tinygo.org/x/bluetooth"
)

var errBadManufacturerData = errors.New("radio: payload has no manufacturer data")

// bleRadio advertises through the TinyGo bluetooth stack. The stack has an
// adapter only on nRF SoftDevice targets and NINA-W102 (ninafw) boards.
//
// The stack builds the flags and name AD structures itself; only the vendor
// bytes are taken from the payload.
type bleRadio struct {
	adapter *bluetooth.Adapter
	adv     *bluetooth.Advertisement
	name    string
	typ     bluetooth.AdvertisingType
}

func newBLERadio() Radio {
	return &bleRadio{adapter: bluetooth.DefaultAdapter}
}

func (r *bleRadio) Init(name string, typ AdvertisingType) error {
	if err := r.adapter.Enable(); err != nil {
		return err
	}
	r.adv = r.adapter.DefaultAdvertisement()
	r.name = name
	switch typ {
	case AdvertisingScannable:
		r.typ = bluetooth.AdvertisingTypeScanInd
	default:
		r.typ = bluetooth.AdvertisingTypeNonConnInd
	}
	return nil
}

func (r *bleRadio) SetAdvertisement(adv Advertisement) error {
	if r.adv == nil {
		return ErrNotImplemented
	}
	companyID, data, ok := proto.ManufacturerData(adv.Payload)
	if !ok {
		return errBadManufacturerData
	}
	name := adv.LocalName
	if name == "" {
		name = r.name
	}
	return r.adv.Configure(bluetooth.AdvertisementOptions{
		LocalName:         name,
		AdvertisementType: r.typ,
		ManufacturerData: []bluetooth.ManufacturerDataElement{
			{CompanyID: companyID, Data: data},
		},
	})
}

func (r *bleRadio) Start() error {
	if r.adv == nil {
		return ErrNotImplemented
	}
	return r.adv.Start()
}

func (r *bleRadio) Stop() error {
	if r.adv == nil {
		return nil
	}
	return r.adv.Stop()
}

//go:build !windows

package hid

import (
	usbhid "rafaelmartins.com/p/usbhid"
)

func init() {
	register("usbhid", func() (Manager, error) { return &usbManager{}, nil })
}

type usbManager struct{}

func (m *usbManager) List() ([]Info, error) {
	devs, err := usbhid.Enumerate(nil)
	if err != nil {
		return nil, err
	}
	out := make([]Info, 0, len(devs))
	for _, d := range devs {
		out = append(out, Info{
			Path:         d.Path(),
			VendorID:     d.VendorId(),
			ProductID:    d.ProductId(),
			Product:      d.Product(),
			Manufacturer: d.Manufacturer(),
			UsagePage:    d.UsagePage(),
			Usage:        d.Usage(),
		})
	}
	return out, nil
}

func (m *usbManager) Open(info Info) (Device, error) {
	d, err := usbhid.Get(func(dev *usbhid.Device) bool {
		return dev.Path() == info.Path
	}, true, false)
	if err != nil {
		return nil, err
	}

	read := func() ([]byte, error) {
		id, buf, err := d.GetInputReport()
		if err != nil {
			return nil, err
		}
		return numberedReport(id, buf), nil
	}
	return newPumpedDevice(read, d.Close), nil
}

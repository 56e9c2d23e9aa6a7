//go:build !hidapi

package hid

import (
	"fmt"

	"github.com/karalabe/usb"
)

func init() {
	register("karalabe", func() (Manager, error) {
		if !usb.Supported() {
			return nil, fmt.Errorf("karalabe/usb: platform not supported")
		}
		return &karalabeManager{}, nil
	})
}

type karalabeManager struct{}

func (m *karalabeManager) List() ([]Info, error) {
	infos, err := usb.EnumerateHid(0, 0)
	if err != nil {
		return nil, fmt.Errorf("usb enumerate: %w", err)
	}
	out := make([]Info, 0, len(infos))
	for _, info := range infos {
		out = append(out, Info{
			Path:         info.Path,
			VendorID:     info.VendorID,
			ProductID:    info.ProductID,
			Product:      info.Product,
			Manufacturer: info.Manufacturer,
			UsagePage:    info.UsagePage,
			Usage:        info.Usage,
		})
	}
	return out, nil
}

func (m *karalabeManager) Open(info Info) (Device, error) {
	infos, err := usb.EnumerateHid(info.VendorID, info.ProductID)
	if err != nil {
		return nil, fmt.Errorf("usb enumerate: %w", err)
	}
	for _, candidate := range infos {
		if candidate.Path != info.Path {
			continue
		}
		dev, err := candidate.Open()
		if err != nil {
			return nil, fmt.Errorf("open device: %w", err)
		}
		read := func() ([]byte, error) {
			buf := make([]byte, maxRawReportLength)
			n, err := dev.Read(buf)
			if err != nil {
				return nil, err
			}
			return buf[:n], nil
		}
		return newPumpedDevice(read, dev.Close), nil
	}
	return nil, fmt.Errorf("device %s not found (VID:0x%04X PID:0x%04X)", info.Path, info.VendorID, info.ProductID)
}

const maxRawReportLength = 256

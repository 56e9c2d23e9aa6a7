//go:build cgo && hidapi

// The hidapi backend is opt-in with -tags hidapi. go-hid and karalabe/usb
// each link their own copy of the hidapi C library, so the two backends are
// never built together.

package hid

import (
	"errors"
	"fmt"
	"time"

	gohid "github.com/sstallion/go-hid"
)

// maxReportLength bounds a single input report read through hidapi.
const maxReportLength = 256

func init() {
	register("hidapi", newHIDAPIManager)
}

type hidapiManager struct{}

func newHIDAPIManager() (Manager, error) {
	if err := gohid.Init(); err != nil {
		return nil, fmt.Errorf("hidapi init: %w", err)
	}
	return &hidapiManager{}, nil
}

func (m *hidapiManager) List() ([]Info, error) {
	var out []Info
	err := gohid.Enumerate(gohid.VendorIDAny, gohid.ProductIDAny, func(info *gohid.DeviceInfo) error {
		out = append(out, Info{
			Path:         info.Path,
			VendorID:     info.VendorID,
			ProductID:    info.ProductID,
			Product:      info.ProductStr,
			Manufacturer: info.MfrStr,
			UsagePage:    info.UsagePage,
			Usage:        info.Usage,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hidapi enumerate: %w", err)
	}
	return out, nil
}

func (m *hidapiManager) Open(info Info) (Device, error) {
	d, err := gohid.OpenPath(info.Path)
	if err != nil {
		return nil, fmt.Errorf("hidapi open %s: %w", info.Path, err)
	}
	return &hidapiDevice{d: d}, nil
}

type hidapiDevice struct {
	d *gohid.Device
}

func (d *hidapiDevice) ReadTimeout(timeout time.Duration) ([]byte, error) {
	buf := make([]byte, maxReportLength)
	n, err := d.d.ReadWithTimeout(buf, timeout)
	if errors.Is(err, gohid.ErrTimeout) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return buf[:n], nil
}

func (d *hidapiDevice) Close() error { return d.d.Close() }

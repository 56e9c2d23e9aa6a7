package hid

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrUnknownBackend = errors.New("unknown hid backend")
	ErrClosed         = errors.New("hid device closed")
)

// Device represents an opened HID device capable of reading input reports.
type Device interface {
	// ReadTimeout waits at most timeout for the next input report. It returns
	// nil, nil when nothing arrived in time.
	ReadTimeout(timeout time.Duration) ([]byte, error)
	Close() error
}

// Info represents a HID device descriptor.
type Info struct {
	Path         string `json:"path"`
	VendorID     uint16 `json:"vendorId"`
	ProductID    uint16 `json:"productId"`
	Product      string `json:"product"`
	Manufacturer string `json:"manufacturer"`
	UsagePage    uint16 `json:"usagePage"`
	Usage        uint16 `json:"usage"`
}

func (i Info) String() string {
	return fmt.Sprintf("%s (VID:0x%04X PID:0x%04X usage:0x%04X/0x%04X)", i.Product, i.VendorID, i.ProductID, i.UsagePage, i.Usage)
}

// Manager enumerates and opens HID devices.
type Manager interface {
	List() ([]Info, error)
	Open(info Info) (Device, error)
}

var backends = map[string]func() (Manager, error){}

func register(name string, f func() (Manager, error)) {
	backends[name] = f
}

// Backends returns the names of the backends compiled into this binary.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewManager returns the named HID manager. An empty name selects the
// platform default.
func NewManager(name string) (Manager, error) {
	if name == "" {
		name = DefaultBackend
	}
	f, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownBackend, name, strings.Join(Backends(), ", "))
	}
	return f()
}

// numberedReport gives every backend's reports the same shape: numbered
// reports keep their ID as the leading byte, ID 0 means the device does not
// number its reports and only the payload is returned.
func numberedReport(id byte, payload []byte) []byte {
	if id == 0 {
		return payload
	}
	return append([]byte{id}, payload...)
}

// FormatReport renders report bytes as dash separated hex, e.g. "0b-00-bb-08".
func FormatReport(b []byte) string {
	hexDigits := hex.EncodeToString(b)
	var builder strings.Builder
	for i, r := range hexDigits {
		if i > 0 && i%2 == 0 {
			builder.WriteString("-")
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

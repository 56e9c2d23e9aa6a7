//go:build !windows

package hid

// DefaultBackend is used when no backend is configured.
const DefaultBackend = "usbhid"

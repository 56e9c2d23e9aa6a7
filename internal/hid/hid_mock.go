package hid

import (
	"errors"
	"sync"
	"time"
)

func init() {
	register("mock", func() (Manager, error) { return NewMockManager(), nil })
}

// MockHID is an in-memory Device fed through Emit.
type MockHID struct {
	reports chan []byte

	mu     sync.Mutex
	err    error
	closed bool
}

func NewMockHID() *MockHID {
	return &MockHID{
		reports: make(chan []byte, 64),
	}
}

// Emit queues a report for the next ReadTimeout.
func (m *MockHID) Emit(report []byte) {
	m.reports <- append([]byte(nil), report...)
}

// Fail makes every following read return err.
func (m *MockHID) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockHID) ReadTimeout(timeout time.Duration) ([]byte, error) {
	m.mu.Lock()
	err, closed := m.err, m.closed
	m.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	if err != nil {
		return nil, err
	}

	select {
	case r := <-m.reports:
		return r, nil
	case <-time.After(timeout):
		return nil, nil
	}
}

func (m *MockHID) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockHID) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockManager serves a fixed set of devices.
type MockManager struct {
	mu       sync.Mutex
	infos    []Info
	devices  map[string]*MockHID
	openErrs map[string]error
}

func NewMockManager() *MockManager {
	return &MockManager{
		devices:  map[string]*MockHID{},
		openErrs: map[string]error{},
	}
}

// Add registers a device and returns its handle for emitting reports.
func (m *MockManager) Add(info Info) *MockHID {
	m.mu.Lock()
	defer m.mu.Unlock()
	dev := NewMockHID()
	m.infos = append(m.infos, info)
	m.devices[info.Path] = dev
	return dev
}

// FailOpen makes Open of the device at path return err.
func (m *MockManager) FailOpen(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErrs[path] = err
}

func (m *MockManager) List() ([]Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Info(nil), m.infos...), nil
}

func (m *MockManager) Open(info Info) (Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.openErrs[info.Path]; err != nil {
		return nil, err
	}
	dev, ok := m.devices[info.Path]
	if !ok {
		return nil, errors.New("mock device not found: " + info.Path)
	}
	return dev, nil
}

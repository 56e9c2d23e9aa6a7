package hid

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReport(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{name: "empty", in: nil, want: ""},
		{name: "single", in: []byte{0x02}, want: "02"},
		{name: "mute button", in: []byte{11, 0, 187, 8}, want: "0b-00-bb-08"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatReport(tt.in))
		})
	}
}

func TestNewManagerUnknownBackend(t *testing.T) {
	_, err := NewManager("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}

func TestDefaultBackendIsCompiledIn(t *testing.T) {
	assert.Contains(t, Backends(), DefaultBackend)
}

func TestNumberedReport(t *testing.T) {
	tests := []struct {
		name    string
		id      byte
		payload []byte
		want    []byte
	}{
		{name: "unnumbered", id: 0, payload: []byte{2, 0}, want: []byte{2, 0}},
		{name: "numbered", id: 11, payload: []byte{0, 187, 8}, want: []byte{11, 0, 187, 8}},
		{name: "numbered empty payload", id: 2, payload: nil, want: []byte{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, numberedReport(tt.id, tt.payload))
		})
	}
}

func TestNewManagerMock(t *testing.T) {
	m, err := NewManager("mock")
	require.NoError(t, err)
	infos, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
	assert.Contains(t, Backends(), "mock")
}

func TestMockManager(t *testing.T) {
	m := NewMockManager()
	dev := m.Add(Info{Path: "/dev/hidraw0", Product: "Headset"})
	m.Add(Info{Path: "/dev/hidraw1", Product: "Headset"})
	m.FailOpen("/dev/hidraw1", errors.New("busy"))

	infos, err := m.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)

	opened, err := m.Open(infos[0])
	require.NoError(t, err)
	assert.Same(t, dev, opened)

	_, err = m.Open(infos[1])
	assert.EqualError(t, err, "busy")
}

func TestMockHIDReadTimeout(t *testing.T) {
	dev := NewMockHID()

	r, err := dev.ReadTimeout(5 * time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, r)

	dev.Emit([]byte{2, 0, 1})
	r, err = dev.ReadTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0, 1}, r)

	dev.Fail(errors.New("unplugged"))
	_, err = dev.ReadTimeout(time.Second)
	assert.EqualError(t, err, "unplugged")

	require.NoError(t, dev.Close())
	_, err = dev.ReadTimeout(time.Second)
	assert.ErrorIs(t, err, ErrClosed)
}

// blockingReader hands out queued reports and blocks when the queue is empty,
// like a HID read with no timeout.
type blockingReader struct {
	reports chan []byte
	errs    chan error
	closed  chan struct{}
	once    sync.Once
}

func newBlockingReader() *blockingReader {
	return &blockingReader{
		reports: make(chan []byte, 8),
		errs:    make(chan error, 1),
		closed:  make(chan struct{}),
	}
}

func (b *blockingReader) read() ([]byte, error) {
	select {
	case r := <-b.reports:
		return r, nil
	case err := <-b.errs:
		return nil, err
	case <-b.closed:
		return nil, ErrClosed
	}
}

func (b *blockingReader) close() error {
	b.once.Do(func() { close(b.closed) })
	return nil
}

func TestPumpedDevice(t *testing.T) {
	br := newBlockingReader()
	dev := newPumpedDevice(br.read, br.close)
	defer dev.Close()

	r, err := dev.ReadTimeout(10 * time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, r, "no report within the timeout is not an error")

	br.reports <- []byte{}
	br.reports <- []byte{11, 0, 187, 8}
	r, err = dev.ReadTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{11, 0, 187, 8}, r, "empty reports are skipped")
}

func TestPumpedDeviceStickyError(t *testing.T) {
	br := newBlockingReader()
	dev := newPumpedDevice(br.read, br.close)
	defer dev.Close()

	boom := errors.New("device gone")
	br.errs <- boom

	_, err := dev.ReadTimeout(time.Second)
	assert.ErrorIs(t, err, boom)
	_, err = dev.ReadTimeout(time.Second)
	assert.ErrorIs(t, err, boom)
}

func TestPumpedDeviceClose(t *testing.T) {
	br := newBlockingReader()
	dev := newPumpedDevice(br.read, br.close)

	require.NoError(t, dev.Close())
	require.NoError(t, dev.Close())

	_, err := dev.ReadTimeout(time.Second)
	assert.ErrorIs(t, err, ErrClosed)
}

package hid

import (
	"sync"
	"time"
)

// pumpedDevice adapts a blocking report reader into a Device with bounded
// reads. A single goroutine owns the underlying read call and hands reports
// over a channel; the first read error is sticky.
type pumpedDevice struct {
	read  func() ([]byte, error)
	close func() error

	reports chan []byte
	done    chan struct{}
	once    sync.Once
	err     error
}

func newPumpedDevice(read func() ([]byte, error), closeFn func() error) *pumpedDevice {
	d := &pumpedDevice{
		read:    read,
		close:   closeFn,
		reports: make(chan []byte, 16),
		done:    make(chan struct{}),
	}
	go d.pump()
	return d
}

func (d *pumpedDevice) pump() {
	defer close(d.reports)
	for {
		select {
		case <-d.done:
			return
		default:
		}

		data, err := d.read()
		if err != nil {
			d.err = err
			return
		}
		if len(data) == 0 {
			continue
		}
		select {
		case d.reports <- data:
		case <-d.done:
			return
		}
	}
}

func (d *pumpedDevice) ReadTimeout(timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case data, ok := <-d.reports:
		if !ok {
			if d.err != nil {
				return nil, d.err
			}
			return nil, ErrClosed
		}
		return data, nil
	case <-d.done:
		return nil, ErrClosed
	case <-timer.C:
		return nil, nil
	}
}

func (d *pumpedDevice) Close() error {
	var err error
	d.once.Do(func() {
		close(d.done)
		err = d.close()
	})
	return err
}

// Package source discovers the HID interfaces named by the configured
// descriptors and turns their raw input reports into event symbols.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/seagrayinc/hidmacro/internal/gesture"
	"github.com/seagrayinc/hidmacro/internal/hid"
	"github.com/seagrayinc/hidmacro/internal/scheduler"
)

// ErrNoSources is returned by Discover when no device matched.
var ErrNoSources = errors.New("no devices were found")

// Descriptor identifies a pollable HID interface and the symbol its reports
// produce.
type Descriptor struct {
	Product   string
	Usage     uint16
	UsagePage uint16
	Signature []byte
	Symbol    gesture.Symbol
}

// Accepts reports whether the enumerated interface is the one described.
func (d Descriptor) Accepts(info hid.Info) bool {
	return d.Product == info.Product && d.Usage == info.Usage && d.UsagePage == info.UsagePage
}

// Classify returns the descriptor's symbol if report starts with its
// signature.
func (d Descriptor) Classify(report []byte) (gesture.Symbol, bool) {
	if len(report) == 0 || !bytes.HasPrefix(report, d.Signature) {
		return "", false
	}
	return d.Symbol, true
}

// Source is an opened device paired with the descriptor that selected it.
type Source struct {
	Info       hid.Info
	Descriptor Descriptor
	Device     hid.Device
}

func (s Source) Name() string {
	return fmt.Sprintf("%s:%s", s.Descriptor.Symbol, s.Info.Path)
}

// Discover enumerates the manager's devices and opens every one accepted by
// a descriptor. The first accepting descriptor wins for each device. Devices
// that fail to open are logged and skipped.
func Discover(mgr hid.Manager, descriptors []Descriptor) ([]Source, error) {
	infos, err := mgr.List()
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}

	var sources []Source
	for _, info := range infos {
		for _, d := range descriptors {
			if !d.Accepts(info) {
				continue
			}
			dev, err := mgr.Open(info)
			if err != nil {
				slog.Warn("failed to open device", slog.String("device", info.String()), slog.Any("error", err))
				break
			}
			slog.Info("device attached", slog.String("device", info.String()), slog.String("symbol", string(d.Symbol)))
			sources = append(sources, Source{Info: info, Descriptor: d, Device: dev})
			break
		}
	}

	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	return sources, nil
}

// Close closes every source's device.
func Close(sources []Source) error {
	var errs []error
	for _, s := range sources {
		if err := s.Device.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// PollTask reads at most one report per tick from src, waiting up to
// timeout, and hands a classified symbol to admit. A missing or foreign
// report is not an error.
func PollTask(src Source, timeout time.Duration, admit func(gesture.Symbol)) scheduler.Task {
	return scheduler.Task{
		Name:   src.Name(),
		Period: 1,
		Run: func(context.Context) error {
			report, err := src.Device.ReadTimeout(timeout)
			if err != nil {
				return fmt.Errorf("read %s: %w", src.Info.Path, err)
			}
			sym, ok := src.Descriptor.Classify(report)
			if !ok {
				if len(report) > 0 {
					slog.Debug("report ignored", slog.String("source", src.Name()), slog.String("report", hid.FormatReport(report)))
				}
				return nil
			}
			admit(sym)
			return nil
		},
	}
}

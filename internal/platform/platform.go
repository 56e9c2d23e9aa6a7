// Package platform provides the operating system capabilities the macro
// engine drives: volume, input injection and a tone.
package platform

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Volume reads and writes the output volume as a percentage.
type Volume interface {
	Get() (int, error)
	Set(level int) error
}

// Injector synthesizes input. Key and button names follow the robot naming
// used in the config, e.g. "audio_play", "f13", "left".
type Injector interface {
	KeyTap(key string) error
	MouseClick(button string) error
}

// Tone plays a short beep.
type Tone interface {
	Beep(d time.Duration) error
}

// Ports bundles the capabilities.
type Ports struct {
	Volume   Volume
	Injector Injector
	Tone     Tone
}

// New returns the native ports. With dryRun the injector only logs.
func New(dryRun bool) Ports {
	p := native()
	if dryRun {
		p.Injector = DryRun{}
	}
	return p
}

func clampLevel(level int) int {
	switch {
	case level < 0:
		return 0
	case level > 100:
		return 100
	}
	return level
}

// DryRun logs injections instead of performing them.
type DryRun struct{}

func (DryRun) KeyTap(key string) error {
	slog.Info("dry run: key tap", slog.String("key", key))
	return nil
}

func (DryRun) MouseClick(button string) error {
	slog.Info("dry run: mouse click", slog.String("button", button))
	return nil
}

// Recorder is an in-memory implementation of every port.
type Recorder struct {
	mu      sync.Mutex
	level   int
	Levels  []int
	Keys    []string
	Clicks  []string
	Beeps   []time.Duration
	FailKey error
}

func NewRecorder(level int) *Recorder {
	return &Recorder{level: level}
}

func (r *Recorder) Ports() Ports {
	return Ports{Volume: r, Injector: r, Tone: r}
}

func (r *Recorder) Get() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.level, nil
}

func (r *Recorder) Set(level int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.level = clampLevel(level)
	r.Levels = append(r.Levels, r.level)
	return nil
}

// SetLevel changes the level without recording a Set, like the user turning
// the headset's wheel.
func (r *Recorder) SetLevel(level int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.level = level
}

func (r *Recorder) KeyTap(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailKey != nil {
		return r.FailKey
	}
	r.Keys = append(r.Keys, key)
	return nil
}

func (r *Recorder) MouseClick(button string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Clicks = append(r.Clicks, button)
	return nil
}

func (r *Recorder) Beep(d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Beeps = append(r.Beeps, d)
	return nil
}

// Snapshot returns copies of the recorded calls.
func (r *Recorder) Snapshot() (levels []int, keys, clicks []string, beeps []time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.Levels...), append([]string(nil), r.Keys...), append([]string(nil), r.Clicks...), append([]time.Duration(nil), r.Beeps...)
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown key %q", key)
}

func unknownButton(button string) error {
	return fmt.Errorf("unknown mouse button %q", button)
}

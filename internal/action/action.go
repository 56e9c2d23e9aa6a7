// Package action performs the side effects of matched gestures.
package action

import (
	"log/slog"
	"sync"
	"time"

	"github.com/seagrayinc/hidmacro/internal/gesture"
	"github.com/seagrayinc/hidmacro/internal/platform"
)

// Dispatcher fires actions through an injector.
type Dispatcher struct {
	Injector platform.Injector
}

// Fire performs a. Unknown kinds have no side effect.
func (d *Dispatcher) Fire(a gesture.Action) {
	var err error
	switch a.Kind {
	case gesture.Keyboard:
		err = d.Injector.KeyTap(a.Value)
	case gesture.Mouse:
		err = d.Injector.MouseClick(a.Value)
	default:
		slog.Warn("ignoring action of unknown kind", slog.String("kind", string(a.Kind)), slog.String("value", a.Value))
		return
	}
	if err != nil {
		slog.Warn("action failed", slog.String("action", a.String()), slog.Any("error", err))
		return
	}
	slog.Info("action fired", slog.String("action", a.String()))
}

// Feedback undoes the headset's own volume change for the scroll wheel and
// confirms the scroll with a beep.
type Feedback struct {
	Volume platform.Volume
	Tone   platform.Tone

	mu       sync.Mutex
	beep     time.Duration
	previous int
	sampled  bool
	wg       sync.WaitGroup
}

func NewFeedback(volume platform.Volume, tone platform.Tone, beep time.Duration) *Feedback {
	return &Feedback{Volume: volume, Tone: tone, beep: beep}
}

// SetBeepLength changes the beep duration. Zero or less disables it.
func (f *Feedback) SetBeepLength(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.beep = d
}

// Sample records the current volume as the level to restore.
func (f *Feedback) Sample() error {
	level, err := f.Volume.Get()
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.sampled || level != f.previous {
		slog.Debug("volume sampled", slog.Int("level", level))
	}
	f.previous = level
	f.sampled = true
	return nil
}

func (f *Feedback) previousLevel() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.previous, f.sampled
}

// Trigger starts the beep in the background and restores the sampled
// volume. Nothing is restored before the first sample.
func (f *Feedback) Trigger() {
	f.mu.Lock()
	beep, level, sampled := f.beep, f.previous, f.sampled
	f.mu.Unlock()

	if beep > 0 {
		f.wg.Add(1)
		go func() {
			defer f.wg.Done()
			if err := f.Tone.Beep(beep); err != nil {
				slog.Debug("beep failed", slog.Any("error", err))
			}
		}()
	}

	if !sampled {
		return
	}
	if err := f.Volume.Set(level); err != nil {
		slog.Warn("failed to restore volume", slog.Int("level", level), slog.Any("error", err))
	}
}

// Wait blocks until running beeps finish.
func (f *Feedback) Wait() {
	f.wg.Wait()
}

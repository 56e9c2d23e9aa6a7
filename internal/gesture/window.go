package gesture

import (
	"log/slog"
	"sync"
	"time"
)

// Window collects symbols admitted within captureDelay of each other and
// evaluates the sequence once activity has been quiet for captureDelay.
//
// At most one evaluation timer is outstanding. Every admission supersedes the
// pending timer; a generation counter makes sure a timer that already fired
// but lost the race for the lock does not evaluate a stale window.
type Window struct {
	clock    Clock
	evaluate func([]Symbol)

	mu           sync.Mutex
	delay        time.Duration
	seq          []Symbol
	lastAdmitted time.Time
	timer        Timer
	generation   uint64
}

// NewWindow returns an empty window. evaluate runs on the timer goroutine
// with a copy of the settled sequence.
func NewWindow(delay time.Duration, clock Clock, evaluate func([]Symbol)) *Window {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Window{
		clock:    clock,
		evaluate: evaluate,
		delay:    delay,
	}
}

// Admit appends sym, clearing the window first if the previous admission is
// older than captureDelay, and re-arms the evaluation timer.
func (w *Window) Admit(sym Symbol) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	if now.Sub(w.lastAdmitted) > w.delay {
		w.seq = w.seq[:0]
	}
	w.seq = append(w.seq, sym)
	w.lastAdmitted = now

	if w.timer != nil {
		w.timer.Stop()
	}
	w.generation++
	gen := w.generation
	w.timer = w.clock.AfterFunc(w.delay, func() { w.fire(gen) })

	slog.Debug("symbol admitted", slog.String("symbol", string(sym)), slog.String("window", FormatSequence(w.seq)))
}

func (w *Window) fire(gen uint64) {
	w.mu.Lock()
	if gen != w.generation || w.timer == nil {
		w.mu.Unlock()
		return
	}
	seq := append([]Symbol(nil), w.seq...)
	w.seq = w.seq[:0]
	w.timer = nil
	w.mu.Unlock()

	if w.evaluate != nil && len(seq) > 0 {
		w.evaluate(seq)
	}
}

// Snapshot returns a copy of the symbols currently held.
func (w *Window) Snapshot() []Symbol {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Symbol(nil), w.seq...)
}

// Pending reports whether an evaluation is scheduled.
func (w *Window) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timer != nil
}

// SetDelay changes captureDelay for subsequent admissions. A pending timer
// keeps the delay it was armed with.
func (w *Window) SetDelay(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.delay = d
}

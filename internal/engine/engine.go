// Package engine connects polled sources to the gesture window and fires the
// bound actions.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/seagrayinc/hidmacro/internal/action"
	"github.com/seagrayinc/hidmacro/internal/config"
	"github.com/seagrayinc/hidmacro/internal/gesture"
	"github.com/seagrayinc/hidmacro/internal/platform"
	"github.com/seagrayinc/hidmacro/internal/scheduler"
	"github.com/seagrayinc/hidmacro/internal/source"
)

// Options configure an Engine.
type Options struct {
	CaptureDelay  time.Duration
	BeepLength    time.Duration
	Rules         []gesture.Rule
	FeedbackEvent gesture.Symbol
	Ports         platform.Ports
	Clock         gesture.Clock
}

// Engine owns the rule table, the event window and the side effects.
type Engine struct {
	window     *gesture.Window
	dispatcher *action.Dispatcher
	feedback   *action.Feedback

	mu            sync.RWMutex
	rules         []gesture.Rule
	feedbackEvent gesture.Symbol
}

func New(opts Options) *Engine {
	e := &Engine{
		dispatcher:    &action.Dispatcher{Injector: opts.Ports.Injector},
		feedback:      action.NewFeedback(opts.Ports.Volume, opts.Ports.Tone, opts.BeepLength),
		rules:         append([]gesture.Rule(nil), opts.Rules...),
		feedbackEvent: opts.FeedbackEvent,
	}
	e.window = gesture.NewWindow(opts.CaptureDelay, opts.Clock, e.evaluate)
	return e
}

// FromConfig builds an engine from a validated config.
func FromConfig(cfg *config.Config, ports platform.Ports) *Engine {
	return New(Options{
		CaptureDelay:  cfg.CaptureDelayDuration(),
		BeepLength:    cfg.BeepLengthDuration(),
		Rules:         cfg.Rules(),
		FeedbackEvent: gesture.Symbol(cfg.FeedbackEvent),
		Ports:         ports,
	})
}

// Admit handles a classified symbol: the feedback side effect runs
// immediately for the feedback event, then the symbol enters the window.
func (e *Engine) Admit(sym gesture.Symbol) {
	e.mu.RLock()
	feedback := sym == e.feedbackEvent
	e.mu.RUnlock()

	if feedback {
		e.feedback.Trigger()
	}
	e.window.Admit(sym)
}

func (e *Engine) evaluate(seq []gesture.Symbol) {
	rule, ok := gesture.Match(seq, e.Rules())
	if !ok {
		slog.Debug("no binding for sequence", slog.String("sequence", gesture.FormatSequence(seq)))
		return
	}
	slog.Debug("binding matched", slog.String("rule", rule.String()))
	e.dispatcher.Fire(rule.Action)
}

// Rules returns the active rule table.
func (e *Engine) Rules() []gesture.Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rules
}

// Reload swaps in the rules and timings of cfg. An evaluation in progress
// finishes against the table it started with.
func (e *Engine) Reload(cfg *config.Config) {
	e.mu.Lock()
	e.rules = cfg.Rules()
	e.feedbackEvent = gesture.Symbol(cfg.FeedbackEvent)
	e.mu.Unlock()

	e.window.SetDelay(cfg.CaptureDelayDuration())
	e.feedback.SetBeepLength(cfg.BeepLengthDuration())
}

// Window exposes the event window.
func (e *Engine) Window() *gesture.Window { return e.window }

// Feedback exposes the audio feedback.
func (e *Engine) Feedback() *action.Feedback { return e.feedback }

// Tasks returns a poll task per source and the volume sampling task.
func (e *Engine) Tasks(sources []source.Source, readTimeout time.Duration, volumePeriod uint64) []scheduler.Task {
	tasks := []scheduler.Task{{
		Name:   "volume",
		Period: volumePeriod,
		Run: func(context.Context) error {
			return e.feedback.Sample()
		},
	}}
	for _, src := range sources {
		tasks = append(tasks, source.PollTask(src, readTimeout, e.Admit))
	}
	return tasks
}

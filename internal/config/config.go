package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seagrayinc/hidmacro/internal/gesture"
	"github.com/seagrayinc/hidmacro/internal/platform"
	"github.com/seagrayinc/hidmacro/internal/source"
)

const (
	DefaultPath          = "config.json"
	DefaultTickInterval  = 100
	DefaultReadTimeout   = 100
	DefaultVolumePeriod  = 10
	DefaultFeedbackEvent = "audio-scroll"
)

// DefaultSources are the HyperX Cloud II Wireless interfaces: the volume
// wheel on the consumer control page and the mute button on the vendor page.
var DefaultSources = []SourceConfig{
	{
		Product:   "HyperX Cloud II Wireless",
		Type:      "audio-scroll",
		Signature: []int{2, 0},
		Usage:     1,
		UsagePage: 12,
	},
	{
		Product:   "HyperX Cloud II Wireless",
		Type:      "mute-button",
		Signature: []int{11, 0, 187, 8},
		Usage:     1,
		UsagePage: 65299,
	},
}

// Config is the top-level configuration document. Durations are in
// milliseconds. JSON files decode as YAML. A zero or omitted tickInterval,
// readTimeout or volumePeriod selects its default; negative values are
// rejected.
type Config struct {
	CaptureDelay  int            `yaml:"captureDelay" json:"captureDelay"`
	BeepLength    int            `yaml:"beepLength" json:"beepLength"`
	Actions       []ActionConfig `yaml:"actions" json:"actions"`
	Sources       []SourceConfig `yaml:"sources" json:"sources"`
	TickInterval  int            `yaml:"tickInterval" json:"tickInterval"`
	ReadTimeout   int            `yaml:"readTimeout" json:"readTimeout"`
	VolumePeriod  int            `yaml:"volumePeriod" json:"volumePeriod"`
	FeedbackEvent string         `yaml:"feedbackEvent" json:"feedbackEvent"`
	Backend       string         `yaml:"backend" json:"backend"`
}

// ActionConfig binds an event sequence to a keyboard or mouse action.
type ActionConfig struct {
	Events []string `yaml:"events" json:"events"`
	Type   string   `yaml:"type" json:"type"`
	Value  string   `yaml:"value" json:"value"`
}

// SourceConfig describes one HID interface to poll.
type SourceConfig struct {
	Product   string `yaml:"product" json:"product"`
	Type      string `yaml:"type" json:"type"`
	Signature []int  `yaml:"signature" json:"signature"`
	Usage     uint16 `yaml:"usage" json:"usage"`
	UsagePage uint16 `yaml:"usagePage" json:"usagePage"`
}

// LintError describes a single validation problem.
type LintError struct {
	Path    string
	Message string
}

func (e LintError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// ValidationError collects every problem found in a document.
type ValidationError struct {
	Errors []LintError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, le := range e.Errors {
		msgs[i] = le.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes, defaults and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Sources == nil {
		c.Sources = append([]SourceConfig(nil), DefaultSources...)
	}
	if c.TickInterval == 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.VolumePeriod == 0 {
		c.VolumePeriod = DefaultVolumePeriod
	}
	if c.FeedbackEvent == "" {
		c.FeedbackEvent = DefaultFeedbackEvent
	}
}

// Lint returns every validation problem.
func (c *Config) Lint() []LintError {
	var errs []LintError
	add := func(path, format string, args ...any) {
		errs = append(errs, LintError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if c.CaptureDelay <= 0 {
		add("captureDelay", "must be a positive number of milliseconds")
	}
	if c.BeepLength < 0 {
		add("beepLength", "must not be negative")
	}
	if c.TickInterval < 0 {
		add("tickInterval", "must not be negative (0 selects %dms)", DefaultTickInterval)
	}
	if c.ReadTimeout < 0 {
		add("readTimeout", "must not be negative (0 selects %dms)", DefaultReadTimeout)
	}
	if c.VolumePeriod < 1 {
		add("volumePeriod", "must be at least 1 (0 selects %d)", DefaultVolumePeriod)
	}

	for i, a := range c.Actions {
		path := fmt.Sprintf("actions[%d]", i)
		if len(a.Events) == 0 {
			add(path+".events", "must list at least one event")
		}
		for j, ev := range a.Events {
			if strings.TrimSpace(ev) == "" {
				add(fmt.Sprintf("%s.events[%d]", path, j), "must not be empty")
			}
		}
		switch gesture.ActionKind(a.Type) {
		case gesture.Keyboard:
			if !platform.KnownKey(a.Value) {
				add(path+".value", "unknown key %q", a.Value)
			}
		case gesture.Mouse:
			if !platform.KnownButton(a.Value) {
				add(path+".value", "unknown mouse button %q", a.Value)
			}
		default:
			add(path+".type", "unknown action type %q (want keyboard or mouse)", a.Type)
		}
	}

	for i, s := range c.Sources {
		path := fmt.Sprintf("sources[%d]", i)
		if s.Product == "" {
			add(path+".product", "must not be empty")
		}
		if s.Type == "" {
			add(path+".type", "must not be empty")
		}
		if len(s.Signature) == 0 {
			add(path+".signature", "must not be empty")
		}
		for j, b := range s.Signature {
			if b < 0 || b > 0xFF {
				add(fmt.Sprintf("%s.signature[%d]", path, j), "%d is not a byte", b)
			}
		}
	}
	return errs
}

// Validate returns a *ValidationError when Lint finds problems.
func (c *Config) Validate() error {
	if errs := c.Lint(); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Rules compiles the action table in declared order.
func (c *Config) Rules() []gesture.Rule {
	rules := make([]gesture.Rule, 0, len(c.Actions))
	for _, a := range c.Actions {
		events := make([]gesture.Symbol, len(a.Events))
		for i, ev := range a.Events {
			events[i] = gesture.Symbol(ev)
		}
		rules = append(rules, gesture.Rule{
			Events: events,
			Action: gesture.Action{Kind: gesture.ActionKind(a.Type), Value: a.Value},
		})
	}
	return rules
}

// Descriptors converts the source list.
func (c *Config) Descriptors() []source.Descriptor {
	out := make([]source.Descriptor, 0, len(c.Sources))
	for _, s := range c.Sources {
		sig := make([]byte, len(s.Signature))
		for i, b := range s.Signature {
			sig[i] = byte(b)
		}
		out = append(out, source.Descriptor{
			Product:   s.Product,
			Usage:     s.Usage,
			UsagePage: s.UsagePage,
			Signature: sig,
			Symbol:    gesture.Symbol(s.Type),
		})
	}
	return out
}

func (c *Config) CaptureDelayDuration() time.Duration {
	return time.Duration(c.CaptureDelay) * time.Millisecond
}

func (c *Config) BeepLengthDuration() time.Duration {
	return time.Duration(c.BeepLength) * time.Millisecond
}

func (c *Config) TickIntervalDuration() time.Duration {
	return time.Duration(c.TickInterval) * time.Millisecond
}

func (c *Config) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Millisecond
}

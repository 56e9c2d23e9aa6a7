// Package gesture accumulates event symbols into a debounced window and
// matches the settled sequence against an ordered table of binding rules.
package gesture

import "strings"

// Symbol identifies a classified event, e.g. "audio-scroll" or "mute-button".
type Symbol string

// ActionKind selects the injector capability an Action uses.
type ActionKind string

const (
	Keyboard ActionKind = "keyboard"
	Mouse    ActionKind = "mouse"
)

// Action is the side effect bound to a pattern.
type Action struct {
	Kind  ActionKind
	Value string
}

func (a Action) String() string {
	return string(a.Kind) + ":" + a.Value
}

// Rule binds an exact sequence of symbols to an action.
type Rule struct {
	Events []Symbol
	Action Action
}

func (r Rule) String() string {
	return FormatSequence(r.Events) + " -> " + r.Action.String()
}

// FormatSequence renders symbols as "a, b, c".
func FormatSequence(seq []Symbol) string {
	parts := make([]string, len(seq))
	for i, s := range seq {
		parts[i] = string(s)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Match returns the first rule, in table order, whose pattern equals seq.
// Patterns match only sequences of identical length; there is no prefix or
// longest-match resolution. The table is never modified.
func Match(seq []Symbol, rules []Rule) (Rule, bool) {
	for _, rule := range rules {
		if equal(rule.Events, seq) {
			return rule, true
		}
	}
	return Rule{}, false
}

func equal(pattern, seq []Symbol) bool {
	if len(pattern) != len(seq) {
		return false
	}
	for i := range pattern {
		if pattern[i] != seq[i] {
			return false
		}
	}
	return true
}

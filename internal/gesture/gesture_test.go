package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	k1 := Action{Kind: Keyboard, Value: "audio_play"}
	k2 := Action{Kind: Keyboard, Value: "audio_next"}
	table := []Rule{
		{Events: []Symbol{"A", "B"}, Action: k1},
		{Events: []Symbol{"A"}, Action: k2},
	}

	tests := []struct {
		name   string
		seq    []Symbol
		rules  []Rule
		want   Action
		wantOK bool
	}{
		{name: "shorter sequence skips longer pattern", seq: []Symbol{"A"}, rules: table, want: k2, wantOK: true},
		{name: "exact two symbol match", seq: []Symbol{"A", "B"}, rules: table, want: k1, wantOK: true},
		{name: "unknown symbol", seq: []Symbol{"X"}, rules: table},
		{name: "longer sequence does not prefix match", seq: []Symbol{"A", "B", "B"}, rules: table},
		{name: "order matters", seq: []Symbol{"B", "A"}, rules: table},
		{name: "empty sequence", seq: nil, rules: table},
		{name: "empty table", seq: []Symbol{"A"}},
		{
			name: "first declared wins",
			seq:  []Symbol{"A"},
			rules: []Rule{
				{Events: []Symbol{"A"}, Action: k1},
				{Events: []Symbol{"A"}, Action: k2},
			},
			want:   k1,
			wantOK: true,
		},
		{
			name:   "empty pattern matches only empty sequence",
			seq:    nil,
			rules:  []Rule{{Events: nil, Action: k2}},
			want:   k2,
			wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Match(tt.seq, tt.rules)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.Action)
			}
		})
	}
}

func TestMatchLeavesTableUntouched(t *testing.T) {
	rules := []Rule{
		{Events: []Symbol{"A", "B"}, Action: Action{Kind: Keyboard, Value: "a"}},
		{Events: []Symbol{"B"}, Action: Action{Kind: Mouse, Value: "left"}},
	}
	before := []Rule{
		{Events: []Symbol{"A", "B"}, Action: Action{Kind: Keyboard, Value: "a"}},
		{Events: []Symbol{"B"}, Action: Action{Kind: Mouse, Value: "left"}},
	}

	Match([]Symbol{"A", "C"}, rules)
	Match([]Symbol{"B"}, rules)

	assert.Equal(t, before, rules)
}

func TestRuleString(t *testing.T) {
	r := Rule{Events: []Symbol{"mute-button", "mute-button"}, Action: Action{Kind: Keyboard, Value: "audio_next"}}
	assert.Equal(t, "[mute-button, mute-button] -> keyboard:audio_next", r.String())
}

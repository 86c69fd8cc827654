package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLattice_Laws(t *testing.T) {
	for _, a := range Levels {
		for _, b := range Levels {
			assert.Equal(t, Meet(a, b), Meet(b, a), "meet commutative %s %s", a, b)
			assert.Equal(t, Join(a, b), Join(b, a), "join commutative %s %s", a, b)
			for _, c := range Levels {
				assert.Equal(t, Meet(Meet(a, b), c), Meet(a, Meet(b, c)), "meet associative")
				assert.Equal(t, Join(Join(a, b), c), Join(a, Join(b, c)), "join associative")
			}
		}
		assert.Equal(t, a, Meet(a, a), "meet idempotent")
		assert.Equal(t, a, Join(a, a), "join idempotent")
		assert.Equal(t, a, Meet(a, Normal), "normal is meet identity")
		assert.Equal(t, a, Join(a, None), "none is join identity")
		assert.Equal(t, None, Meet(a, None), "none absorbs meet")
		assert.Equal(t, Normal, Join(a, Normal), "normal absorbs join")
	}
}

func TestLattice_EmptyIdentities(t *testing.T) {
	assert.Equal(t, Normal, Meet())
	assert.Equal(t, None, Join())
}

func TestLattice_Order(t *testing.T) {
	assert.True(t, None < Inspect)
	assert.True(t, Inspect < Partial)
	assert.True(t, Partial < SequenceBreak)
	assert.True(t, SequenceBreak < Normal)
	assert.False(t, Partial.Reachable())
	assert.True(t, SequenceBreak.Reachable())
}

func TestParseAccessibilityLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    AccessibilityLevel
		wantErr bool
	}{
		{"none", None, false},
		{"Inspect", Inspect, false},
		{"sequence-break", SequenceBreak, false},
		{"SequenceBreak", SequenceBreak, false},
		{" normal ", Normal, false},
		{"glitched", None, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAccessibilityLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccessibilityLevel_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]AccessibilityLevel{"cap": Inspect})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cap":"inspect"}`, string(data))

	var decoded map[string]AccessibilityLevel
	require.NoError(t, json.Unmarshal([]byte(`{"cap":"partial"}`), &decoded))
	assert.Equal(t, Partial, decoded["cap"])

	assert.Error(t, json.Unmarshal([]byte(`{"cap":"maybe"}`), &decoded))
}

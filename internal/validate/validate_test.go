package validate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"empty string", "", false},
		{"zero string", "0", true},
		{"zero", 0.0, false},
		{"nan", math.NaN(), false},
		{"negative", -1.5, true},
		{"text", "Apollo", true},
		{"object", map[string]any{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Truthy(tc.in))
		})
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"float", 1250.5, 1250.5, true},
		{"numeric string", "1250.50", 1250.5, true},
		{"padded string", " 42 ", 42, true},
		{"blank string", "  ", 0, false},
		{"word", "abc", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Number(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestID(t *testing.T) {
	id, ok := ID("7")
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	_, ok = ID(2.5)
	assert.False(t, ok)
	_, ok = ID(-3.0)
	assert.False(t, ok)
	_, ok = ID("x")
	assert.False(t, ok)
}

func TestScalar(t *testing.T) {
	for _, v := range []any{nil, "x", 1.5, true} {
		assert.True(t, Scalar(v), "%v", v)
	}
	assert.False(t, Scalar(map[string]any{"x": 1.0}))
	assert.False(t, Scalar([]any{"Bob"}))
}

func TestText(t *testing.T) {
	assert.Equal(t, "Health", Text("Health"))
	assert.Equal(t, "12", Text(12.0))
	assert.Equal(t, "0.5", Text(0.5))
	assert.Equal(t, "true", Text(true))
	assert.Equal(t, "", Text(nil))
}

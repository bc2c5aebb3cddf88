package backoff

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedules(t *testing.T) {
	for _, tc := range []struct {
		name     string
		strategy Strategy
		expected []time.Duration
	}{
		{"constant", Constant(250 * time.Millisecond), []time.Duration{250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond}},
		{"linear", Linear(time.Second), []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}},
		{"exponential", Exponential(time.Second, 3), []time.Duration{time.Second, 3 * time.Second, 9 * time.Second}},
		{"binary", BinaryExponential(250 * time.Millisecond), []time.Duration{250 * time.Millisecond, 500 * time.Millisecond, time.Second}},
	} {
		for i, expected := range tc.expected {
			assert.Equal(t, expected, tc.strategy(uint(i+1)), "%s attempt %d", tc.name, i+1)
		}
	}
}

func TestSaturates(t *testing.T) {
	assert.EqualValues(t, math.MaxInt64, BinaryExponential(time.Second)(200))
	assert.EqualValues(t, math.MaxInt64, Linear(time.Duration(math.MaxInt64/2))(3))
}

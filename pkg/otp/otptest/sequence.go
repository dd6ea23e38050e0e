// Package otptest provides deterministic code generators for tests.
package otptest

import (
	"errors"
	"fmt"

	"github.com/vibe-gaming/bmr-reminder/pkg/otp"
)

var _ otp.Generator = (*SequenceGenerator)(nil)

// SequenceGenerator replays a fixed list of values, then keeps returning the
// last one. Repeating a value forces a collision.
type SequenceGenerator struct {
	values []int64
	pos    int
	calls  int
}

func NewSequenceGenerator(values ...int64) *SequenceGenerator {
	return &SequenceGenerator{values: values}
}

func (g *SequenceGenerator) RandomCode(min, max int64) (int64, error) {
	if len(g.values) == 0 {
		return 0, errors.New("empty sequence")
	}
	g.calls++
	v := g.values[g.pos]
	if g.pos < len(g.values)-1 {
		g.pos++
	}
	if v < min || v > max {
		return 0, fmt.Errorf("sequence value %d out of range", v)
	}
	return v, nil
}

// Calls returns how many values have been drawn so far.
func (g *SequenceGenerator) Calls() int {
	return g.calls
}

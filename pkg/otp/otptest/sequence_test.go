package otptest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceGenerator(t *testing.T) {
	g := NewSequenceGenerator(10_000_001, 10_000_002)

	v, err := g.RandomCode(10_000_000, 99_999_999)
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_001), v)

	v, err = g.RandomCode(10_000_000, 99_999_999)
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_002), v)

	// the last value repeats
	v, err = g.RandomCode(10_000_000, 99_999_999)
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_002), v)

	_, err = g.RandomCode(1, 5)
	assert.Error(t, err)
}

func TestSequenceGenerator_Calls(t *testing.T) {
	g := NewSequenceGenerator(10_000_001)
	for i := 0; i < 3; i++ {
		_, _ = g.RandomCode(10_000_000, 99_999_999)
	}
	assert.Equal(t, 3, g.Calls())
}

func TestSequenceGenerator_Empty(t *testing.T) {
	_, err := NewSequenceGenerator().RandomCode(1, 5)
	assert.Error(t, err)
}

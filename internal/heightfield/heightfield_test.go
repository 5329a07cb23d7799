package heightfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/internal/rng"
	"mapforge/pkg/maps"
)

func TestNormalize(t *testing.T) {
	f := New(maps.New(3, 2, false))
	copy(f.Cells(), []int{5, -3, 7, 0, 2, 1})

	ceiling := f.Normalize()

	assert.Equal(t, 10, ceiling)
	assert.Equal(t, []int{8, 0, 10, 3, 5, 4}, f.Cells())
}

func TestSmoothFlatFieldStaysNearFlat(t *testing.T) {
	f := New(maps.New(20, 10, true))
	for i := range f.Cells() {
		f.Cells()[i] = 1000
	}

	f.Smooth(rng.New(1))

	for i, v := range f.Cells() {
		// noise is at most 30 spread over at least 5 weights
		assert.InDelta(t, 1000, v, 10, "cell %d", i)
	}
}

func TestSmoothNeverNegative(t *testing.T) {
	f := New(maps.New(10, 10, false))
	f.Smooth(rng.New(5))
	for _, v := range f.Cells() {
		require.GreaterOrEqual(t, v, 0)
	}
}

func TestSmoothUsesSeparateBuffer(t *testing.T) {
	// A single spike must spread symmetrically; in-place updates would
	// skew it towards the scan direction.
	m := maps.New(9, 9, false)
	f := New(m)
	f.Set(4, 4, 90000)

	f.Smooth(zeroNoise{})

	assert.Equal(t, f.Get(3, 4), f.Get(5, 4))
	assert.Equal(t, f.Get(4, 3), f.Get(4, 5))
	assert.Equal(t, 90000/10, f.Get(3, 3))
	assert.Equal(t, 0, f.Get(1, 1))
}

func TestSmoothDeterministic(t *testing.T) {
	a := New(maps.New(15, 15, true))
	b := New(maps.New(15, 15, true))
	for i := range a.Cells() {
		a.Cells()[i] = i * 37 % 500
		b.Cells()[i] = i * 37 % 500
	}
	a.Smooth(rng.New(11))
	b.Smooth(rng.New(11))
	assert.Equal(t, a.Cells(), b.Cells())
}

// zeroNoise makes Smooth's noise term exactly zero.
type zeroNoise struct{}

func (zeroNoise) Intn(int) int { return 30 }

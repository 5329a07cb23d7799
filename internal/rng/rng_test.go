package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedSameStream(t *testing.T) {
	a, b := New(7), New(7)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000), "draw %d", i)
	}
}

func TestIntnRange(t *testing.T) {
	r := New(1)
	for i := 0; i < 1000; i++ {
		v := r.Intn(5)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 5)
	}
	assert.Equal(t, 0, r.Intn(0))
	assert.Equal(t, 0, r.Intn(-3))
}

func TestStateRestore(t *testing.T) {
	r := New(99)
	r.Intn(10)
	saved := r.State()

	first := make([]int, 20)
	for i := range first {
		first[i] = r.Intn(1 << 20)
	}

	require.NoError(t, r.Restore(saved))
	for i := range first {
		assert.Equal(t, first[i], r.Intn(1<<20))
	}
}

func TestReseed(t *testing.T) {
	r := New(3)
	want := r.Intn(1 << 30)
	r.Intn(1 << 30)
	r.Reseed(3)
	assert.Equal(t, want, r.Intn(1<<30))
}

func TestRestoreRejectsGarbage(t *testing.T) {
	r := New(3)
	assert.Error(t, r.Restore(State("nope")))
}

package mapgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettingsRoundTrip(t *testing.T) {
	p := DefaultParams()
	p.Generator = 4
	p.Seed = 987654321
	p.Width, p.Height = 120, 60
	p.Land = 45
	p.Players = 6

	got, err := ParseSettings(p.String(), DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestParseSettings(t *testing.T) {
	base := DefaultParams()

	t.Run("bare seed", func(t *testing.T) {
		got, err := ParseSettings("  42 ", base)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), got.Seed)
		assert.Equal(t, base.Generator, got.Generator)
	})

	t.Run("partial", func(t *testing.T) {
		got, err := ParseSettings("gen=5 land=40", base)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Generator)
		assert.Equal(t, 40, got.Land)
		assert.Equal(t, base.Width, got.Width)
	})

	bad := []string{
		"",
		"seed=-1",
		"gen=9",
		"size=80",
		"size=80xwide",
		"colour=blue",
		"players=x",
	}
	for _, s := range bad {
		t.Run("reject "+s, func(t *testing.T) {
			got, err := ParseSettings(s, base)
			assert.ErrorIs(t, err, ErrInvalidParams)
			assert.Equal(t, base, got)
		})
	}
}

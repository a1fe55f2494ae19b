package controllers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueSlug(t *testing.T) {
	t.Parallel()

	never := func(string) (bool, error) { return false, nil }

	got, err := uniqueSlug("Club Estación Central", never)
	require.NoError(t, err)
	assert.Equal(t, "club-estacion-central", got)

	got, err = uniqueSlug("   ", never)
	require.NoError(t, err)
	assert.Equal(t, "sin-nombre", got)
}

func TestUniqueSlug_SuffixesOnCollision(t *testing.T) {
	t.Parallel()

	taken := map[string]bool{"la-terraza": true, "la-terraza-2": true}
	exists := func(s string) (bool, error) { return taken[s], nil }

	got, err := uniqueSlug("La Terraza", exists)
	require.NoError(t, err)
	assert.Equal(t, "la-terraza-3", got)
}

func TestUniqueSlug_PropagatesLookupError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	_, err := uniqueSlug("Bar", func(string) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}

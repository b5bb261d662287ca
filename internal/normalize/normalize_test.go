package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold("  Acme   Shipping ", "acme shipping"))
	assert.False(t, EqualFold("Acme Shipping", "Acme Shipping Ltd"))
}

func TestEqualFoldNFKCEquivalence(t *testing.T) {
	// "Ａcme" is the fullwidth "Ａ" (U+FF21); NFKC folds it to ASCII "A".
	assert.True(t, EqualFold("Ａcme Shipping", "Acme Shipping"))
	// "½" (VULGAR FRACTION ONE HALF) NFKC-decomposes to "1/2" outside
	// of any name match here, but a compatibility ligature like "ﬁle"
	// (the "fi" ligature, U+FB01) must fold to the same key as "file".
	assert.True(t, EqualFold("ﬁle Shipping", "file Shipping"))
}

func TestParseDateWindow(t *testing.T) {
	w, err := ParseDateWindow("2025-01-01-2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01-2025-02-01", w.String())
}

func TestParseDateWindowInvalid(t *testing.T) {
	_, err := ParseDateWindow("2025-01-01")
	assert.Error(t, err)

	_, err = ParseDateWindow("2025-02-01-2025-01-01")
	assert.Error(t, err, "end before start must be rejected")
}

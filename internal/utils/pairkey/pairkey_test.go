package pairkey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsedate/backend/internal/utils/pairkey"
)

func TestDirectedIsOrderSensitive(t *testing.T) {
	assert.Equal(t, "3_7", pairkey.Directed(3, 7))
	assert.Equal(t, "7_3", pairkey.Directed(7, 3))
}

func TestUnorderedIsCommutative(t *testing.T) {
	assert.Equal(t, pairkey.Unordered(3, 7), pairkey.Unordered(7, 3))
	assert.Equal(t, "3_7", pairkey.Unordered(7, 3))
	assert.Equal(t, "5_5", pairkey.Unordered(5, 5))
}

func TestSplitRoundTrip(t *testing.T) {
	a, b, err := pairkey.Split(pairkey.Directed(12, 34))
	require.NoError(t, err)
	assert.Equal(t, uint64(12), a)
	assert.Equal(t, uint64(34), b)
}

func TestSplitMalformed(t *testing.T) {
	for _, key := range []string{"", "12", "12_", "_34", "a_b", "12_34_56"} {
		_, _, err := pairkey.Split(key)
		assert.Error(t, err, "key %q", key)
	}
}

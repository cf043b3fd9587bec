package dataprocessing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliverypulse/pkg/contracts/domain"
)

func TestContentKey(t *testing.T) {
	a := ContentKey([]byte("symbol,date\n"))
	b := ContentKey([]byte("symbol,date\n"))
	c := ContentKey([]byte("symbol,date,open\n"))

	assert.Equal(t, a, b, "byte-identical content must hash identically")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestMemoCache_GetOrCompute(t *testing.T) {
	cache := NewMemoCache()

	computeCalls := 0
	compute := func() ([]domain.TradeRecord, error) {
		computeCalls++
		return []domain.TradeRecord{{Symbol: "TCS"}}, nil
	}

	key := ContentKey([]byte("payload"))

	first, err := cache.GetOrCompute(key, compute)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := cache.GetOrCompute(key, compute)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Byte-identical re-uploads must skip re-parsing.
	assert.Equal(t, 1, computeCalls)
}

func TestMemoCache_ErrorsNotCached(t *testing.T) {
	cache := NewMemoCache()

	computeCalls := 0
	failing := func() ([]domain.TradeRecord, error) {
		computeCalls++
		return nil, errors.New("schema rejected")
	}

	key := ContentKey([]byte("bad payload"))

	_, err := cache.GetOrCompute(key, failing)
	require.Error(t, err)
	_, err = cache.GetOrCompute(key, failing)
	require.Error(t, err)

	assert.Equal(t, 2, computeCalls)
}

package physics

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep_PreservesOrder(t *testing.T) {
	t.Parallel()

	reqs := DiameterSweep(300, Silicon, []float64{200, 10, 50, -1})
	results, err := Sweep(context.Background(), nil, reqs, 2)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, d := range []float64{200, 10, 50} {
		require.True(t, results[i].OK())
		assert.Equal(t, d, results[i].DiameterNM)
	}
	assert.Greater(t, results[0].K, results[2].K)
	assert.Greater(t, results[2].K, results[1].K)
	assert.Equal(t, StatusError, results[3].Status)
}

func TestSweep_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep(ctx, nil, DiameterSweep(300, Silicon, DefaultDiameters), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCachedEstimator(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	inner := EstimatorFunc(func(req Request) Result {
		calls.Add(1)
		return Estimate(req)
	})
	est, err := NewCachedEstimator(inner, 2)
	require.NoError(t, err)

	a := Request{TemperatureK: 300, DiameterNM: 22, Material: Silicon}
	b := Request{TemperatureK: 300, DiameterNM: 30, Material: Silicon}

	first := est.Estimate(a)
	assert.Equal(t, first, est.Estimate(a))
	est.Estimate(b)
	assert.Equal(t, int32(2), calls.Load())

	hits, misses := est.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(2), misses)
	assert.Equal(t, 2, est.Len())
}

func TestNewCachedEstimator_BadSize(t *testing.T) {
	t.Parallel()

	_, err := NewCachedEstimator(nil, 0)
	assert.Error(t, err)
}

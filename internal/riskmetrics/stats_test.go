package riskmetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentileCont(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		p        float64
		expected float64
	}{
		{
			name:     "median interpolates between order statistics",
			values:   []float64{100, 200, 300, 400},
			p:        0.5,
			expected: 250, // rank 1.5, halfway between 200 and 300
		},
		{
			name:     "median of odd count hits the middle value",
			values:   []float64{10, 20, 30},
			p:        0.5,
			expected: 20,
		},
		{
			name:     "unsorted input is handled",
			values:   []float64{400, 100, 300, 200},
			p:        0.5,
			expected: 250,
		},
		{
			name:     "p zero is the minimum",
			values:   []float64{5, 1, 9},
			p:        0,
			expected: 1,
		},
		{
			name:     "p one is the maximum",
			values:   []float64{5, 1, 9},
			p:        1,
			expected: 9,
		},
		{
			name:     "quartile with fractional rank",
			values:   []float64{1, 2, 3, 4},
			p:        0.25,
			expected: 1.75, // rank 0.75
		},
		{
			name:     "single value",
			values:   []float64{42},
			p:        0.5,
			expected: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := percentileCont(tt.values, tt.p)
			require.NotNil(t, got)
			assert.InDelta(t, tt.expected, *got, 1e-9)
		})
	}
}

func TestPercentileCont_Empty(t *testing.T) {
	assert.Nil(t, percentileCont(nil, 0.5))
	assert.Nil(t, percentileCont([]float64{}, 0.5))
}

func TestPercentileCont_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	percentileCont(values, 0.5)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestMean(t *testing.T) {
	got := mean([]float64{1, 2, 3, 4})
	require.NotNil(t, got)
	assert.InDelta(t, 2.5, *got, 1e-9)

	assert.Nil(t, mean(nil))
}

func TestSampleStdDev(t *testing.T) {
	// Sample convention: sum of squares 32 over n-1 = 7
	got := sampleStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NotNil(t, got)
	assert.InDelta(t, 2.13808993, *got, 1e-6)
}

func TestSampleStdDev_UndefinedBelowTwo(t *testing.T) {
	assert.Nil(t, sampleStdDev(nil))
	assert.Nil(t, sampleStdDev([]float64{5}))
}

func TestRatio(t *testing.T) {
	got := ratio(1, 4)
	require.NotNil(t, got)
	assert.InDelta(t, 0.25, *got, 1e-9)

	assert.Nil(t, ratio(1, 0))
	assert.Nil(t, ratio(0, 0))
}

func TestMinMax(t *testing.T) {
	lo, hi := minMax([]float64{3, 1, 4, 1, 5})
	require.NotNil(t, lo)
	require.NotNil(t, hi)
	assert.Equal(t, 1.0, *lo)
	assert.Equal(t, 5.0, *hi)

	lo, hi = minMax(nil)
	assert.Nil(t, lo)
	assert.Nil(t, hi)
}

func TestPearson(t *testing.T) {
	t.Run("perfect positive correlation", func(t *testing.T) {
		got := pearson([]float64{1, 2, 3}, []float64{10, 20, 30})
		require.NotNil(t, got)
		assert.InDelta(t, 1.0, *got, 1e-9)
	})

	t.Run("perfect negative correlation", func(t *testing.T) {
		got := pearson([]float64{1, 2, 3}, []float64{30, 20, 10})
		require.NotNil(t, got)
		assert.InDelta(t, -1.0, *got, 1e-9)
	})

	t.Run("zero variance is undefined", func(t *testing.T) {
		assert.Nil(t, pearson([]float64{1, 1, 1}, []float64{1, 2, 3}))
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		assert.Nil(t, pearson([]float64{1, 2}, []float64{1, 2, 3}))
	})

	t.Run("fewer than two points", func(t *testing.T) {
		assert.Nil(t, pearson([]float64{1}, []float64{1}))
	})
}

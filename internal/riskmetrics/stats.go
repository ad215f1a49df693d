package riskmetrics

import (
	"math"
	"sort"
)

// ptr returns a pointer to v, the explicit "defined" form of a statistic
func ptr(v float64) *float64 {
	return &v
}

// ratio divides num by den, returning nil on a zero denominator.
// Divisions never produce 0-by-convention or NaN.
func ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	return ptr(num / den)
}

// mean returns the arithmetic mean, nil for an empty slice
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return ptr(sum / float64(len(values)))
}

// sampleStdDev returns the sample standard deviation (n-1 convention),
// nil for fewer than two observations.
func sampleStdDev(values []float64) *float64 {
	n := len(values)
	if n < 2 {
		return nil
	}
	m := *mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return ptr(math.Sqrt(ss / float64(n-1)))
}

// percentileCont computes the continuous percentile of values at p in [0,1]
// using linear interpolation between order statistics: rank = p*(n-1), with
// the fractional part interpolated between the two bracketing sorted values.
// This matches PERCENTILE_CONT semantics; nearest-rank would disagree on
// non-integer ranks. Returns nil for an empty slice.
func percentileCont(values []float64, p float64) *float64 {
	n := len(values)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return ptr(values[0])
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return ptr(sorted[lo])
	}
	frac := rank - float64(lo)
	return ptr(sorted[lo] + frac*(sorted[hi]-sorted[lo]))
}

// median is the 50th continuous percentile
func median(values []float64) *float64 {
	return percentileCont(values, 0.5)
}

// minMax returns the minimum and maximum, nil for an empty slice
func minMax(values []float64) (*float64, *float64) {
	if len(values) == 0 {
		return nil, nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return ptr(lo), ptr(hi)
}

// pearson computes the Pearson correlation coefficient between x and y.
// Returns nil for mismatched or short inputs, or when either series has
// zero variance (the coefficient is undefined there, not zero).
func pearson(x, y []float64) *float64 {
	n := len(x)
	if n != len(y) || n < 2 {
		return nil
	}

	mx := *mean(x)
	my := *mean(y)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - mx
		dy := y[i] - my
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return nil
	}
	return ptr(cov / math.Sqrt(varX*varY))
}

// Package riskmetrics implements the grade-level risk-metrics aggregation
// engine for historical consumer loan portfolios.
//
// The engine is a pure filter -> group -> reduce transformation: it takes a
// slice of loan records, drops those failing the eligibility invariant,
// partitions the rest by (grade, sub_grade) and independently by grade, and
// reduces each group to a fixed set of statistics (status counts, default
// rate, loan-amount / interest-rate / income dispersion, an expected-return
// estimate, and portfolio-concentration shares).
//
// # Architecture
//
//   - types.go: result types and aggregator options
//   - aggregator.go: the Compute operation (filter, group, reduce, order)
//   - stats.go: reduction primitives (mean, sample std dev, continuous
//     percentiles, Pearson correlation)
//   - insights.go: portfolio rollup, risk/return analysis, threshold
//     assessment, and business-impact figures derived from the grade table
//   - persist.go: CSV / JSON / narrative-report output
//
// # Semantics worth knowing
//
// Undefined statistics are explicit: a zero-count group yields nil for every
// rate and average, never 0 or NaN. Medians and percentiles use linear
// interpolation between order statistics (rank = p*(n-1)), matching
// continuous-percentile semantics. Standard deviation is the sample
// convention (n-1), undefined below two observations. "Current" loans sit
// in default-rate denominators but never in numerators.
//
// Compute performs no I/O and holds no state between calls; identical input
// yields identical output. Per-group reduction is an independent fold, so it
// may run concurrently across groups without changing results (summation
// order within a group is unchanged either way).
//
// # Usage
//
//	agg := riskmetrics.NewAggregator(slog.Default(), riskmetrics.DefaultOptions())
//	result, err := agg.Compute(ctx, records)
//	if err != nil {
//	    return err
//	}
//	portfolio := riskmetrics.ComputePortfolioMetrics(records, result.ByGrade)
//	err = riskmetrics.SaveToCSV(result.BySubGrade, "reports/subgrade_metrics.csv", 4)
package riskmetrics

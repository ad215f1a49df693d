package riskmetrics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "loanlens/internal/errors"
	"loanlens/pkg/contracts/domain"
)

// Aggregator computes grade-level risk metrics from loan records
type Aggregator struct {
	logger *slog.Logger
	opts   Options
}

// NewAggregator creates an aggregator. A nil logger falls back to
// slog.Default(); zero options fall back to DefaultOptions().
func NewAggregator(logger *slog.Logger, opts Options) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxConcurrency == 0 && opts.HighRiskGrades == nil {
		opts = DefaultOptions()
	}
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	return &Aggregator{logger: logger, opts: opts}
}

// groupKey identifies one fine-grained metrics group
type groupKey struct {
	grade    string
	subGrade string
}

// Compute runs the full filter -> group -> reduce pipeline over records.
// The call is all-or-nothing: it returns either a complete result set or
// an error, never a partial table.
func (a *Aggregator) Compute(ctx context.Context, records []domain.LoanRecord) (*Result, error) {
	start := time.Now()

	eligible, err := a.filter(records)
	if err != nil {
		return nil, err
	}

	a.logger.DebugContext(ctx, "filtered loan records",
		slog.Int("input", len(records)),
		slog.Int("eligible", len(eligible)),
		slog.Int("dropped", len(records)-len(eligible)))

	fineGroups := make(map[groupKey][]domain.LoanRecord)
	gradeGroups := make(map[string][]domain.LoanRecord)
	for _, rec := range eligible {
		key := groupKey{grade: rec.Grade, subGrade: rec.SubGrade}
		fineGroups[key] = append(fineGroups[key], rec)
		gradeGroups[rec.Grade] = append(gradeGroups[rec.Grade], rec)
	}

	bySubGrade, err := a.reduceFine(ctx, fineGroups)
	if err != nil {
		return nil, err
	}

	// Rollup covers every canonical grade, empty ones included
	byGrade := make([]GradeMetrics, 0, len(domain.CanonicalGrades))
	for _, grade := range domain.CanonicalGrades {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewAnalysisError("aggregation cancelled", err)
		}
		byGrade = append(byGrade, reduceGroup(string(grade), "", gradeGroups[string(grade)]))
	}

	applyConcentrationShares(byGrade)

	sort.Slice(bySubGrade, func(i, j int) bool {
		if bySubGrade[i].Grade != bySubGrade[j].Grade {
			return bySubGrade[i].Grade < bySubGrade[j].Grade
		}
		return bySubGrade[i].SubGrade < bySubGrade[j].SubGrade
	})

	result := &Result{
		BySubGrade:      bySubGrade,
		ByGrade:         byGrade,
		InputRecords:    len(records),
		EligibleRecords: len(eligible),
		ComputedAt:      time.Now().UTC(),
	}

	a.logger.InfoContext(ctx, "grade metrics computed",
		slog.Int("sub_grade_groups", len(bySubGrade)),
		slog.Int("grade_groups", len(byGrade)),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}

// filter applies the eligibility invariant and rejects the whole call on
// non-finite numerics. NaN/Inf cannot occur through the loader, but a zero
// or NaN leaking into a published table would read as a real figure.
func (a *Aggregator) filter(records []domain.LoanRecord) ([]domain.LoanRecord, error) {
	eligible := make([]domain.LoanRecord, 0, len(records))
	for _, rec := range records {
		if !rec.IsEligible() {
			continue
		}
		if err := checkFinite(rec); err != nil {
			return nil, err
		}
		eligible = append(eligible, rec)
	}
	return eligible, nil
}

func checkFinite(rec domain.LoanRecord) error {
	fields := map[string]*float64{
		"loan_amnt":  &rec.LoanAmount,
		"int_rate":   &rec.IntRate,
		"annual_inc": rec.AnnualInc,
		"dti":        rec.DTI,
	}
	for name, v := range fields {
		if v == nil {
			continue
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return apperrors.NewValidationError(
				fmt.Sprintf("non-finite %s in eligible record", name)).
				WithContext("field", name).
				WithContext("grade", rec.Grade)
		}
	}
	return nil
}

// reduceFine reduces every observed (grade, sub_grade) group, concurrently
// when MaxConcurrency allows. Groups are disjoint, so concurrent reduction
// cannot change any group's summation order.
func (a *Aggregator) reduceFine(ctx context.Context, groups map[groupKey][]domain.LoanRecord) ([]GradeMetrics, error) {
	keys := make([]groupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}

	out := make([]GradeMetrics, len(keys))

	if a.opts.MaxConcurrency <= 1 {
		for i, key := range keys {
			if err := ctx.Err(); err != nil {
				return nil, apperrors.NewAnalysisError("aggregation cancelled", err)
			}
			out[i] = reduceGroup(key.grade, key.subGrade, groups[key])
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.MaxConcurrency)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = reduceGroup(key.grade, key.subGrade, groups[key])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.NewAnalysisError("aggregation cancelled", err)
	}
	return out, nil
}

// reduceGroup computes the full statistic set for one group in a single
// pass over its records plus the percentile sorts.
func reduceGroup(grade, subGrade string, records []domain.LoanRecord) GradeMetrics {
	m := GradeMetrics{
		Grade:    grade,
		SubGrade: subGrade,
	}

	amounts := make([]float64, 0, len(records))
	rates := make([]float64, 0, len(records))
	incomes := make([]float64, 0, len(records))
	dtis := make([]float64, 0, len(records))
	empYears := make([]float64, 0, len(records))
	months := make(map[time.Time]struct{})

	for _, rec := range records {
		m.TotalLoans++
		switch domain.LoanStatus(rec.LoanStatus) {
		case domain.StatusChargedOff:
			m.ChargedOffLoans++
		case domain.StatusFullyPaid:
			m.FullyPaidLoans++
		case domain.StatusCurrent:
			m.CurrentLoans++
		case domain.StatusDefault:
			m.DefaultLoans++
		}

		amounts = append(amounts, rec.LoanAmount)
		rates = append(rates, rec.IntRate)
		m.TotalVolume += rec.LoanAmount

		if rec.AnnualInc != nil {
			incomes = append(incomes, *rec.AnnualInc)
		}
		if rec.DTI != nil {
			dtis = append(dtis, *rec.DTI)
		}
		if years, ok := EmploymentYears(rec.EmpLength); ok {
			empYears = append(empYears, years)
		}
		if month := rec.IssueMonth(); !month.IsZero() {
			months[month] = struct{}{}
		}
	}

	m.DefaultRate = ratio(float64(m.ChargedOffLoans+m.DefaultLoans), float64(m.TotalLoans))

	m.AvgLoanAmount = mean(amounts)
	m.MedianLoanAmount = median(amounts)
	m.StdLoanAmount = sampleStdDev(amounts)

	m.AvgInterestRate = mean(rates)
	m.MedianInterestRate = median(rates)
	m.MinInterestRate, m.MaxInterestRate = minMax(rates)

	m.AvgAnnualIncome = mean(incomes)
	m.MedianAnnualIncome = median(incomes)
	m.AvgDebtToIncome = mean(dtis)
	m.AvgEmpLengthYears = mean(empYears)

	if m.AvgInterestRate != nil && m.DefaultRate != nil {
		m.ExpectedReturnRate = ptr(*m.AvgInterestRate * (1 - *m.DefaultRate))
	}

	m.MonthsRepresented = len(months)

	return m
}

// applyConcentrationShares fills loan_share_pct and volume_share_pct on the
// grade rollup. This is necessarily a second pass: shares depend on grand
// totals across all grades. A zero grand total leaves every share undefined.
func applyConcentrationShares(byGrade []GradeMetrics) {
	var grandLoans, grandVolume float64
	for i := range byGrade {
		grandLoans += float64(byGrade[i].TotalLoans)
		grandVolume += byGrade[i].TotalVolume
	}
	for i := range byGrade {
		if grandLoans > 0 {
			byGrade[i].LoanSharePct = ptr(float64(byGrade[i].TotalLoans) / grandLoans * 100)
		}
		if grandVolume > 0 {
			byGrade[i].VolumeSharePct = ptr(byGrade[i].TotalVolume / grandVolume * 100)
		}
	}
}

// EmploymentYears maps the emp_length vocabulary to numeric years:
// "10+ years" -> 10, "< 1 year" -> 0.5, otherwise the leading integer
// ("3 years" -> 3). Empty or unparseable values carry no information and
// are excluded from averages rather than treated as zero.
func EmploymentYears(empLength string) (float64, bool) {
	switch empLength {
	case "":
		return 0, false
	case "10+ years":
		return 10.0, true
	case "< 1 year":
		return 0.5, true
	}

	head, _, _ := strings.Cut(empLength, " ")
	years, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return float64(years), true
}

package riskmetrics

import (
	"loanlens/pkg/contracts/domain"
)

// ComputePortfolioMetrics derives whole-portfolio figures from the eligible
// record set and the grade rollup. Records failing the eligibility invariant
// are ignored, matching the aggregation filter.
func ComputePortfolioMetrics(records []domain.LoanRecord, byGrade []GradeMetrics, highRiskGrades []string) PortfolioMetrics {
	var p PortfolioMetrics

	highRisk := toSet(highRiskGrades)

	var rateSum float64
	var highRiskLoans int
	var highRiskVolume float64

	for _, rec := range records {
		if !rec.IsEligible() {
			continue
		}
		p.TotalLoans++
		p.TotalVolume += rec.LoanAmount
		rateSum += rec.IntRate
		if rec.IsDefaulted() {
			p.TotalDefaults++
			p.DefaultVolume += rec.LoanAmount
		}
		if _, ok := highRisk[rec.Grade]; ok {
			highRiskLoans++
			highRiskVolume += rec.LoanAmount
		}
	}

	n := float64(p.TotalLoans)
	p.AvgLoanSize = ratio(p.TotalVolume, n)
	p.OverallDefaultRate = ratio(float64(p.TotalDefaults), n)
	p.AvgInterestRate = ratio(rateSum, n)
	p.HighRiskLoansPct = scale(ratio(float64(highRiskLoans), n), 100)
	p.HighRiskVolumePct = scale(ratio(highRiskVolume, p.TotalVolume), 100)

	// Largest single-grade share of the loan count
	for _, g := range byGrade {
		share := scale(ratio(float64(g.TotalLoans), n), 100)
		if share == nil {
			continue
		}
		if p.MaxGradeConcentrationPct == nil || *share > *p.MaxGradeConcentrationPct {
			p.MaxGradeConcentrationPct = share
		}
	}

	return p
}

// ComputeRiskReturn analyzes the relationship between risk (default rate)
// and return (interest rate) across the grade rollup. Grades with undefined
// rates are skipped.
func ComputeRiskReturn(byGrade []GradeMetrics) RiskReturnAnalysis {
	var analysis RiskReturnAnalysis

	var defaultRates, intRates []float64
	var premiumSum, bestPremium, worstPremium float64

	for _, g := range byGrade {
		if g.DefaultRate == nil || g.AvgInterestRate == nil {
			continue
		}
		defaultRates = append(defaultRates, *g.DefaultRate)
		intRates = append(intRates, *g.AvgInterestRate)

		// Interest earned above the default rate, both in points
		premium := *g.AvgInterestRate - *g.DefaultRate*100
		analysis.Premiums = append(analysis.Premiums, GradeRiskPremium{
			Grade:      g.Grade,
			PremiumPct: premium,
		})
		premiumSum += premium

		if analysis.BestGrade == "" || premium > bestPremium {
			analysis.BestGrade = g.Grade
			bestPremium = premium
		}
		if analysis.WorstGrade == "" || premium < worstPremium {
			analysis.WorstGrade = g.Grade
			worstPremium = premium
		}
	}

	analysis.Correlation = pearson(defaultRates, intRates)
	analysis.AvgPremiumPct = ratio(premiumSum, float64(len(analysis.Premiums)))

	return analysis
}

// AssessRisk classifies grades against the acceptable-default-rate threshold
// and measures high-risk volume exposure.
func AssessRisk(byGrade []GradeMetrics, opts Options) RiskAssessment {
	assessment := RiskAssessment{
		AcceptableDefaultRatePct:   opts.AcceptableDefaultRatePct,
		ExposureReviewThresholdPct: opts.ExposureReviewThresholdPct,
		HighRiskGrades:             opts.HighRiskGrades,
		Recommendation:             RecommendationAcceptable,
	}

	var overVolume, totalVolume float64
	for _, g := range byGrade {
		totalVolume += g.TotalVolume
		if g.DefaultRate == nil {
			continue
		}
		if *g.DefaultRate*100 > opts.AcceptableDefaultRatePct {
			assessment.GradesOverThreshold = append(assessment.GradesOverThreshold, g.Grade)
			overVolume += g.TotalVolume
		} else {
			assessment.AcceptableGrades = append(assessment.AcceptableGrades, g.Grade)
		}
	}

	assessment.HighRiskExposurePct = scale(ratio(overVolume, totalVolume), 100)

	if assessment.HighRiskExposurePct != nil &&
		*assessment.HighRiskExposurePct > opts.ExposureReviewThresholdPct {
		assessment.Recommendation = RecommendationReviewExposure
	}

	return assessment
}

// ComputeBusinessImpact calculates loss and revenue figures for stakeholder
// communication: what defaults cost, how much of that sits in high-risk
// grades, and how losses compare to interest revenue.
func ComputeBusinessImpact(records []domain.LoanRecord, highRiskGrades []string) BusinessImpact {
	var impact BusinessImpact

	highRisk := toSet(highRiskGrades)

	for _, rec := range records {
		if !rec.IsEligible() {
			continue
		}
		impact.TotalInterestRevenue += rec.LoanAmount * rec.IntRate / 100
		if rec.IsDefaulted() {
			impact.TotalDefaultLosses += rec.LoanAmount
			if _, ok := highRisk[rec.Grade]; ok {
				impact.HighRiskDefaultLosses += rec.LoanAmount
			}
		}
	}

	impact.PotentialLossReduction = scale(ratio(impact.HighRiskDefaultLosses, impact.TotalDefaultLosses), 100)
	impact.LossToRevenueRatio = scale(ratio(impact.TotalDefaultLosses, impact.TotalInterestRevenue), 100)

	return impact
}

// scale multiplies a possibly-undefined value, preserving nil
func scale(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	return ptr(*v * factor)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

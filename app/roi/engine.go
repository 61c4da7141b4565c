package roi

import (
	"math"
)

const (
	// Share of denied revenue never recovered through appeals or rework.
	unrecoveredFraction = 0.35
	// Denial rate of a well-run billing operation, in percent.
	bestPracticeDenialRatePct = 3
	// Share of undercoding loss recaptured by correct coding.
	recaptureFraction = 0.7
)

type Breakdown struct {
	BillingPct     float64 `json:"billingPct"`
	DenialPct      float64 `json:"denialPct"`
	UndercodingPct float64 `json:"undercodingPct"`
}

var fallbackBreakdown = Breakdown{BillingPct: 33, DenialPct: 33, UndercodingPct: 34}

type Result struct {
	Profile Profile `json:"profile"`

	TotalCollections float64 `json:"totalCollections"`
	BillingOverhead  float64 `json:"billingOverhead"`

	DeniedRevenue   float64 `json:"deniedRevenue"`
	UnrecoveredLoss float64 `json:"unrecoveredLoss"`
	ProjectedLoss   float64 `json:"projectedLoss"`
	DenialSavings   float64 `json:"denialSavings"`

	UndercodedVisits     float64 `json:"undercodedVisits"`
	UndercodingLoss      float64 `json:"undercodingLoss"`
	UndercodingRecapture float64 `json:"undercodingRecapture"`

	TotalLeakage       float64   `json:"totalLeakage"`
	RecoverableRevenue float64   `json:"recoverableRevenue"`
	PerProviderLeakage float64   `json:"perProviderLeakage"`
	MonthlyImpact      float64   `json:"monthlyImpact"`
	Breakdown          Breakdown `json:"breakdown"`
}

// Calculate estimates annual revenue leakage for a practice. The profile is
// clamped to its bounds first; the clamped copy is returned in the result.
func Calculate(profile Profile) (Result, error) {
	p, err := profile.Clamped()
	if err != nil {
		return Result{}, err
	}

	specialty, _ := LookupSpecialty(p.Specialty)
	providers := float64(p.Providers)

	r := Result{Profile: p}

	r.TotalCollections = providers * p.CollectionsPerProvider
	r.BillingOverhead = r.TotalCollections * (p.BillingCostPct / 100)

	r.DeniedRevenue = r.TotalCollections * (p.DenialRatePct / 100)
	r.UnrecoveredLoss = r.DeniedRevenue * unrecoveredFraction
	r.ProjectedLoss = r.TotalCollections * (bestPracticeDenialRatePct / 100.0) * unrecoveredFraction
	r.DenialSavings = math.Max(0, r.UnrecoveredLoss-r.ProjectedLoss)

	r.UndercodedVisits = providers * specialty.VisitsPerProvider * (p.UndercodingPct / 100)
	r.UndercodingLoss = r.UndercodedVisits * specialty.UndercodeDeltaPerVisit
	r.UndercodingRecapture = r.UndercodingLoss * recaptureFraction

	r.TotalLeakage = r.BillingOverhead + r.UnrecoveredLoss + r.UndercodingLoss
	r.RecoverableRevenue = r.DenialSavings + r.UndercodingRecapture
	if providers > 0 {
		r.PerProviderLeakage = r.TotalLeakage / providers
	}
	r.MonthlyImpact = r.TotalLeakage / 12

	r.Breakdown = breakdown(r)

	return r, nil
}

func breakdown(r Result) Breakdown {
	if r.TotalLeakage <= 0 {
		return fallbackBreakdown
	}

	return Breakdown{
		BillingPct:     r.BillingOverhead / r.TotalLeakage * 100,
		DenialPct:      r.UnrecoveredLoss / r.TotalLeakage * 100,
		UndercodingPct: r.UndercodingLoss / r.TotalLeakage * 100,
	}
}

package roi

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatted holds display strings for a Result, e.g. "$219,420".
type Formatted struct {
	TotalLeakage       string `json:"totalLeakage"`
	RecoverableRevenue string `json:"recoverableRevenue"`
	PerProviderLeakage string `json:"perProviderLeakage"`
	MonthlyImpact      string `json:"monthlyImpact"`
	BillingOverhead    string `json:"billingOverhead"`
	UnrecoveredLoss    string `json:"unrecoveredLoss"`
	UndercodingLoss    string `json:"undercodingLoss"`
	BillingPct         string `json:"billingPct"`
	DenialPct          string `json:"denialPct"`
	UndercodingPct     string `json:"undercodingPct"`
}

var printer = message.NewPrinter(language.English)

func Currency(v float64) string {
	return printer.Sprintf("$%d", int64(math.Round(v)))
}

func Percent(v float64) string {
	return printer.Sprintf("%.0f%%", v)
}

func Format(r Result) Formatted {
	return Formatted{
		TotalLeakage:       Currency(r.TotalLeakage),
		RecoverableRevenue: Currency(r.RecoverableRevenue),
		PerProviderLeakage: Currency(r.PerProviderLeakage),
		MonthlyImpact:      Currency(r.MonthlyImpact),
		BillingOverhead:    Currency(r.BillingOverhead),
		UnrecoveredLoss:    Currency(r.UnrecoveredLoss),
		UndercodingLoss:    Currency(r.UndercodingLoss),
		BillingPct:         Percent(r.Breakdown.BillingPct),
		DenialPct:          Percent(r.Breakdown.DenialPct),
		UndercodingPct:     Percent(r.Breakdown.UndercodingPct),
	}
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/sovereignrcm/rcm-site/app/report"
	"github.com/sovereignrcm/rcm-site/app/roi"
)

func roiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roi",
		Short: "Estimate revenue leakage for a practice",
		Long: `Estimate revenue leakage for a practice. Fields left unset take the
specialty's benchmark defaults.

Examples:
  sitectl roi --specialty emergency-medicine --providers 3
  sitectl roi --specialty cardiology --denial-rate 12 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			specialty, _ := cmd.Flags().GetString("specialty")

			state, err := roi.NewState(specialty)
			if err != nil {
				return err
			}

			edits := []struct {
				flag  string
				field roi.Field
			}{
				{"providers", roi.FieldProviders},
				{"collections", roi.FieldCollectionsPerProvider},
				{"billing-cost", roi.FieldBillingCostPct},
				{"denial-rate", roi.FieldDenialRatePct},
				{"undercoding", roi.FieldUndercodingPct},
			}
			for _, edit := range edits {
				if !cmd.Flags().Changed(edit.flag) {
					continue
				}
				value, _ := cmd.Flags().GetFloat64(edit.flag)
				if state, err = state.EditField(edit.field, value); err != nil {
					return err
				}
			}

			result, err := roi.Calculate(state.Profile)
			if err != nil {
				return err
			}
			formatted := roi.Format(result)

			out := cmd.OutOrStdout()

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(out, map[string]interface{}{
					"state":     state,
					"result":    result,
					"formatted": formatted,
				})
			}

			label := specialty
			if s, ok := roi.LookupSpecialty(specialty); ok {
				label = s.Label
			}
			p := result.Profile
			fmt.Fprintf(out, "%s, %d providers, %s collections per provider\n\n",
				label, p.Providers, roi.Currency(p.CollectionsPerProvider))

			table := report.NewTable("LEAK", "ANNUAL", "SHARE").AlignRight(1, 2)
			table.AddRow("Billing overhead", formatted.BillingOverhead, formatted.BillingPct)
			table.AddRow("Unrecovered denials", formatted.UnrecoveredLoss, formatted.DenialPct)
			table.AddRow("Undercoding", formatted.UndercodingLoss, formatted.UndercodingPct)
			table.AddRow("Total leakage", formatted.TotalLeakage, "")
			if err := table.Render(out); err != nil {
				return err
			}

			fmt.Fprintf(out, "\nRecoverable revenue: %s\n", formatted.RecoverableRevenue)
			fmt.Fprintf(out, "Per provider:        %s\n", formatted.PerProviderLeakage)
			fmt.Fprintf(out, "Monthly impact:      %s\n", formatted.MonthlyImpact)

			return nil
		},
	}

	cmd.Flags().StringP("specialty", "s", roi.DefaultSpecialty, "Specialty key (see 'roi specialties')")
	cmd.Flags().Float64P("providers", "p", roi.DefaultProviders, "Number of providers")
	cmd.Flags().Float64("collections", 0, "Annual collections per provider")
	cmd.Flags().Float64("billing-cost", roi.DefaultBillingCostPct, "Billing cost, percent of collections")
	cmd.Flags().Float64("denial-rate", 0, "Denial rate, percent")
	cmd.Flags().Float64("undercoding", 0, "Undercoded visits, percent")

	cmd.AddCommand(specialtiesCmd())

	return cmd
}

func specialtiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "specialties",
		Short: "List specialty benchmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			specialties := roi.Specialties()

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), specialties)
			}

			table := report.NewTable("KEY", "SPECIALTY", "COLLECTIONS", "DENIAL", "UNDERCODING", "VISITS", "DELTA").
				AlignRight(2, 3, 4, 5, 6)
			for _, s := range specialties {
				table.AddRow(
					s.Key,
					s.Label,
					roi.Currency(s.CollectionsPerProvider),
					roi.Percent(s.DenialRatePct),
					roi.Percent(s.UndercodingPct),
					strconv.FormatFloat(s.VisitsPerProvider, 'f', 0, 64),
					roi.Currency(s.UndercodeDeltaPerVisit),
				)
			}
			return table.Render(cmd.OutOrStdout())
		},
	}
}

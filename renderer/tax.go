package renderer

import (
	"fmt"
	"strings"

	"github.com/coinfolio/coinfolio"
)

// TaxMarkdown renders a tax year report to markdown: disposals with their lot
// matches, income rows, year-end holdings and the aggregated totals.
func TaxMarkdown(r *coinfolio.TaxYearReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Tax Report %d\n\n", r.Year)
	fmt.Fprintf(&b, "Profile: %s, lot method: %s\n\n", r.Profile, r.Method)

	fmt.Fprint(&b, "## Disposals\n\n")
	if len(r.Disposals) == 0 {
		fmt.Fprint(&b, "No disposals this year.\n\n")
	} else {
		fmt.Fprintln(&b, "| Date | Asset | Quantity | Proceeds | Cost Basis | Fee | Gain |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|")
		for _, d := range r.Disposals {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				coinfolio.DateOf(d.Time),
				d.AssetID,
				d.Quantity.String(),
				d.Proceeds.String(),
				d.CostBasis.String(),
				d.Fee.String(),
				signed(d.Gain),
			)
		}
		fmt.Fprintf(&b, "| **%s** | | | **%s** | **%s** | **%s** | **%s** |\n\n",
			"Total",
			r.TotalProceeds.String(),
			r.TotalCostBasis.String(),
			r.TotalFees.String(),
			signed(r.TotalGain),
		)
	}

	fmt.Fprint(&b, "## Income\n\n")
	if len(r.Income) == 0 {
		fmt.Fprint(&b, "No reward income this year.\n\n")
	} else {
		fmt.Fprintln(&b, "| Date | Asset | Kind | Quantity | Value |")
		fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|")
		for _, row := range r.Income {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				coinfolio.DateOf(row.Time),
				row.AssetID,
				row.Kind,
				row.Quantity.String(),
				row.Value.String(),
			)
		}
		fmt.Fprintf(&b, "| **Total** | | | | **%s** |\n\n", r.TotalIncome.String())
	}

	fmt.Fprintf(&b, "## Holdings on %d-12-31\n\n", r.Year)
	if len(r.Holdings) == 0 {
		fmt.Fprint(&b, "No open positions at year end.\n\n")
	} else {
		fmt.Fprintln(&b, "| Asset | Quantity | Cost Basis |")
		fmt.Fprintln(&b, "|:---|---:|---:|")
		for _, p := range r.Holdings {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", p.AssetID, p.Quantity.String(), p.CostBasis.String())
		}
		fmt.Fprintln(&b)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprint(&b, "## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}

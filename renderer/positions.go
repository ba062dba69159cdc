package renderer

import (
	"fmt"
	"strings"

	"github.com/coinfolio/coinfolio"
)

// PositionsMarkdown renders the current open positions to a markdown table.
func PositionsMarkdown(positions []coinfolio.Position, asOf coinfolio.Date) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Positions on %s\n\n", asOf)

	if len(positions) == 0 {
		fmt.Fprintln(&b, "No open positions.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Asset | Quantity | Cost Basis | Avg. Cost |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, p := range positions {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			p.AssetID,
			p.Quantity.String(),
			p.CostBasis.String(),
			p.AvgCost.String(),
		)
	}

	return b.String()
}

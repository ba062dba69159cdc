package renderer

import (
	"bytes"
	"fmt"

	"github.com/coinfolio/coinfolio"
	md "github.com/nao1215/markdown"
)

// DailyMarkdown renders a single day's snapshot, with its per-asset
// valuation breakdown.
func DailyMarkdown(snap *coinfolio.PortfolioSnapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio on %s", snap.Date))

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{
			md.Bold("Total Value"),
			md.Bold(snap.TotalValue.Display()),
		},
		Rows: [][]string{
			{"Realized P&L to Date", signed(snap.RealizedPnL)},
			{"Unrealized P&L", signed(snap.UnrealizedPnL)},
		},
	})

	if len(snap.Holdings) > 0 {
		doc.H2("Holdings")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"Asset", "Quantity", "Market Value", "Cost Basis", "Unrealized", "Return"},
			Rows:   [][]string{},
		}
		for _, h := range snap.Holdings {
			table.Rows = append(table.Rows, []string{
				h.AssetID,
				h.Quantity.String(),
				h.MarketValue.String(),
				h.CostBasis.String(),
				signed(h.UnrealizedPnL),
				h.Return().SignedString(),
			})
		}
		doc.Table(table)
	}

	return doc.String()
}

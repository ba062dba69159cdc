package renderer

import (
	"bytes"
	"fmt"

	"github.com/coinfolio/coinfolio"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders a sequence of daily snapshots to a markdown table,
// one row per day.
func HistoryMarkdown(snapshots []coinfolio.PortfolioSnapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio History")

	if len(snapshots) == 0 {
		doc.PlainText("No snapshots in range.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignCenter,
		},
		Header: []string{"Date", "Total Value", "Realized", "Unrealized", "Events"},
		Rows:   [][]string{},
	}
	for _, snap := range snapshots {
		events := ""
		if n := len(snap.EventIDs); n > 0 {
			events = fmt.Sprintf("%d", n)
		}
		table.Rows = append(table.Rows, []string{
			snap.Date.String(),
			snap.TotalValue.String(),
			signed(snap.RealizedPnL),
			signed(snap.UnrealizedPnL),
			events,
		})
	}
	doc.Table(table)

	return doc.String()
}

package coinfolio

// HoldingValuation is one asset's valuation inside a daily snapshot.
type HoldingValuation struct {
	AssetID       string   `json:"assetId"`
	Quantity      Quantity `json:"quantity"`
	MarketValue   Money    `json:"marketValue"`
	CostBasis     Money    `json:"costBasis"`
	UnrealizedPnL Money    `json:"unrealizedPnl"`
}

// Return is the unrealized return on cost, for display only.
func (h HoldingValuation) Return() Percent {
	return ratioPercent(h.UnrealizedPnL, h.CostBasis)
}

// PortfolioSnapshot is a frozen per-day valuation of the whole portfolio.
// Snapshots are never mutated after creation, only regenerated wholesale or
// as a trailing suffix.
type PortfolioSnapshot struct {
	Date          Date               `json:"date"`
	TotalValue    Money              `json:"totalValue"`
	RealizedPnL   Money              `json:"realizedPnl"` // cumulative to date
	UnrealizedPnL Money              `json:"unrealizedPnl"`
	Holdings      []HoldingValuation `json:"holdings,omitempty"`
	EventIDs      []string           `json:"eventIds,omitempty"` // same-day event markers
}

// SnapshotOptions narrows the snapshot window.
type SnapshotOptions struct {
	// DaysBack caps the window at the last DaysBack days before the final
	// event day. Zero means the full history.
	DaysBack int
	// RangeStart, when set, is the earliest day touched by newly appended
	// events: all prior events are still replayed for correct lot state, but
	// only snapshots from max(RangeStart, windowStart) onward are emitted.
	// The emitted suffix is identical to the same days of a full rebuild.
	RangeStart Date
}

// DailySnapshots replays the active event sequence day by day and produces
// one PortfolioSnapshot per calendar day across the requested window. A
// single engine instance and monotonic event/price cursors make the replay
// linear in events plus days.
func DailySnapshots(active []Event, s Settings, prices *PriceSet, opts SnapshotOptions) ([]PortfolioSnapshot, error) {
	if len(active) == 0 {
		return nil, nil
	}

	firstDay := DateOf(active[0].When())
	lastDay := DateOf(active[len(active)-1].When())
	windowStart := firstDay
	if opts.DaysBack > 0 {
		windowStart = MaxDate(firstDay, lastDay.Add(-opts.DaysBack))
	}
	emitFrom := windowStart
	if !opts.RangeStart.IsZero() {
		emitFrom = MaxDate(opts.RangeStart, windowStart)
	}

	eng := NewLotEngine(s, s.LotMethodDefault)
	cursors := make(map[string]*priceCursor)
	next := 0

	var snapshots []PortfolioSnapshot
	for day := windowStart; !day.After(lastDay); day = day.Add(1) {
		end := day.EndExclusive()

		// Apply every not-yet-applied event strictly before the day's
		// exclusive end. The first iteration also catches up on all events
		// preceding the window, so lot state is always complete.
		var markers []string
		for next < len(active) && active[next].When().Before(end) {
			ev := active[next]
			if err := eng.Apply(ev); err != nil {
				return nil, err
			}
			if DateOf(ev.When()) == day {
				markers = append(markers, ev.ID())
			}
			next++
		}

		if day.Before(emitFrom) {
			continue
		}

		total := M(0, s.BaseCurrency)
		unrealized := M(0, s.BaseCurrency)
		var holdings []HoldingValuation
		for _, pos := range eng.Positions() {
			c, ok := cursors[pos.AssetID]
			if !ok {
				c = prices.cursor(pos.AssetID)
				cursors[pos.AssetID] = c
			}
			price, known := c.advance(end)
			// Fall back to cost basis while no price is known yet, to avoid
			// phantom zero valuations at the start of a series.
			market := pos.CostBasis
			if known {
				market = price.Mul(pos.Quantity)
			}
			holdings = append(holdings, HoldingValuation{
				AssetID:       pos.AssetID,
				Quantity:      pos.Quantity,
				MarketValue:   market,
				CostBasis:     pos.CostBasis,
				UnrealizedPnL: market.Sub(pos.CostBasis),
			})
			total = total.Add(market)
			unrealized = unrealized.Add(market.Sub(pos.CostBasis))
		}

		snapshots = append(snapshots, PortfolioSnapshot{
			Date:          day,
			TotalValue:    total,
			RealizedPnL:   eng.RealizedPnL(),
			UnrealizedPnL: unrealized,
			Holdings:      holdings,
			EventIDs:      markers,
		})
	}
	return snapshots, nil
}

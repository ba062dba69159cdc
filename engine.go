package coinfolio

import (
	"fmt"
	"sort"
	"time"
)

// Disposal is the immutable financial result of reducing inventory via a
// sale, swap-out or equivalent event.
type Disposal struct {
	EventID   string     `json:"eventId"`
	AssetID   string     `json:"assetId"`
	Time      time.Time  `json:"timestamp"`
	Quantity  Quantity   `json:"quantity"`
	Proceeds  Money      `json:"proceeds"` // base currency, post-fee
	CostBasis Money      `json:"costBasis"`
	Fee       Money      `json:"fee"`
	Gain      Money      `json:"gain"` // proceeds - cost basis
	Matches   []LotMatch `json:"matches"`
	TaxYear   int        `json:"taxYear"`
}

// Position is the aggregated, non-persistent view over an asset's current
// lots. An asset with zero aggregate quantity has no position.
type Position struct {
	AssetID   string   `json:"assetId"`
	Quantity  Quantity `json:"quantity"`
	CostBasis Money    `json:"costBasis"`
	AvgCost   Money    `json:"avgCost"`
}

// avgPool is the rolling (total quantity, total cost) pool backing the
// weighted-average policy for one asset.
type avgPool struct {
	quantity Quantity
	cost     Money
}

// LotEngine replays active ledger events into per-asset lot books, disposals
// and warnings. Each replay owns a fresh instance; instances share no state,
// so independent replays may run concurrently without coordination.
type LotEngine struct {
	settings  Settings
	method    LotMethod
	books     map[string]*lotBook
	pools     map[string]*avgPool
	disposals []Disposal
	warnings  []string
	realized  Money
}

// NewLotEngine creates a fresh engine for one replay using the given
// lot-selection method.
func NewLotEngine(s Settings, method LotMethod) *LotEngine {
	return &LotEngine{
		settings: s,
		method:   method,
		books:    make(map[string]*lotBook),
		pools:    make(map[string]*avgPool),
		realized: M(0, s.BaseCurrency),
	}
}

// Replay resolves nothing: it applies the already-resolved active events, in
// order, to a fresh engine. Callers resolve the raw log with ActiveEvents
// first. Only structural invariant violations halt the replay.
func Replay(active []Event, s Settings, method LotMethod) (*LotEngine, error) {
	eng := NewLotEngine(s, method)
	for _, ev := range active {
		if err := eng.Apply(ev); err != nil {
			return nil, err
		}
	}
	return eng, nil
}

func (e *LotEngine) book(asset string) *lotBook {
	b, ok := e.books[asset]
	if !ok {
		b = &lotBook{}
		e.books[asset] = b
	}
	return b
}

func (e *LotEngine) pool(asset string) *avgPool {
	p, ok := e.pools[asset]
	if !ok {
		p = &avgPool{cost: M(0, e.settings.BaseCurrency)}
		e.pools[asset] = p
	}
	return p
}

func (e *LotEngine) warnf(format string, args ...any) {
	e.warnings = append(e.warnings, fmt.Sprintf(format, args...))
}

// acquire creates one new lot. Lot ids derive from the originating event so
// that replaying the same sequence twice yields identical records.
func (e *LotEngine) acquire(ev Event, asset string, quantity Quantity, cost Money) {
	l := &Lot{
		LotID:      ev.ID(),
		AssetID:    asset,
		EventID:    ev.ID(),
		AcquiredAt: ev.When(),
		Quantity:   quantity,
		Cost:       cost,
	}
	e.book(asset).add(l)
	if e.method == AvgCost {
		p := e.pool(asset)
		p.quantity = p.quantity.Add(quantity)
		p.cost = p.cost.Add(cost)
	}
}

// dispose consumes inventory and records the disposal. A request beyond the
// available inventory never fails: the shortfall is matched against a
// synthetic unknown lot at zero cost basis and a warning is recorded.
func (e *LotEngine) dispose(ev Event, asset string, quantity Quantity, proceeds, fee Money) {
	// The book is always decremented with the configured order; under
	// weighted-average the book is decremented FIFO purely to keep the
	// per-lot audit trail non-negative.
	bookMethod := e.method
	if bookMethod == AvgCost {
		bookMethod = FIFO
	}
	matches, cost, shortfall := e.book(asset).consume(bookMethod, quantity)

	if e.method == AvgCost {
		p := e.pool(asset)
		available := quantity.Min(p.quantity)
		cost = M(0, e.settings.BaseCurrency)
		if available.IsPositive() {
			cost = p.cost.Mul(available).Div(p.quantity)
			p.cost = p.cost.Sub(cost)
			p.quantity = p.quantity.Sub(available)
		}
	}

	if shortfall.IsPositive() {
		e.warnf("%s: insufficient inventory of %s, short %s matched at zero cost basis", ev.ID(), asset, shortfall)
		matches = append(matches, LotMatch{Quantity: shortfall, Cost: M(0, e.settings.BaseCurrency), Unknown: true})
	}

	gain := proceeds.Sub(cost)
	e.realized = e.realized.Add(gain)
	e.disposals = append(e.disposals, Disposal{
		EventID:   ev.ID(),
		AssetID:   asset,
		Time:      ev.When(),
		Quantity:  quantity,
		Proceeds:  proceeds,
		CostBasis: cost,
		Fee:       fee,
		Gain:      gain,
		Matches:   matches,
		TaxYear:   ev.When().UTC().Year(),
	})
}

// rewardValue returns the acquisition cost of a reward-family event under the
// configured basis mode. A missing valuation under fair-value accounting is a
// warning, not a failure: the event should have been rejected at import time,
// so receiving one here is an internal-consistency concern only.
func (e *LotEngine) rewardValue(ev Event, quantity Quantity, unitPrice, valueBase Money) Money {
	if e.settings.RewardsBasisMode == BasisZero {
		return M(0, e.settings.BaseCurrency)
	}
	if !valueBase.IsZero() {
		return M(valueBase.value, e.settings.BaseCurrency)
	}
	if !unitPrice.IsZero() {
		return M(unitPrice.value, e.settings.BaseCurrency).Mul(quantity)
	}
	e.warnf("%s: %s has no fair value under fair-value accounting, recorded at zero cost", ev.ID(), ev.What())
	return M(0, e.settings.BaseCurrency)
}

// Apply mutates the engine state with one active event. It returns an error
// only for structural invariant violations it cannot safely default around;
// everything else degrades to a warning so that replay always completes.
func (e *LotEngine) Apply(ev Event) error {
	cur := e.settings.BaseCurrency
	fee, err := eventFee(ev).resolveBase(cur)
	if err != nil {
		return fmt.Errorf("event %s: %w", ev.ID(), err)
	}

	switch v := ev.(type) {
	case Buy:
		cost := M(v.UnitPrice.value, cur).Mul(v.Quantity).Add(fee)
		e.acquire(ev, v.AssetID, v.Quantity, cost)

	case Sell:
		quantity := v.Quantity.Abs()
		proceeds := M(v.UnitPrice.value, cur).Mul(quantity).Sub(fee)
		e.dispose(ev, v.AssetID, quantity, proceeds, fee)

	case Swap:
		gross := M(v.ValueBase.value, cur)
		proceeds := gross.Sub(fee)
		if gross.IsZero() {
			e.warnf("%s: swap has no valuation, disposal recorded with zero proceeds", ev.ID())
			proceeds = M(0, cur)
		}
		e.dispose(ev, v.AssetID, v.Quantity.Abs(), proceeds, fee)
		if v.OutAssetID == "" {
			e.warnf("%s: swap has no output asset, acquisition leg skipped", ev.ID())
			return nil
		}
		// The acquired lot carries the gross valuation: the fee is charged
		// to the disposed leg only, never split.
		e.acquire(ev, v.OutAssetID, v.OutQuantity, gross)

	case Transfer:
		e.applyMovement(ev, v.AssetID, v.Quantity)

	case Reward:
		cost := e.rewardValue(ev, v.Quantity, v.UnitPrice, v.ValueBase)
		e.acquire(ev, v.AssetID, v.Quantity, cost)

	case DeFi:
		if v.Kind == KindInterest {
			cost := e.rewardValue(ev, v.Quantity.Abs(), Money{}, v.ValueBase)
			e.acquire(ev, v.AssetID, v.Quantity.Abs(), cost)
			return nil
		}
		e.applyMovement(ev, v.AssetID, v.Quantity)

	case Tombstone:
		// no replay semantics; tombstones never reach an engine through
		// ActiveEvents, but applying one is harmless.

	default:
		return fmt.Errorf("event %s: unhandled event type %T", ev.ID(), ev)
	}
	return nil
}

// applyMovement replays a signed quantity movement: a positive quantity is an
// external deposit whose cost basis is unknown to this engine (zero); a
// negative quantity consumes inventory with zero proceeds, which keeps
// quantity tracking right without recording a taxable event's gain.
func (e *LotEngine) applyMovement(ev Event, asset string, quantity Quantity) {
	if quantity.IsNegative() {
		e.dispose(ev, asset, quantity.Abs(), M(0, e.settings.BaseCurrency), M(0, e.settings.BaseCurrency))
		return
	}
	e.acquire(ev, asset, quantity, M(0, e.settings.BaseCurrency))
}

// Positions aggregates the current lots per asset. Assets whose lots are all
// fully consumed are omitted.
func (e *LotEngine) Positions() []Position {
	assets := make([]string, 0, len(e.books))
	for asset := range e.books {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	var positions []Position
	for _, asset := range assets {
		b := e.books[asset]
		quantity := b.remaining()
		if quantity.IsZero() {
			continue
		}
		cost := M(0, e.settings.BaseCurrency)
		for _, l := range b.lots {
			cost = cost.Add(l.Cost)
		}
		positions = append(positions, Position{
			AssetID:   asset,
			Quantity:  quantity,
			CostBasis: cost,
			AvgCost:   cost.Div(quantity),
		})
	}
	return positions
}

// Disposals returns the accumulated disposal records in replay order.
func (e *LotEngine) Disposals() []Disposal { return e.disposals }

// Warnings returns the non-fatal warnings accumulated during replay.
func (e *LotEngine) Warnings() []string { return e.warnings }

// RealizedPnL returns the cumulative realized gain over all disposals.
func (e *LotEngine) RealizedPnL() Money { return e.realized }

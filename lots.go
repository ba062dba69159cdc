package coinfolio

import (
	"time"
)

// Lot is a discrete acquired quantity of one asset with its own remaining
// quantity and remaining cost basis. Lots are mutated in place on disposal
// and are never removed from their book, even at zero remaining quantity;
// zero-quantity lots are simply excluded from position aggregation.
type Lot struct {
	LotID      string
	AssetID    string
	EventID    string // originating acquisition event
	AcquiredAt time.Time
	Quantity   Quantity // remaining
	Cost       Money    // remaining cost basis, base currency
}

// unitCost is the remaining cost per unit. It is recomputed on demand:
// partial consumption reduces quantity and cost proportionally, so a lot's
// own unit cost is invariant, but the set of candidates changes.
func (l *Lot) unitCost() Money {
	if l.Quantity.IsZero() {
		return Money{}
	}
	return l.Cost.Div(l.Quantity)
}

// LotMatch records the consumption of part or all of one lot by a disposal.
type LotMatch struct {
	LotID    string   `json:"lotId,omitempty"`
	Quantity Quantity `json:"quantity"`
	Cost     Money    `json:"cost"`
	Unknown  bool     `json:"unknown,omitempty"` // synthesized zero-cost match for missing inventory
}

// lotBook holds one asset's lots in acquisition order. Replay applies events
// in timestamp order, so plain append keeps the book sorted.
type lotBook struct {
	lots []*Lot
}

func (b *lotBook) add(l *Lot) {
	b.lots = append(b.lots, l)
}

// remaining returns the total remaining quantity across all lots.
func (b *lotBook) remaining() Quantity {
	var total Quantity
	for _, l := range b.lots {
		total = total.Add(l.Quantity)
	}
	return total
}

// next selects the index of the next lot to consume under the given policy,
// or -1 when the book is exhausted. HIFO re-evaluates on every call; FIFO and
// LIFO scan from the matching end. AvgCost decrements the underlying lots in
// FIFO order purely to keep per-lot bookkeeping non-negative.
func (b *lotBook) next(method LotMethod) int {
	switch method {
	case LIFO:
		for i := len(b.lots) - 1; i >= 0; i-- {
			if b.lots[i].Quantity.IsPositive() {
				return i
			}
		}
	case HIFO:
		best := -1
		var bestUnit Money
		for i, l := range b.lots {
			if !l.Quantity.IsPositive() {
				continue
			}
			unit := l.unitCost()
			if best == -1 || unit.GreaterThan(bestUnit) {
				best, bestUnit = i, unit
			}
		}
		return best
	default: // FIFO, AvgCost
		for i, l := range b.lots {
			if l.Quantity.IsPositive() {
				return i
			}
		}
	}
	return -1
}

// consume draws the required quantity from the book under the given policy.
// It mutates the selected lots in place and returns the per-lot matches, the
// total cost basis consumed, and any shortfall left once the book ran dry.
func (b *lotBook) consume(method LotMethod, quantity Quantity) (matches []LotMatch, cost Money, shortfall Quantity) {
	left := quantity
	for left.IsPositive() {
		i := b.next(method)
		if i < 0 {
			return matches, cost, left
		}
		l := b.lots[i]
		take := left.Min(l.Quantity)
		var portion Money
		if take.Equal(l.Quantity) {
			portion = l.Cost
		} else {
			portion = l.Cost.Mul(take).Div(l.Quantity)
		}
		l.Quantity = l.Quantity.Sub(take)
		l.Cost = l.Cost.Sub(portion)
		matches = append(matches, LotMatch{LotID: l.LotID, Quantity: take, Cost: portion})
		cost = cost.Add(portion)
		left = left.Sub(take)
	}
	return matches, cost, Quantity{}
}

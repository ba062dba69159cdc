package coinfolio

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// EventKind is a typed string identifying ledger event kinds.
type EventKind string

// Event kinds recorded in the ledger.
const (
	KindBuy           EventKind = "buy"
	KindSell          EventKind = "sell"
	KindSwap          EventKind = "swap"
	KindTransfer      EventKind = "transfer"
	KindReward        EventKind = "reward"
	KindStakingReward EventKind = "staking-reward"
	KindAirdrop       EventKind = "airdrop"
	KindLP            EventKind = "lp"
	KindLend          EventKind = "lend"
	KindBorrow        EventKind = "borrow"
	KindRepay         EventKind = "repay"
	KindInterest      EventKind = "interest"
)

// ErrTokenFeeValue marks the fatal structural violation of the fee invariant:
// a token-denominated fee must always carry a resolvable base-currency value.
var ErrTokenFeeValue = errors.New("token fee without base-currency value")

// Event is the common interface of all ledger events. The ledger is
// append-only: edits and deletions are appended as replacement and tombstone
// events, never applied in place.
type Event interface {
	ID() string
	What() EventKind   // What returns the event kind (e.g. "buy", "swap").
	When() time.Time   // When returns the instant the event took place.
	meta() baseEvent
}

// baseEvent carries the fields common to every ledger event.
type baseEvent struct {
	Kind        EventKind `json:"kind"`
	EventID     string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
	Account     string    `json:"account,omitempty"`
	Note        string    `json:"note,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	ExternalRef string    `json:"externalRef,omitempty"`
	Replaces    string    `json:"replaces,omitempty"`
	Deleted     bool      `json:"deleted,omitempty"`
}

func (e baseEvent) ID() string       { return e.EventID }
func (e baseEvent) What() EventKind  { return e.Kind }
func (e baseEvent) When() time.Time  { return e.Timestamp }
func (e baseEvent) meta() baseEvent  { return e }

// revision is the composite ordering key used for latest-wins replacement
// resolution: the update timestamp when present, else the creation timestamp.
func (e baseEvent) revision() time.Time {
	if !e.UpdatedAt.IsZero() {
		return e.UpdatedAt
	}
	return e.CreatedAt
}

// Revision returns the event's revision timestamp: the update timestamp when
// present, else the creation timestamp.
func Revision(ev Event) time.Time { return ev.meta().revision() }

// Replaces returns the id of the event this event replaces, or "".
func Replaces(ev Event) string { return ev.meta().Replaces }

// IsDeleted reports whether the event is a logical deletion marker.
func IsDeleted(ev Event) bool { return ev.meta().Deleted }

// assetEvent is a component for events acting on a single asset.
type assetEvent struct {
	baseEvent
	AssetID string `json:"assetId"`
}

// Fee is an optional transaction fee, expressed either directly in the base
// currency, or as a token fee with its deterministic base-currency value.
type Fee struct {
	Base      Money    // fee in base currency
	AssetID   string   // token fee asset
	Amount    Quantity // token fee quantity
	ValueBase Money    // token fee value in base currency
}

// IsZero reports whether no fee is present at all.
func (f Fee) IsZero() bool {
	return f.Base.IsZero() && f.AssetID == "" && f.Amount.IsZero() && f.ValueBase.IsZero()
}

// resolveBase returns the fee in base currency: feeBase when present, else the
// token fee's base value. A token fee lacking its valuation is a structural
// invariant violation and yields ErrTokenFeeValue.
func (f Fee) resolveBase(baseCurrency string) (Money, error) {
	if !f.Base.IsZero() {
		return M(f.Base.value, baseCurrency), nil
	}
	if f.AssetID != "" {
		if f.ValueBase.IsZero() {
			return Money{}, fmt.Errorf("%w: fee asset %q", ErrTokenFeeValue, f.AssetID)
		}
		return M(f.ValueBase.value, baseCurrency), nil
	}
	return M(0, baseCurrency), nil
}

// validate rejects a token fee lacking either its quantity or its base value.
// This is the import-time check; the engine re-checks only the base value.
func (f Fee) validate() error {
	if f.AssetID == "" {
		return nil
	}
	if f.Amount.IsZero() {
		return fmt.Errorf("token fee in %q is missing its amount", f.AssetID)
	}
	if f.ValueBase.IsZero() {
		return fmt.Errorf("%w: fee asset %q", ErrTokenFeeValue, f.AssetID)
	}
	return nil
}

// Buy acquires a quantity of an asset at a per-unit price in base currency.
type Buy struct {
	assetEvent
	Quantity  Quantity
	UnitPrice Money
	Fee       Fee
}

// NewBuy creates a new Buy event.
func NewBuy(id string, ts time.Time, asset string, quantity Quantity, unitPrice Money, fee Fee) Buy {
	return Buy{
		assetEvent: assetEvent{baseEvent: baseEvent{Kind: KindBuy, EventID: id, Timestamp: ts, CreatedAt: ts}, AssetID: asset},
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Fee:        fee,
	}
}

// Sell disposes a quantity of an asset at a per-unit price in base currency.
type Sell struct {
	assetEvent
	Quantity  Quantity
	UnitPrice Money
	Fee       Fee
}

// NewSell creates a new Sell event.
func NewSell(id string, ts time.Time, asset string, quantity Quantity, unitPrice Money, fee Fee) Sell {
	return Sell{
		assetEvent: assetEvent{baseEvent: baseEvent{Kind: KindSell, EventID: id, Timestamp: ts, CreatedAt: ts}, AssetID: asset},
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Fee:        fee,
	}
}

// Swap atomically disposes one asset and acquires another within one event.
// AssetID (from assetEvent) is the disposed input asset.
type Swap struct {
	assetEvent
	Quantity    Quantity // input quantity disposed
	OutAssetID  string   // acquired asset
	OutQuantity Quantity // acquired quantity
	ValueBase   Money    // optional total valuation of the swap in base currency
	Fee         Fee
}

// NewSwap creates a new Swap event.
func NewSwap(id string, ts time.Time, inAsset string, inQty Quantity, outAsset string, outQty Quantity, valueBase Money, fee Fee) Swap {
	return Swap{
		assetEvent:  assetEvent{baseEvent: baseEvent{Kind: KindSwap, EventID: id, Timestamp: ts, CreatedAt: ts}, AssetID: inAsset},
		Quantity:    inQty,
		OutAssetID:  outAsset,
		OutQuantity: outQty,
		ValueBase:   valueBase,
		Fee:         fee,
	}
}

// Transfer moves a signed quantity in or out of the tracked inventory.
// A positive quantity is an external deposit (cost basis unknown, zero);
// a negative quantity consumes inventory with zero proceeds.
type Transfer struct {
	assetEvent
	Quantity Quantity // signed
	Fee      Fee
}

// NewTransfer creates a new Transfer event.
func NewTransfer(id string, ts time.Time, asset string, quantity Quantity, fee Fee) Transfer {
	return Transfer{
		assetEvent: assetEvent{baseEvent: baseEvent{Kind: KindTransfer, EventID: id, Timestamp: ts, CreatedAt: ts}, AssetID: asset},
		Quantity:   quantity,
		Fee:        fee,
	}
}

// Reward is an income acquisition: rewards, staking rewards and airdrops share
// this shape, distinguished by the event kind.
type Reward struct {
	assetEvent
	Quantity  Quantity
	UnitPrice Money // optional fair value per unit, base currency
	ValueBase Money // optional total fair value, base currency
}

// NewReward creates a new reward-family event of the given kind
// (KindReward, KindStakingReward or KindAirdrop).
func NewReward(kind EventKind, id string, ts time.Time, asset string, quantity Quantity, valueBase Money) Reward {
	return Reward{
		assetEvent: assetEvent{baseEvent: baseEvent{Kind: kind, EventID: id, Timestamp: ts, CreatedAt: ts}, AssetID: asset},
		Quantity:   quantity,
		ValueBase:  valueBase,
	}
}

// DeFi covers the LP/LEND/BORROW/REPAY/INTEREST variants. LP, LEND, BORROW
// and REPAY replay as signed quantity movements; INTEREST replays as a
// reward-style acquisition.
type DeFi struct {
	assetEvent
	Quantity  Quantity // signed
	ValueBase Money    // optional fair value, base currency (interest)
	Fee       Fee
}

// NewDeFi creates a new DeFi event of the given kind.
func NewDeFi(kind EventKind, id string, ts time.Time, asset string, quantity Quantity, valueBase Money, fee Fee) DeFi {
	return DeFi{
		assetEvent: assetEvent{baseEvent: baseEvent{Kind: kind, EventID: id, Timestamp: ts, CreatedAt: ts}, AssetID: asset},
		Quantity:   quantity,
		ValueBase:  valueBase,
		Fee:        fee,
	}
}

// Tombstone marks an earlier event as logically deleted without removing it
// from the log. It has no replay semantics of its own.
type Tombstone struct {
	baseEvent
}

// NewTombstone creates a tombstone for the given target event.
func NewTombstone(id string, ts time.Time, target string) Tombstone {
	return Tombstone{baseEvent{EventID: id, Timestamp: ts, CreatedAt: ts, Replaces: target, Deleted: true}}
}

// AssetIDs returns the sorted set of asset ids the events touch, including
// swap output legs and token fee assets.
func AssetIDs(events []Event) []string {
	seen := map[string]bool{}
	add := func(id string) {
		if id != "" {
			seen[id] = true
		}
	}
	for _, ev := range events {
		switch v := ev.(type) {
		case Buy:
			add(v.AssetID)
		case Sell:
			add(v.AssetID)
		case Swap:
			add(v.AssetID)
			add(v.OutAssetID)
		case Transfer:
			add(v.AssetID)
		case Reward:
			add(v.AssetID)
		case DeFi:
			add(v.AssetID)
		}
		add(eventFee(ev).AssetID)
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// isRewardKind reports whether the kind belongs to the income reward family.
func isRewardKind(k EventKind) bool {
	return k == KindReward || k == KindStakingReward || k == KindAirdrop
}

// fee returns the event's fee when its kind carries one.
func eventFee(ev Event) Fee {
	switch v := ev.(type) {
	case Buy:
		return v.Fee
	case Sell:
		return v.Fee
	case Swap:
		return v.Fee
	case Transfer:
		return v.Fee
	case DeFi:
		return v.Fee
	default:
		return Fee{}
	}
}

// Validate checks an event before it is allowed into the ledger. It enforces
// the fee invariant and, under fair-value accounting, rejects reward events
// lacking a valuation. The engine itself is more lenient (see LotEngine).
func Validate(ev Event, s Settings) error {
	m := ev.meta()
	if m.EventID == "" {
		return fmt.Errorf("event has no id")
	}
	if m.Timestamp.IsZero() {
		return fmt.Errorf("event %s has no timestamp", m.EventID)
	}
	if err := eventFee(ev).validate(); err != nil {
		return fmt.Errorf("event %s: %w", m.EventID, err)
	}
	switch v := ev.(type) {
	case Buy:
		if !v.Quantity.IsPositive() {
			return fmt.Errorf("buy %s: quantity must be positive, got %s", m.EventID, v.Quantity)
		}
	case Sell:
		if v.Quantity.IsZero() {
			return fmt.Errorf("sell %s: quantity must be non-zero", m.EventID)
		}
	case Swap:
		if !v.Quantity.IsPositive() {
			return fmt.Errorf("swap %s: input quantity must be positive, got %s", m.EventID, v.Quantity)
		}
	case Reward:
		if !v.Quantity.IsPositive() {
			return fmt.Errorf("%s %s: quantity must be positive, got %s", m.Kind, m.EventID, v.Quantity)
		}
		if s.RewardsBasisMode == BasisFMV && v.ValueBase.IsZero() && v.UnitPrice.IsZero() {
			return fmt.Errorf("%s %s: fair-value accounting requires a valuation", m.Kind, m.EventID)
		}
	}
	return nil
}

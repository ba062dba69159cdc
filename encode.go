package coinfolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// MarshalJSON implements the json.Marshaler interface for baseEvent.
func (e baseEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", e.Kind)
	w.Append("id", e.EventID)
	w.Append("timestamp", e.Timestamp)
	w.Optional("createdAt", e.CreatedAt)
	w.Optional("updatedAt", e.UpdatedAt)
	w.Optional("account", e.Account)
	w.Optional("note", e.Note)
	w.Optional("tags", e.Tags)
	w.Optional("externalRef", e.ExternalRef)
	w.Optional("replaces", e.Replaces)
	w.Optional("deleted", e.Deleted)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for assetEvent.
func (e assetEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Append("assetId", e.AssetID)
	return w.MarshalJSON()
}

// appendFee writes the flat fee fields shared by all fee-carrying events.
func appendFee(w *jsonObjectWriter, f Fee) {
	w.Optional("feeBase", f.Base)
	w.Optional("feeAssetId", f.AssetID)
	w.Optional("feeAmount", f.Amount)
	w.Optional("feeValueBase", f.ValueBase)
}

func (t Buy) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.assetEvent)
	w.Append("quantity", t.Quantity)
	w.Optional("unitPrice", t.UnitPrice)
	appendFee(&w, t.Fee)
	return w.MarshalJSON()
}

func (t Sell) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.assetEvent)
	w.Append("quantity", t.Quantity)
	w.Optional("unitPrice", t.UnitPrice)
	appendFee(&w, t.Fee)
	return w.MarshalJSON()
}

func (t Swap) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.assetEvent)
	w.Append("quantity", t.Quantity)
	w.Optional("outAssetId", t.OutAssetID)
	w.Optional("outQuantity", t.OutQuantity)
	w.Optional("valueBase", t.ValueBase)
	appendFee(&w, t.Fee)
	return w.MarshalJSON()
}

func (t Transfer) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.assetEvent)
	w.Append("quantity", t.Quantity)
	appendFee(&w, t.Fee)
	return w.MarshalJSON()
}

func (t Reward) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.assetEvent)
	w.Append("quantity", t.Quantity)
	w.Optional("unitPrice", t.UnitPrice)
	w.Optional("valueBase", t.ValueBase)
	return w.MarshalJSON()
}

func (t DeFi) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.assetEvent)
	w.Append("quantity", t.Quantity)
	w.Optional("valueBase", t.ValueBase)
	appendFee(&w, t.Fee)
	return w.MarshalJSON()
}

// feeFields decodes the flat fee fields shared by all fee-carrying events.
type feeFields struct {
	FeeBase      decimal.Decimal `json:"feeBase"`
	FeeAssetID   string          `json:"feeAssetId"`
	FeeAmount    decimal.Decimal `json:"feeAmount"`
	FeeValueBase decimal.Decimal `json:"feeValueBase"`
}

func (f feeFields) Fee() Fee {
	return Fee{
		Base:      M(f.FeeBase, ""),
		AssetID:   f.FeeAssetID,
		Amount:    Q(f.FeeAmount),
		ValueBase: M(f.FeeValueBase, ""),
	}
}

// EncodeEvent appends a single event as one JSONL line.
func EncodeEvent(w io.Writer, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("could not encode %s event %s: %w", ev.What(), ev.ID(), err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

// EncodeEvents writes all events as JSONL.
func EncodeEvents(w io.Writer, events []Event) error {
	for _, ev := range events {
		if err := EncodeEvent(w, ev); err != nil {
			return err
		}
	}
	return nil
}

// DecodeEvents decodes a stream of JSONL event data into the raw event log.
// The log is returned as stored, unresolved and unsorted: callers collapse it
// with ActiveEvents before replay.
func DecodeEvents(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var identifier struct {
			Kind EventKind `json:"kind"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify event kind in line %q: %w", string(line), err)
		}

		ev, err := decodeEvent(identifier.Kind, line)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func decodeEvent(kind EventKind, line []byte) (Event, error) {
	switch kind {
	case KindBuy, KindSell:
		var temp struct {
			assetEvent
			feeFields
			Quantity  Quantity        `json:"quantity"`
			UnitPrice decimal.Decimal `json:"unitPrice"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		if kind == KindBuy {
			return Buy{assetEvent: temp.assetEvent, Quantity: temp.Quantity, UnitPrice: M(temp.UnitPrice, ""), Fee: temp.Fee()}, nil
		}
		return Sell{assetEvent: temp.assetEvent, Quantity: temp.Quantity, UnitPrice: M(temp.UnitPrice, ""), Fee: temp.Fee()}, nil

	case KindSwap:
		var temp struct {
			assetEvent
			feeFields
			Quantity    Quantity        `json:"quantity"`
			OutAssetID  string          `json:"outAssetId"`
			OutQuantity Quantity        `json:"outQuantity"`
			ValueBase   decimal.Decimal `json:"valueBase"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		return Swap{
			assetEvent:  temp.assetEvent,
			Quantity:    temp.Quantity,
			OutAssetID:  temp.OutAssetID,
			OutQuantity: temp.OutQuantity,
			ValueBase:   M(temp.ValueBase, ""),
			Fee:         temp.Fee(),
		}, nil

	case KindTransfer:
		var temp struct {
			assetEvent
			feeFields
			Quantity Quantity `json:"quantity"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		return Transfer{assetEvent: temp.assetEvent, Quantity: temp.Quantity, Fee: temp.Fee()}, nil

	case KindReward, KindStakingReward, KindAirdrop:
		var temp struct {
			assetEvent
			Quantity  Quantity        `json:"quantity"`
			UnitPrice decimal.Decimal `json:"unitPrice"`
			ValueBase decimal.Decimal `json:"valueBase"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		return Reward{
			assetEvent: temp.assetEvent,
			Quantity:   temp.Quantity,
			UnitPrice:  M(temp.UnitPrice, ""),
			ValueBase:  M(temp.ValueBase, ""),
		}, nil

	case KindLP, KindLend, KindBorrow, KindRepay, KindInterest:
		var temp struct {
			assetEvent
			feeFields
			Quantity  Quantity        `json:"quantity"`
			ValueBase decimal.Decimal `json:"valueBase"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		return DeFi{assetEvent: temp.assetEvent, Quantity: temp.Quantity, ValueBase: M(temp.ValueBase, ""), Fee: temp.Fee()}, nil

	case "":
		// tombstones carry no kind of their own
		var temp Tombstone
		if err := json.Unmarshal(line, &temp.baseEvent); err != nil {
			return nil, err
		}
		return temp, nil

	default:
		return nil, fmt.Errorf("unknown event kind %q in line %q", kind, string(line))
	}
}

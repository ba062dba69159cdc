package coinfolio

import (
	"time"
)

// IncomeRow is one reward-family event counted as income in a tax year.
type IncomeRow struct {
	EventID  string    `json:"eventId"`
	AssetID  string    `json:"assetId"`
	Kind     EventKind `json:"kind"`
	Time     time.Time `json:"timestamp"`
	Quantity Quantity  `json:"quantity"`
	Value    Money     `json:"value"` // base currency, zero or fair value
}

// TaxYearReport aggregates one calendar year's disposals, income and year-end
// holdings under a jurisdiction profile.
type TaxYearReport struct {
	Year     int        `json:"year"`
	Method   LotMethod  `json:"method"`
	Profile  TaxProfile `json:"profile"`
	Disposals []Disposal `json:"disposals"`
	Income   []IncomeRow `json:"income"`
	Holdings []Position  `json:"holdings"` // as of December 31

	TotalProceeds  Money `json:"totalProceeds"`
	TotalCostBasis Money `json:"totalCostBasis"`
	TotalFees      Money `json:"totalFees"`
	TotalGain      Money `json:"totalGain"`
	TotalIncome    Money `json:"totalIncome"`

	Warnings []string `json:"warnings,omitempty"`
}

// incomeValue mirrors the lot engine's acquisition-cost rule for rewards:
// zero under zero-cost accounting, else the supplied fair value.
func incomeValue(s Settings, quantity Quantity, unitPrice, valueBase Money) Money {
	if s.RewardsBasisMode == BasisZero {
		return M(0, s.BaseCurrency)
	}
	if !valueBase.IsZero() {
		return M(valueBase.value, s.BaseCurrency)
	}
	if !unitPrice.IsZero() {
		return M(unitPrice.value, s.BaseCurrency).Mul(quantity)
	}
	return M(0, s.BaseCurrency)
}

// NewTaxReport performs one full replay of the active events and filters it
// down to the target calendar year. A jurisdiction profile that mandates a
// lot method overrides the caller's preference before replay starts.
func NewTaxReport(active []Event, s Settings, year int, override *LotMethod) (*TaxYearReport, error) {
	method := s.LotMethodDefault
	if override != nil {
		method = *override
	}
	if forced, ok := s.TaxProfile.ForcedMethod(); ok {
		method = forced
	}

	eng, err := Replay(active, s, method)
	if err != nil {
		return nil, err
	}

	r := &TaxYearReport{
		Year:           year,
		Method:         method,
		Profile:        s.TaxProfile,
		TotalProceeds:  M(0, s.BaseCurrency),
		TotalCostBasis: M(0, s.BaseCurrency),
		TotalFees:      M(0, s.BaseCurrency),
		TotalGain:      M(0, s.BaseCurrency),
		TotalIncome:    M(0, s.BaseCurrency),
		Warnings:       eng.Warnings(),
	}

	for _, d := range eng.Disposals() {
		if d.TaxYear != year {
			continue
		}
		r.Disposals = append(r.Disposals, d)
		r.TotalProceeds = r.TotalProceeds.Add(d.Proceeds)
		r.TotalCostBasis = r.TotalCostBasis.Add(d.CostBasis)
		r.TotalFees = r.TotalFees.Add(d.Fee)
		r.TotalGain = r.TotalGain.Add(d.Gain)
	}

	for _, ev := range active {
		if !isRewardKind(ev.What()) {
			continue
		}
		if ev.When().UTC().Year() != year {
			continue
		}
		v, ok := ev.(Reward)
		if !ok {
			continue
		}
		value := incomeValue(s, v.Quantity, v.UnitPrice, v.ValueBase)
		r.Income = append(r.Income, IncomeRow{
			EventID:  v.ID(),
			AssetID:  v.AssetID,
			Kind:     v.What(),
			Time:     v.When(),
			Quantity: v.Quantity,
			Value:    value,
		})
		r.TotalIncome = r.TotalIncome.Add(value)
	}

	// Year-end holdings come from a boundary replay of only the events up to
	// December 31, not from the full log's final state.
	boundary := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	var upTo []Event
	for _, ev := range active {
		if ev.When().Before(boundary) {
			upTo = append(upTo, ev)
		}
	}
	yearEnd, err := Replay(upTo, s, method)
	if err != nil {
		return nil, err
	}
	r.Holdings = yearEnd.Positions()

	return r, nil
}

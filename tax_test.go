package coinfolio

import (
	"testing"
	"time"
)

func taxTestEvents() []Event {
	return []Event{
		NewBuy("b1", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), "BTC", Q(2), usd(10000), Fee{}),
		NewSell("s-2024", time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC), "BTC", Q(-0.5), usd(30000), Fee{}),
		NewSell("s-2025", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), "BTC", Q(-0.5), usd(40000), Fee{Base: usd(10)}),
		NewReward(KindStakingReward, "r-2025", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), "ETH", Q(2), usd(5000)),
		NewSell("s-2026", time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC), "BTC", Q(-0.5), usd(50000), Fee{}),
	}
}

func TestNewTaxReport_YearScope(t *testing.T) {
	r, err := NewTaxReport(taxTestEvents(), DefaultSettings(), 2025, nil)
	if err != nil {
		t.Fatalf("NewTaxReport() failed: %v", err)
	}

	if len(r.Disposals) != 1 || r.Disposals[0].EventID != "s-2025" {
		t.Fatalf("disposals = %+v, want only s-2025", r.Disposals)
	}
	// 0.5 * 40000 - 10 fee = 19990 proceeds; basis 0.5 * 10000 = 5000.
	if r.TotalProceeds.String() != "19990" {
		t.Errorf("total proceeds = %s, want 19990", r.TotalProceeds)
	}
	if r.TotalCostBasis.String() != "5000" {
		t.Errorf("total cost basis = %s, want 5000", r.TotalCostBasis)
	}
	if r.TotalFees.String() != "10" {
		t.Errorf("total fees = %s, want 10", r.TotalFees)
	}
	if r.TotalGain.String() != "14990" {
		t.Errorf("total gain = %s, want 14990", r.TotalGain)
	}

	if len(r.Income) != 1 || r.Income[0].EventID != "r-2025" {
		t.Fatalf("income = %+v, want only r-2025", r.Income)
	}
	// Zero-cost accounting: income is reported at zero value.
	if !r.TotalIncome.IsZero() {
		t.Errorf("total income = %s, want 0 under zero basis", r.TotalIncome)
	}
}

func TestNewTaxReport_YearBoundary(t *testing.T) {
	events := []Event{
		NewBuy("b1", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "BTC", Q(2), usd(10000), Fee{}),
		NewSell("s-last-second", time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), "BTC", Q(-1), usd(30000), Fee{}),
		NewSell("s-next-year", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "BTC", Q(-1), usd(30000), Fee{}),
	}

	r2025, err := NewTaxReport(events, DefaultSettings(), 2025, nil)
	if err != nil {
		t.Fatalf("NewTaxReport(2025) failed: %v", err)
	}
	if len(r2025.Disposals) != 1 || r2025.Disposals[0].EventID != "s-last-second" {
		t.Errorf("2025 disposals = %+v, want only s-last-second", r2025.Disposals)
	}

	r2026, err := NewTaxReport(events, DefaultSettings(), 2026, nil)
	if err != nil {
		t.Fatalf("NewTaxReport(2026) failed: %v", err)
	}
	if len(r2026.Disposals) != 1 || r2026.Disposals[0].EventID != "s-next-year" {
		t.Errorf("2026 disposals = %+v, want only s-next-year", r2026.Disposals)
	}
}

func TestNewTaxReport_YearEndHoldings(t *testing.T) {
	r, err := NewTaxReport(taxTestEvents(), DefaultSettings(), 2025, nil)
	if err != nil {
		t.Fatalf("NewTaxReport() failed: %v", err)
	}

	// As of 2025-12-31: 2 - 0.5 - 0.5 = 1 BTC, plus 2 ETH; the 2026 sale
	// must not erode the year-end view.
	if len(r.Holdings) != 2 {
		t.Fatalf("holdings = %+v, want BTC and ETH", r.Holdings)
	}
	if r.Holdings[0].AssetID != "BTC" || r.Holdings[0].Quantity.String() != "1" {
		t.Errorf("BTC holding = %+v, want quantity 1", r.Holdings[0])
	}
	if r.Holdings[1].AssetID != "ETH" || r.Holdings[1].Quantity.String() != "2" {
		t.Errorf("ETH holding = %+v, want quantity 2", r.Holdings[1])
	}
}

func TestNewTaxReport_IncomeUnderFairValue(t *testing.T) {
	s := DefaultSettings()
	s.RewardsBasisMode = BasisFMV

	r, err := NewTaxReport(taxTestEvents(), s, 2025, nil)
	if err != nil {
		t.Fatalf("NewTaxReport() failed: %v", err)
	}
	if r.TotalIncome.String() != "5000" {
		t.Errorf("total income = %s, want the reward's fair value 5000", r.TotalIncome)
	}
}

func TestNewTaxReport_MethodSelection(t *testing.T) {
	lifo := LIFO

	tests := []struct {
		name     string
		profile  TaxProfile
		override *LotMethod
		want     LotMethod
	}{
		{name: "default", profile: ProfileGeneric, want: FIFO},
		{name: "override", profile: ProfileGeneric, override: &lifo, want: LIFO},
		{name: "us allows override", profile: ProfileUS, override: &lifo, want: LIFO},
		{name: "de forces fifo", profile: ProfileDE, override: &lifo, want: FIFO},
		{name: "ie forces fifo", profile: ProfileIE, override: &lifo, want: FIFO},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			s.TaxProfile = tc.profile

			r, err := NewTaxReport(taxTestEvents(), s, 2025, tc.override)
			if err != nil {
				t.Fatalf("NewTaxReport() failed: %v", err)
			}
			if r.Method != tc.want {
				t.Errorf("method = %s, want %s", r.Method, tc.want)
			}
		})
	}
}

func TestNewTaxReport_ProfileChangesFigures(t *testing.T) {
	// Two lots at different prices, LIFO preferred: the de profile must
	// override LIFO with FIFO and change the reported basis.
	events := []Event{
		NewBuy("b1", time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), "BTC", Q(1), usd(10000), Fee{}),
		NewBuy("b2", time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC), "BTC", Q(1), usd(20000), Fee{}),
		NewSell("s1", time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), "BTC", Q(-1), usd(30000), Fee{}),
	}
	lifo := LIFO

	s := DefaultSettings()
	s.TaxProfile = ProfileUS
	us, err := NewTaxReport(events, s, 2025, &lifo)
	if err != nil {
		t.Fatalf("NewTaxReport(us) failed: %v", err)
	}
	if us.TotalCostBasis.String() != "20000" {
		t.Errorf("us basis = %s, want LIFO 20000", us.TotalCostBasis)
	}

	s.TaxProfile = ProfileDE
	de, err := NewTaxReport(events, s, 2025, &lifo)
	if err != nil {
		t.Fatalf("NewTaxReport(de) failed: %v", err)
	}
	if de.TotalCostBasis.String() != "10000" {
		t.Errorf("de basis = %s, want FIFO 10000", de.TotalCostBasis)
	}
}

func TestNewTaxReport_CarriesWarnings(t *testing.T) {
	events := []Event{
		NewSell("s1", time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), "BTC", Q(-1), usd(30000), Fee{}),
	}

	r, err := NewTaxReport(events, DefaultSettings(), 2025, nil)
	if err != nil {
		t.Fatalf("NewTaxReport() failed: %v", err)
	}
	if len(r.Warnings) != 1 {
		t.Errorf("warnings = %v, want the insufficient-inventory warning", r.Warnings)
	}
}

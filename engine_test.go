package coinfolio

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2025, month, d, 12, 0, 0, 0, time.UTC)
}

func usd(v float64) Money { return M(v, "USD") }

// replayTest replays events under default settings with the given method and
// fails the test on a fatal replay error.
func replayTest(t *testing.T, method LotMethod, events ...Event) *LotEngine {
	t.Helper()
	eng, err := Replay(events, DefaultSettings(), method)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	return eng
}

func TestReplay_FIFO(t *testing.T) {
	// Two lots, then a sale spanning both:
	//   buy 1 BTC at 10000, buy 1 BTC at 20000, sell 1.5 BTC at 30000.
	// FIFO takes the whole first lot (10000) and half the second (10000).
	eng := replayTest(t, FIFO,
		NewBuy("b1", day(time.January, 1), "BTC", Q(1), usd(10000), Fee{}),
		NewBuy("b2", day(time.February, 1), "BTC", Q(1), usd(20000), Fee{}),
		NewSell("s1", day(time.March, 1), "BTC", Q(-1.5), usd(30000), Fee{}),
	)

	disposals := eng.Disposals()
	if len(disposals) != 1 {
		t.Fatalf("got %d disposals, want 1", len(disposals))
	}
	d := disposals[0]
	if !d.Proceeds.Equal(usd(45000)) {
		t.Errorf("proceeds = %s, want 45000", d.Proceeds)
	}
	if d.CostBasis.String() != "20000" {
		t.Errorf("cost basis = %s, want 20000", d.CostBasis)
	}
	if d.Gain.String() != "25000" {
		t.Errorf("gain = %s, want 25000", d.Gain)
	}
	if len(d.Matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(d.Matches))
	}
	if d.Matches[0].LotID != "b1" || d.Matches[0].Quantity.String() != "1" {
		t.Errorf("match 0 = %+v, want full lot b1", d.Matches[0])
	}
	if d.Matches[1].LotID != "b2" || d.Matches[1].Quantity.String() != "0.5" || d.Matches[1].Cost.String() != "10000" {
		t.Errorf("match 1 = %+v, want half lot b2 at 10000", d.Matches[1])
	}

	positions := eng.Positions()
	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}
	p := positions[0]
	if p.Quantity.String() != "0.5" || p.CostBasis.String() != "10000" {
		t.Errorf("position = %s %s, want 0.5 at 10000", p.Quantity, p.CostBasis)
	}
	if p.AvgCost.String() != "20000" {
		t.Errorf("avg cost = %s, want 20000", p.AvgCost)
	}
}

func TestReplay_LIFO(t *testing.T) {
	eng := replayTest(t, LIFO,
		NewBuy("b1", day(time.January, 1), "BTC", Q(1), usd(10000), Fee{}),
		NewBuy("b2", day(time.February, 1), "BTC", Q(1), usd(20000), Fee{}),
		NewSell("s1", day(time.March, 1), "BTC", Q(-1), usd(30000), Fee{}),
	)

	d := eng.Disposals()[0]
	// LIFO consumes the newest lot: basis 20000.
	if d.CostBasis.String() != "20000" {
		t.Errorf("cost basis = %s, want 20000", d.CostBasis)
	}
	if d.Matches[0].LotID != "b2" {
		t.Errorf("matched lot %s, want b2", d.Matches[0].LotID)
	}
}

func TestReplay_HIFO(t *testing.T) {
	// The middle lot has the highest unit cost and must go first.
	eng := replayTest(t, HIFO,
		NewBuy("b1", day(time.January, 1), "BTC", Q(1), usd(10000), Fee{}),
		NewBuy("b2", day(time.February, 1), "BTC", Q(1), usd(30000), Fee{}),
		NewBuy("b3", day(time.March, 1), "BTC", Q(1), usd(20000), Fee{}),
		NewSell("s1", day(time.April, 1), "BTC", Q(-1.5), usd(30000), Fee{}),
	)

	d := eng.Disposals()[0]
	// 1 from b2 (30000) + 0.5 from b3 (10000).
	if d.CostBasis.String() != "40000" {
		t.Errorf("cost basis = %s, want 40000", d.CostBasis)
	}
	if d.Matches[0].LotID != "b2" || d.Matches[1].LotID != "b3" {
		t.Errorf("matched lots %s, %s; want b2, b3", d.Matches[0].LotID, d.Matches[1].LotID)
	}
}

func TestReplay_AvgCost(t *testing.T) {
	// Pool: 1 at 10000 + 1 at 20000 = 2 at 15000 average.
	eng := replayTest(t, AvgCost,
		NewBuy("b1", day(time.January, 1), "BTC", Q(1), usd(10000), Fee{}),
		NewBuy("b2", day(time.February, 1), "BTC", Q(1), usd(20000), Fee{}),
		NewSell("s1", day(time.March, 1), "BTC", Q(-1), usd(30000), Fee{}),
	)

	d := eng.Disposals()[0]
	if d.CostBasis.String() != "15000" {
		t.Errorf("cost basis = %s, want 15000", d.CostBasis)
	}
	if d.Gain.String() != "15000" {
		t.Errorf("gain = %s, want 15000", d.Gain)
	}
}

func TestReplay_BuyFeeEntersCostBasis(t *testing.T) {
	eng := replayTest(t, FIFO,
		NewBuy("b1", day(time.January, 1), "BTC", Q(1), usd(10000), Fee{Base: usd(50)}),
		NewSell("s1", day(time.February, 1), "BTC", Q(-1), usd(12000), Fee{Base: usd(30)}),
	)

	d := eng.Disposals()[0]
	if d.CostBasis.String() != "10050" {
		t.Errorf("cost basis = %s, want 10050 (price + buy fee)", d.CostBasis)
	}
	if d.Proceeds.String() != "11970" {
		t.Errorf("proceeds = %s, want 11970 (price - sell fee)", d.Proceeds)
	}
	if d.Gain.String() != "1920" {
		t.Errorf("gain = %s, want 1920", d.Gain)
	}
}

func TestReplay_TokenFeeUsesItsValuation(t *testing.T) {
	fee := Fee{AssetID: "BNB", Amount: Q(0.01), ValueBase: usd(5)}
	eng := replayTest(t, FIFO,
		NewBuy("b1", day(time.January, 1), "BTC", Q(1), usd(10000), fee),
	)

	positions := eng.Positions()
	if positions[0].CostBasis.String() != "10005" {
		t.Errorf("cost basis = %s, want 10005", positions[0].CostBasis)
	}
}

func TestReplay_TokenFeeWithoutValuationIsFatal(t *testing.T) {
	fee := Fee{AssetID: "BNB", Amount: Q(0.01)}
	buy := NewBuy("b1", day(time.January, 1), "BTC", Q(1), usd(10000), fee)

	_, err := Replay([]Event{buy}, DefaultSettings(), FIFO)
	if !errors.Is(err, ErrTokenFeeValue) {
		t.Fatalf("Replay() error = %v, want ErrTokenFeeValue", err)
	}
}

func TestReplay_SwapDisposesAndAcquires(t *testing.T) {
	// 1 BTC bought at 10000, swapped for 15 ETH when worth 60000, fee 100.
	eng := replayTest(t, FIFO,
		NewBuy("b1", day(time.January, 1), "BTC", Q(1), usd(10000), Fee{}),
		NewSwap("x1", day(time.February, 1), "BTC", Q(1), "ETH", Q(15), usd(60000), Fee{Base: usd(100)}),
	)

	d := eng.Disposals()[0]
	if d.AssetID != "BTC" {
		t.Errorf("disposal asset = %s, want BTC", d.AssetID)
	}
	if d.Proceeds.String() != "59900" {
		t.Errorf("proceeds = %s, want 59900 (gross - fee)", d.Proceeds)
	}
	if d.Gain.String() != "49900" {
		t.Errorf("gain = %s, want 49900", d.Gain)
	}

	positions := eng.Positions()
	if len(positions) != 1 || positions[0].AssetID != "ETH" {
		t.Fatalf("positions = %+v, want only ETH", positions)
	}
	// The acquired leg carries the gross valuation, not net of fee.
	if positions[0].CostBasis.String() != "60000" {
		t.Errorf("ETH cost basis = %s, want 60000", positions[0].CostBasis)
	}
	if positions[0].Quantity.String() != "15" {
		t.Errorf("ETH quantity = %s, want 15", positions[0].Quantity)
	}
}

func TestReplay_SwapWithoutValuationWarns(t *testing.T) {
	eng := replayTest(t, FIFO,
		NewBuy("b1", day(time.January, 1), "BTC", Q(1), usd(10000), Fee{}),
		NewSwap("x1", day(time.February, 1), "BTC", Q(1), "ETH", Q(15), Money{}, Fee{}),
	)

	d := eng.Disposals()[0]
	if !d.Proceeds.IsZero() {
		t.Errorf("proceeds = %s, want 0", d.Proceeds)
	}
	if len(eng.Warnings()) == 0 || !strings.Contains(eng.Warnings()[0], "no valuation") {
		t.Errorf("warnings = %v, want a no-valuation warning", eng.Warnings())
	}
}

func TestReplay_NegativeInventoryWarnsAndCompletes(t *testing.T) {
	// Sell 2 BTC with only 1 tracked: the shortfall is matched at zero cost.
	eng := replayTest(t, FIFO,
		NewBuy("b1", day(time.January, 1), "BTC", Q(1), usd(10000), Fee{}),
		NewSell("s1", day(time.February, 1), "BTC", Q(-2), usd(20000), Fee{}),
		NewBuy("b2", day(time.March, 1), "BTC", Q(1), usd(15000), Fee{}),
	)

	d := eng.Disposals()[0]
	if d.CostBasis.String() != "10000" {
		t.Errorf("cost basis = %s, want 10000", d.CostBasis)
	}
	if d.Proceeds.String() != "40000" {
		t.Errorf("proceeds = %s, want 40000", d.Proceeds)
	}
	last := d.Matches[len(d.Matches)-1]
	if !last.Unknown || last.Quantity.String() != "1" || !last.Cost.IsZero() {
		t.Errorf("shortfall match = %+v, want unknown 1 at zero cost", last)
	}
	if len(eng.Warnings()) != 1 || !strings.Contains(eng.Warnings()[0], "insufficient inventory") {
		t.Errorf("warnings = %v, want one insufficient-inventory warning", eng.Warnings())
	}

	// Replay completed: the later buy is tracked.
	positions := eng.Positions()
	if len(positions) != 1 || positions[0].Quantity.String() != "1" {
		t.Errorf("positions = %+v, want 1 BTC", positions)
	}
}

func TestReplay_TransferInIsZeroCostLot(t *testing.T) {
	eng := replayTest(t, FIFO,
		NewTransfer("t1", day(time.January, 1), "BTC", Q(1), Fee{}),
		NewSell("s1", day(time.February, 1), "BTC", Q(-1), usd(30000), Fee{}),
	)

	d := eng.Disposals()[0]
	if !d.CostBasis.IsZero() {
		t.Errorf("cost basis = %s, want 0 for deposited inventory", d.CostBasis)
	}
	if d.Gain.String() != "30000" {
		t.Errorf("gain = %s, want 30000", d.Gain)
	}
}

func TestReplay_TransferOutHasNoGain(t *testing.T) {
	eng := replayTest(t, FIFO,
		NewBuy("b1", day(time.January, 1), "BTC", Q(1), usd(10000), Fee{}),
		NewTransfer("t1", day(time.February, 1), "BTC", Q(-1), Fee{}),
	)

	d := eng.Disposals()[0]
	if !d.Proceeds.IsZero() {
		t.Errorf("proceeds = %s, want 0", d.Proceeds)
	}
	if d.Gain.String() != "-10000" {
		t.Errorf("gain = %s, want -10000", d.Gain)
	}
	if len(eng.Positions()) != 0 {
		t.Errorf("positions = %+v, want none", eng.Positions())
	}
}

func TestReplay_RewardBasisModes(t *testing.T) {
	reward := NewReward(KindStakingReward, "r1", day(time.January, 1), "ETH", Q(2), usd(3000))
	sell := NewSell("s1", day(time.February, 1), "ETH", Q(-2), usd(2000), Fee{})

	t.Run("zero basis", func(t *testing.T) {
		eng := replayTest(t, FIFO, reward, sell)
		d := eng.Disposals()[0]
		if !d.CostBasis.IsZero() {
			t.Errorf("cost basis = %s, want 0", d.CostBasis)
		}
		if d.Gain.String() != "4000" {
			t.Errorf("gain = %s, want the full proceeds 4000", d.Gain)
		}
	})

	t.Run("fair value basis", func(t *testing.T) {
		s := DefaultSettings()
		s.RewardsBasisMode = BasisFMV
		eng, err := Replay([]Event{reward, sell}, s, FIFO)
		if err != nil {
			t.Fatalf("Replay() failed: %v", err)
		}
		d := eng.Disposals()[0]
		if d.CostBasis.String() != "3000" {
			t.Errorf("cost basis = %s, want 3000", d.CostBasis)
		}
		if d.Gain.String() != "1000" {
			t.Errorf("gain = %s, want 1000", d.Gain)
		}
	})

	t.Run("fair value without valuation warns", func(t *testing.T) {
		s := DefaultSettings()
		s.RewardsBasisMode = BasisFMV
		bare := NewReward(KindReward, "r2", day(time.January, 1), "ETH", Q(1), Money{})
		eng, err := Replay([]Event{bare}, s, FIFO)
		if err != nil {
			t.Fatalf("Replay() failed: %v", err)
		}
		if len(eng.Warnings()) != 1 {
			t.Fatalf("warnings = %v, want exactly one", eng.Warnings())
		}
		if eng.Positions()[0].CostBasis.String() != "0" {
			t.Errorf("cost basis = %s, want 0", eng.Positions()[0].CostBasis)
		}
	})
}

func TestReplay_DeFiMovements(t *testing.T) {
	eng := replayTest(t, FIFO,
		NewBuy("b1", day(time.January, 1), "ETH", Q(10), usd(2000), Fee{}),
		NewDeFi(KindLend, "l1", day(time.February, 1), "ETH", Q(-10), Money{}, Fee{}),
		NewDeFi(KindInterest, "i1", day(time.March, 1), "ETH", Q(0.1), Money{}, Fee{}),
		NewDeFi(KindRepay, "p1", day(time.April, 1), "ETH", Q(10), Money{}, Fee{}),
	)

	// Lend disposed 10 at zero proceeds; repay came back as a zero-cost lot;
	// interest accrued 0.1 at zero cost.
	positions := eng.Positions()
	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}
	if positions[0].Quantity.String() != "10.1" {
		t.Errorf("quantity = %s, want 10.1", positions[0].Quantity)
	}

	if len(eng.Disposals()) != 1 {
		t.Fatalf("got %d disposals, want 1", len(eng.Disposals()))
	}
}

func TestReplay_Determinism(t *testing.T) {
	events := []Event{
		NewBuy("b1", day(time.January, 1), "BTC", Q(1), usd(10000), Fee{}),
		NewBuy("b2", day(time.January, 2), "ETH", Q(10), usd(2000), Fee{}),
		NewSwap("x1", day(time.February, 1), "BTC", Q(0.5), "ETH", Q(8), usd(30000), Fee{Base: usd(10)}),
		NewSell("s1", day(time.March, 1), "ETH", Q(-5), usd(2500), Fee{}),
	}

	a := replayTest(t, FIFO, events...)
	b := replayTest(t, FIFO, events...)

	if a.RealizedPnL() != b.RealizedPnL() && !a.RealizedPnL().Equal(b.RealizedPnL()) {
		t.Errorf("realized differs across replays: %s vs %s", a.RealizedPnL(), b.RealizedPnL())
	}
	da, db := a.Disposals(), b.Disposals()
	if len(da) != len(db) {
		t.Fatalf("disposal counts differ: %d vs %d", len(da), len(db))
	}
	for i := range da {
		if da[i].EventID != db[i].EventID || !da[i].Gain.Equal(db[i].Gain) {
			t.Errorf("disposal %d differs across replays", i)
		}
		for j := range da[i].Matches {
			if da[i].Matches[j].LotID != db[i].Matches[j].LotID {
				t.Errorf("disposal %d match %d lot differs", i, j)
			}
		}
	}
}

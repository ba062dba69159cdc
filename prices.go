package coinfolio

import (
	"sort"
	"time"
)

// PricePoint is one observation of an asset's price in base currency.
type PricePoint struct {
	AssetID string    `json:"assetId"`
	Time    time.Time `json:"timestamp"`
	Price   Money     `json:"priceBase"`
}

// priceSeries holds one asset's price points sorted by time ascending.
type priceSeries struct {
	points []PricePoint
}

// PriceSet indexes price points per asset for as-of lookups.
type PriceSet struct {
	series map[string]*priceSeries
}

// NewPriceSet groups and sorts price points per asset. Input order is irrelevant.
func NewPriceSet(points []PricePoint) *PriceSet {
	ps := &PriceSet{series: make(map[string]*priceSeries)}
	for _, p := range points {
		s, ok := ps.series[p.AssetID]
		if !ok {
			s = &priceSeries{}
			ps.series[p.AssetID] = s
		}
		s.points = append(s.points, p)
	}
	for _, s := range ps.series {
		sort.SliceStable(s.points, func(i, j int) bool {
			return s.points[i].Time.Before(s.points[j].Time)
		})
	}
	return ps
}

// AsOf returns the latest known price for the asset strictly before end.
func (ps *PriceSet) AsOf(asset string, end time.Time) (Money, bool) {
	s, ok := ps.series[asset]
	if !ok || len(s.points) == 0 {
		return Money{}, false
	}
	// first point at or after end
	i := sort.Search(len(s.points), func(i int) bool {
		return !s.points[i].Time.Before(end)
	})
	if i == 0 {
		return Money{}, false
	}
	return s.points[i-1].Price, true
}

// cursor returns a monotonic cursor over the asset's series. The zero cursor
// of an unknown asset never yields a price.
func (ps *PriceSet) cursor(asset string) *priceCursor {
	return &priceCursor{s: ps.series[asset]}
}

// priceCursor advances monotonically through one asset's price series as the
// snapshot replay steps day by day, remembering the last price seen.
type priceCursor struct {
	s     *priceSeries
	i     int
	last  Money
	known bool
}

// advance moves the cursor past every point strictly before end and returns
// the last known price. Calling with non-increasing end instants is safe; the
// cursor never rewinds.
func (c *priceCursor) advance(end time.Time) (Money, bool) {
	if c.s == nil {
		return Money{}, false
	}
	for c.i < len(c.s.points) && c.s.points[c.i].Time.Before(end) {
		c.last = c.s.points[c.i].Price
		c.known = true
		c.i++
	}
	return c.last, c.known
}

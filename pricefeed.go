package coinfolio

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

/*
	{
	    "Response": "Success",
	    "Data": {
	        "TimeFrom": 1700006400,
	        "TimeTo": 1700611200,
	        "Data": [
	            { "time": 1700006400, "close": 36567.12, "high": ..., "low": ... }
	        ]
	    }
	}
*/
const histodayURL = "https://min-api.cryptocompare.com/data/v2/histoday"

// FetchDailyPrices fetches up to days daily close prices for an asset from
// the public histoday endpoint, quoted in the given base currency.
func FetchDailyPrices(client *http.Client, asset, currency string, days int) ([]PricePoint, error) {
	q := url.Values{}
	q.Set("fsym", asset)
	q.Set("tsym", currency)
	q.Set("limit", fmt.Sprint(days))

	var jobj any
	if err := jwget(client, histodayURL+"?"+q.Encode(), &jobj); err != nil {
		return nil, fmt.Errorf("error fetching daily prices for %q: %w", asset, err)
	}
	return parseDailyPrices(jobj, asset, currency)
}

// parseDailyPrices extracts (time, close) pairs from the provider's response.
// It is separated from the HTTP fetch so the extraction is testable offline.
func parseDailyPrices(jobj any, asset, currency string) ([]PricePoint, error) {
	path := "$.Data.Data"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing prices for %q: %q %w", asset, path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing prices for %q: %q is not a list", asset, path)
	}

	points := make([]PricePoint, 0, len(jlist))
	for _, entry := range jlist {
		jmap, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		ts, ok := jmap["time"].(float64)
		if !ok {
			continue
		}
		close, ok := jmap["close"].(float64)
		if !ok || close == 0 {
			// the provider pads unknown days with zero closes
			continue
		}
		points = append(points, PricePoint{
			AssetID: asset,
			Time:    time.Unix(int64(ts), 0).UTC(),
			Price:   M(decimal.NewFromFloat(close), currency),
		})
	}
	return points, nil
}

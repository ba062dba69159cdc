package coinfolio

import (
	"encoding/json"
	"testing"
	"time"
)

const histodaySample = `{
	"Response": "Success",
	"Data": {
		"TimeFrom": 1700006400,
		"TimeTo": 1700179200,
		"Data": [
			{ "time": 1700006400, "close": 36567.12, "high": 37000, "low": 36000 },
			{ "time": 1700092800, "close": 0, "high": 0, "low": 0 },
			{ "time": 1700179200, "close": 36210.5, "high": 36800, "low": 36100 }
		]
	}
}`

func TestParseDailyPrices(t *testing.T) {
	var jobj any
	if err := json.Unmarshal([]byte(histodaySample), &jobj); err != nil {
		t.Fatalf("bad sample: %v", err)
	}

	points, err := parseDailyPrices(jobj, "BTC", "USD")
	if err != nil {
		t.Fatalf("parseDailyPrices() failed: %v", err)
	}

	// The zero-close padding day is skipped.
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}

	first := points[0]
	if first.AssetID != "BTC" {
		t.Errorf("asset = %q, want BTC", first.AssetID)
	}
	if want := time.Unix(1700006400, 0).UTC(); !first.Time.Equal(want) {
		t.Errorf("time = %s, want %s", first.Time, want)
	}
	if first.Price.String() != "36567.12" {
		t.Errorf("price = %s, want 36567.12", first.Price)
	}
	if first.Price.Currency() != "USD" {
		t.Errorf("currency = %q, want USD", first.Price.Currency())
	}

	if points[1].Price.String() != "36210.5" {
		t.Errorf("last price = %s, want 36210.5", points[1].Price)
	}
}

func TestParseDailyPrices_MissingData(t *testing.T) {
	var jobj any
	if err := json.Unmarshal([]byte(`{"Response":"Error","Message":"limit"}`), &jobj); err != nil {
		t.Fatalf("bad sample: %v", err)
	}
	if _, err := parseDailyPrices(jobj, "BTC", "USD"); err == nil {
		t.Fatal("parseDailyPrices() accepted a response without price data")
	}
}

func TestParseDailyPrices_NotAList(t *testing.T) {
	var jobj any
	if err := json.Unmarshal([]byte(`{"Data":{"Data":{"time":1700006400}}}`), &jobj); err != nil {
		t.Fatalf("bad sample: %v", err)
	}
	if _, err := parseDailyPrices(jobj, "BTC", "USD"); err == nil {
		t.Fatal("parseDailyPrices() accepted a non-list payload")
	}
}

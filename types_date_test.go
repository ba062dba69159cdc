package coinfolio

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateOf(t *testing.T) {
	tests := []struct {
		instant time.Time
		want    string
	}{
		{time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "2025-06-01"},
		{time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC), "2025-06-01"},
		// 01:00 CEST is still the previous day in UTC.
		{time.Date(2025, 6, 2, 1, 0, 0, 0, time.FixedZone("CEST", 2*3600)), "2025-06-01"},
	}
	for _, tc := range tests {
		if got := DateOf(tc.instant).String(); got != tc.want {
			t.Errorf("DateOf(%s) = %s, want %s", tc.instant, got, tc.want)
		}
	}
}

func TestDateBounds(t *testing.T) {
	d := NewDate(2025, time.June, 1)
	if want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC); !d.Start().Equal(want) {
		t.Errorf("Start() = %s, want %s", d.Start(), want)
	}
	if want := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC); !d.EndExclusive().Equal(want) {
		t.Errorf("EndExclusive() = %s, want %s", d.EndExclusive(), want)
	}

	// midnight belongs to the day it starts
	midnight := d.EndExclusive()
	if DateOf(midnight) != d.Add(1) {
		t.Errorf("DateOf(midnight) = %s, want %s", DateOf(midnight), d.Add(1))
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2025, time.December, 31)
	if got := d.Add(1); got != NewDate(2026, time.January, 1) {
		t.Errorf("Add(1) = %s, want 2026-01-01", got)
	}
	if got := NewDate(2026, time.January, 1).Sub(NewDate(2025, time.December, 25)); got != 7 {
		t.Errorf("Sub() = %d, want 7", got)
	}
	// leap day
	if got := NewDate(2024, time.February, 28).Add(1); got != NewDate(2024, time.February, 29) {
		t.Errorf("Add(1) over leap day = %s, want 2024-02-29", got)
	}

	a, b := NewDate(2025, time.January, 5), NewDate(2025, time.March, 1)
	if MaxDate(a, b) != b || MaxDate(b, a) != b {
		t.Errorf("MaxDate(%s, %s) != %s", a, b, b)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-01")
	if err != nil {
		t.Fatalf("ParseDate() failed: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.June || d.Day() != 1 {
		t.Errorf("ParseDate() = %s, want 2025-06-01", d)
	}

	for _, bad := range []string{"2025-6-1", "01/06/2025", "2025-06-01T00:00:00Z", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) accepted malformed input", bad)
		}
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, time.June, 1)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if string(data) != `"2025-06-01"` {
		t.Errorf("Marshal() = %s, want quoted ISO day", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if back != d {
		t.Errorf("round trip = %s, want %s", back, d)
	}
}

package coinfolio

import "testing"

func TestQuantityString(t *testing.T) {
	tests := []struct {
		q    Quantity
		want string
	}{
		{Q(1.5), "1.5"},
		{Q(-0.001), "-0.001"},
		{Q(0), "0"},
		{Q(0).Neg(), "0"},
		{Q(0.1).Sub(Q(0.1)), "0"},
	}
	for _, tc := range tests {
		if got := tc.q.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestQuantityExactness(t *testing.T) {
	// the classic float trap: 0.1 + 0.2 must be exactly 0.3
	if got := Q(0.1).Add(Q(0.2)); !got.Equal(Q(0.3)) {
		t.Errorf("0.1 + 0.2 = %s, want 0.3", got)
	}

	sum := Q(0)
	for i := 0; i < 10; i++ {
		sum = sum.Add(Q(0.1))
	}
	if sum.String() != "1" {
		t.Errorf("ten tenths = %s, want 1", sum)
	}
}

func TestQuantityMin(t *testing.T) {
	if got := Q(2).Min(Q(0.5)); !got.Equal(Q(0.5)) {
		t.Errorf("Min(2, 0.5) = %s, want 0.5", got)
	}
	if got := Q(0.5).Min(Q(2)); !got.Equal(Q(0.5)) {
		t.Errorf("Min(0.5, 2) = %s, want 0.5", got)
	}
}

func TestParseQuantity(t *testing.T) {
	q, err := ParseQuantity("0.00000001")
	if err != nil {
		t.Fatalf("ParseQuantity() failed: %v", err)
	}
	if q.String() != "0.00000001" {
		t.Errorf("ParseQuantity() = %s, want one satoshi", q)
	}
	if _, err := ParseQuantity("1e"); err == nil {
		t.Error("ParseQuantity() accepted malformed input")
	}
}

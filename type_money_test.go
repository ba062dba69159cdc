package coinfolio

import "testing"

func TestMoneyString(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{M(50000, "USD"), "50000"},
		{M(0.1, "USD"), "0.1"},
		{M(-12.5, "USD"), "-12.5"},
		{M(0, "USD"), "0"},
		// a negative zero folds to plain zero
		{M(0, "USD").Neg(), "0"},
		{M(10, "USD").Sub(M(10, "USD")), "0"},
	}
	for _, tc := range tests {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	price := M(50000, "USD")

	if got := price.Mul(Q(0.5)); got.String() != "25000" {
		t.Errorf("Mul(0.5) = %s, want 25000", got)
	}
	if got := M(100, "USD").Div(Q(4)); got.String() != "25" {
		t.Errorf("Div(4) = %s, want 25", got)
	}
	if got := M(25000, "USD").DivPrice(price); got.String() != "0.5" {
		t.Errorf("DivPrice() = %s, want 0.5", got)
	}
}

func TestMoneyWeakCurrency(t *testing.T) {
	// amounts decoded from the ledger carry no currency of their own; the
	// first typed operand decides.
	got := M(10, "").Add(M(5, "USD"))
	if got.Currency() != "USD" || got.String() != "15" {
		t.Errorf("Add() = %s %s, want 15 USD", got, got.Currency())
	}
	got = M(10, "EUR").Sub(M(5, ""))
	if got.Currency() != "EUR" || got.String() != "5" {
		t.Errorf("Sub() = %s %s, want 5 EUR", got, got.Currency())
	}

	defer func() {
		if recover() == nil {
			t.Error("adding USD to EUR did not panic")
		}
	}()
	M(1, "USD").Add(M(1, "EUR"))
}

func TestMoneyDisplay(t *testing.T) {
	if got := M(1234.5, "USD").Display(); got != "$1,234.50" {
		t.Errorf("Display() = %q, want $1,234.50", got)
	}
	if got := M(1234.5, "USD").SignedString(); got != "+$1,234.50" {
		t.Errorf("SignedString() = %q, want +$1,234.50", got)
	}
	if got := M(0, "USD").SignedString(); got != "-" {
		t.Errorf("SignedString(0) = %q, want -", got)
	}
}

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("36567.12", "USD")
	if err != nil {
		t.Fatalf("ParseMoney() failed: %v", err)
	}
	if m.String() != "36567.12" || m.Currency() != "USD" {
		t.Errorf("ParseMoney() = %s %s", m, m.Currency())
	}
	if _, err := ParseMoney("12,5", "USD"); err == nil {
		t.Error("ParseMoney() accepted a malformed amount")
	}
}

package coinfolio

import "fmt"

// Percent is a display-only percentage. Engine arithmetic stays in exact
// decimals; Percent only ever appears in rendered output.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// ratioPercent returns num/den as a percentage, zero when den is zero.
func ratioPercent(num, den Money) Percent {
	if den.IsZero() {
		return 0
	}
	f, _ := num.value.Div(den.value).Float64()
	return Percent(100 * f)
}

// Package renderer formats portfolio data as markdown for terminal display.
package renderer

import "github.com/coinfolio/coinfolio"

// signed formats an amount with its exact digits and an explicit sign, for
// gain and loss columns.
func signed(m coinfolio.Money) string {
	if m.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

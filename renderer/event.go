package renderer

import (
	"fmt"

	"github.com/coinfolio/coinfolio"
)

// Event renders a ledger event to a one-line string.
func Event(ev coinfolio.Event) string {
	switch v := ev.(type) {
	case coinfolio.Buy:
		return fmt.Sprintf("Bought %s %s at %s", v.Quantity, v.AssetID, v.UnitPrice)
	case coinfolio.Sell:
		return fmt.Sprintf("Sold %s %s at %s", v.Quantity.Abs(), v.AssetID, v.UnitPrice)
	case coinfolio.Swap:
		return fmt.Sprintf("Swapped %s %s for %s %s", v.Quantity, v.AssetID, v.OutQuantity, v.OutAssetID)
	case coinfolio.Transfer:
		if v.Quantity.IsNegative() {
			return fmt.Sprintf("Transferred out %s %s", v.Quantity.Abs(), v.AssetID)
		}
		return fmt.Sprintf("Transferred in %s %s", v.Quantity, v.AssetID)
	case coinfolio.Reward:
		return fmt.Sprintf("Received %s %s (%s)", v.Quantity, v.AssetID, v.What())
	case coinfolio.DeFi:
		return fmt.Sprintf("%s %s %s", v.What(), v.Quantity, v.AssetID)
	case coinfolio.Tombstone:
		return fmt.Sprintf("Deleted event %s", v.Replaces)
	default:
		return string(ev.What())
	}
}

package cmd

import (
	"flag"
	"fmt"

	"github.com/coinfolio/coinfolio"
)

// feeFlags is the shared flag set for the fee of a recorded event. A fee is
// either paid in base currency (-fee) or in a token (-fee-asset and
// -fee-amount, with -fee-value carrying its base-currency valuation).
type feeFlags struct {
	base   string
	asset  string
	amount string
	value  string
}

func (p *feeFlags) register(f *flag.FlagSet) {
	f.StringVar(&p.base, "fee", "", "Fee paid in base currency.")
	f.StringVar(&p.asset, "fee-asset", "", "Asset a token fee was paid in.")
	f.StringVar(&p.amount, "fee-amount", "", "Token fee quantity.")
	f.StringVar(&p.value, "fee-value", "", "Base-currency value of the token fee.")
}

func (p *feeFlags) fee(currency string) (coinfolio.Fee, error) {
	var fee coinfolio.Fee
	var err error

	if p.base != "" {
		if fee.Base, err = coinfolio.ParseMoney(p.base, currency); err != nil {
			return coinfolio.Fee{}, fmt.Errorf("invalid -fee: %w", err)
		}
	}
	fee.AssetID = p.asset
	if p.amount != "" {
		if fee.Amount, err = coinfolio.ParseQuantity(p.amount); err != nil {
			return coinfolio.Fee{}, fmt.Errorf("invalid -fee-amount: %w", err)
		}
	}
	if p.value != "" {
		if fee.ValueBase, err = coinfolio.ParseMoney(p.value, currency); err != nil {
			return coinfolio.Fee{}, fmt.Errorf("invalid -fee-value: %w", err)
		}
	}
	return fee, nil
}

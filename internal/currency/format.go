package currency

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Format renders an already-converted amount in the given display
// currency, using the currency's ISO 4217 fraction to decide how many
// minor-unit digits survive (XAF has none, USD and EUR have two).
func (c *Converter) Format(amount decimal.Decimal, code string) (string, error) {
	if !c.Known(code) {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	fraction := 2
	if cur := money.GetCurrency(code); cur != nil {
		fraction = cur.Fraction
	}
	minor := amount.Shift(int32(fraction)).Round(0)
	return money.New(minor.IntPart(), code).Display(), nil
}

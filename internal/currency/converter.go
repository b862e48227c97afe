// Package currency converts canonical-currency amounts into a display
// currency using a fixed multiplier table, and formats converted amounts
// for presentation.
//
// Conversions always start from the canonical stored amount. Rescaling an
// already-converted total by a rate ratio compounds rounding error across
// successive currency switches and is not offered by this package.
package currency

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Canonical is the currency transaction amounts are stored in.
const Canonical = "XAF"

var ErrUnknownCurrency = errors.New("unknown currency")

// Converter multiplies canonical amounts by per-currency rates.
type Converter struct {
	rates map[string]decimal.Decimal
}

// NewConverter returns a converter loaded with the fixed rate table
// relative to the canonical currency.
func NewConverter() *Converter {
	return &Converter{rates: map[string]decimal.Decimal{
		"XAF": decimal.NewFromInt(1),
		"USD": decimal.RequireFromString("0.0015"),
		"EUR": decimal.RequireFromString("0.0014"),
	}}
}

// Known reports whether the code has an entry in the rate table.
func (c *Converter) Known(code string) bool {
	_, ok := c.rates[code]
	return ok
}

// Codes returns the supported currency codes, sorted.
func (c *Converter) Codes() []string {
	out := make([]string, 0, len(c.rates))
	for code := range c.rates {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Convert converts a canonical amount into the given display currency.
// An unknown code is a configuration error; the input is not consumed.
func (c *Converter) Convert(amount decimal.Decimal, to string) (decimal.Decimal, error) {
	rate, ok := c.rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownCurrency, to)
	}
	return amount.Mul(rate), nil
}

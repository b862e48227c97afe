package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryBreakdown is the chart-ready split of expenses by category.
// Labels keeps the order of first appearance among expense transactions;
// Values is parallel to it. Empty marks the no-expenses state so the
// consumer shows a placeholder instead of a chart.
type CategoryBreakdown struct {
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
	Total  decimal.Decimal   `json:"total"`
	Empty  bool              `json:"empty"`
}

// Percentages returns each category's share of Total, rounded to one
// decimal place. It returns nil for the empty state: shares are undefined
// when the total is zero and must not be computed.
func (c CategoryBreakdown) Percentages() []decimal.Decimal {
	if c.Empty || c.Total.IsZero() {
		return nil
	}
	hundred := decimal.NewFromInt(100)
	out := make([]decimal.Decimal, len(c.Values))
	for i, v := range c.Values {
		out[i] = v.Mul(hundred).Div(c.Total).Round(1)
	}
	return out
}

// MonthBucket accumulates the converted income and expense sums of one
// calendar month.
type MonthBucket struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
}

// Savings is derived on read; it is never stored.
func (b MonthBucket) Savings() decimal.Decimal {
	return b.Revenue.Sub(b.Expense)
}

// Surplus reports whether the bucket closed at or above break-even.
func (b MonthBucket) Surplus() bool {
	return !b.Savings().IsNegative()
}

// MonthlySeries holds exactly six month buckets, chronologically
// ascending, ending at the evaluation month.
type MonthlySeries struct {
	Buckets []MonthBucket `json:"buckets"`
	Empty   bool          `json:"empty"`
}

// DailyBalance is the cumulative balance for every calendar day of the
// evaluation month. Days and Balances are parallel; TrendSign carries the
// sign of the final balance (-1, 0 or 1) so consumers can pick a
// positive or negative visual treatment.
type DailyBalance struct {
	Days      []int             `json:"days"`
	Balances  []decimal.Decimal `json:"balances"`
	TrendSign int               `json:"trend_sign"`
	Empty     bool              `json:"empty"`
}

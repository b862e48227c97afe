// Package projection holds the pure aggregation functions that turn a
// ledger snapshot and a display currency into chart-ready values.
//
// All bucketing uses the UTC calendar; transaction timestamps are
// normalized to UTC at ingestion. A record that slipped past ingestion
// validation (zero date, unconvertible amount) is skipped with a warning
// instead of aborting the whole aggregation.
package projection

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"wallettrack/internal/core"
	"wallettrack/internal/currency"
)

// usable filters out records that should never have been admitted.
func usable(tx core.Transaction) bool {
	if tx.OccurredAt.IsZero() {
		slog.Warn("Skipping transaction with invalid date", "id", tx.ID, "category", tx.Category)
		return false
	}
	return true
}

// Category computes the expense breakdown by category. Group order is the
// order of first appearance among expense transactions, not magnitude.
func Category(txs []core.Transaction, conv *currency.Converter, display string) core.CategoryBreakdown {
	out := core.CategoryBreakdown{Total: decimal.Zero, Empty: true}
	index := make(map[string]int)
	for _, tx := range txs {
		if tx.Kind != core.Expense || !usable(tx) {
			continue
		}
		v, err := conv.Convert(tx.Amount, display)
		if err != nil {
			slog.Warn("Skipping unconvertible transaction", "id", tx.ID, "error", err)
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(out.Labels)
			index[tx.Category] = i
			out.Labels = append(out.Labels, tx.Category)
			out.Values = append(out.Values, decimal.Zero)
		}
		out.Values[i] = out.Values[i].Add(v)
		out.Total = out.Total.Add(v)
		out.Empty = false
	}
	return out
}

package projection

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"wallettrack/internal/core"
	"wallettrack/internal/currency"
)

// monthWindow is the number of buckets in the revenue-vs-expense
// comparison: the evaluation month and the five before it.
const monthWindow = 6

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Monthly builds the six-bucket revenue/expense series ending at the
// month of now. Transactions outside the window are ignored.
func Monthly(txs []core.Transaction, conv *currency.Converter, display string, now time.Time) core.MonthlySeries {
	now = now.UTC()
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	series := core.MonthlySeries{Empty: true, Buckets: make([]core.MonthBucket, 0, monthWindow)}
	index := make(map[string]int, monthWindow)
	for i := 0; i < monthWindow; i++ {
		m := base.AddDate(0, i-(monthWindow-1), 0)
		index[monthKey(m)] = i
		series.Buckets = append(series.Buckets, core.MonthBucket{
			Year:    m.Year(),
			Month:   m.Month(),
			Label:   m.Format("Jan 2006"),
			Revenue: decimal.Zero,
			Expense: decimal.Zero,
		})
	}

	for _, tx := range txs {
		if !usable(tx) {
			continue
		}
		i, ok := index[monthKey(tx.OccurredAt.UTC())]
		if !ok {
			continue // outside the six-month window
		}
		v, err := conv.Convert(tx.Amount, display)
		if err != nil {
			slog.Warn("Skipping unconvertible transaction", "id", tx.ID, "error", err)
			continue
		}
		switch tx.Kind {
		case core.Income:
			series.Buckets[i].Revenue = series.Buckets[i].Revenue.Add(v)
		case core.Expense:
			series.Buckets[i].Expense = series.Buckets[i].Expense.Add(v)
		default:
			slog.Warn("Skipping transaction with unknown kind", "id", tx.ID, "kind", string(tx.Kind))
			continue
		}
		series.Empty = false
	}
	return series
}

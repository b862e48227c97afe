package projection

import (
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"wallettrack/internal/core"
	"wallettrack/internal/currency"
)

// DailyBalance walks every calendar day of the month of now, applying the
// month's transactions in chronological order to a running balance that
// starts at zero. The balance recorded for a day already includes that
// day's transactions.
func DailyBalance(txs []core.Transaction, conv *currency.Converter, display string, now time.Time) core.DailyBalance {
	now = now.UTC()
	year, month := now.Year(), now.Month()
	// Day zero of the next month is the last day of this one.
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	inMonth := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !usable(tx) {
			continue
		}
		at := tx.OccurredAt.UTC()
		if at.Year() == year && at.Month() == month {
			inMonth = append(inMonth, tx)
		}
	}
	sort.SliceStable(inMonth, func(i, j int) bool {
		return inMonth[i].OccurredAt.Before(inMonth[j].OccurredAt)
	})

	out := core.DailyBalance{
		Days:     make([]int, 0, lastDay),
		Balances: make([]decimal.Decimal, 0, lastDay),
		Empty:    true,
	}
	running := decimal.Zero
	cursor := 0
	for day := 1; day <= lastDay; day++ {
		for cursor < len(inMonth) && inMonth[cursor].OccurredAt.UTC().Day() == day {
			tx := inMonth[cursor]
			cursor++
			v, err := conv.Convert(tx.Amount, display)
			if err != nil {
				slog.Warn("Skipping unconvertible transaction", "id", tx.ID, "error", err)
				continue
			}
			if tx.Kind == core.Income {
				running = running.Add(v)
			} else {
				running = running.Sub(v)
			}
			out.Empty = false
		}
		out.Days = append(out.Days, day)
		out.Balances = append(out.Balances, running)
	}
	out.TrendSign = out.Balances[len(out.Balances)-1].Sign()
	return out
}

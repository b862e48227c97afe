package projection

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wallettrack/internal/core"
	"wallettrack/internal/currency"
)

func TestCategoryBreakdown(t *testing.T) {
	conv := currency.NewConverter()
	txs := []core.Transaction{
		tx(t, "100", "Food", day(2024, time.January, 5), core.Expense),
		tx(t, "50", "Transport", day(2024, time.January, 6), core.Expense),
		tx(t, "500", "Salary", day(2024, time.January, 1), core.Income),
	}

	got := Category(txs, conv, "XAF")
	if got.Empty {
		t.Fatal("expected a non-empty breakdown")
	}
	if len(got.Labels) != 2 || got.Labels[0] != "Food" || got.Labels[1] != "Transport" {
		t.Fatalf("unexpected labels: %v", got.Labels)
	}
	eq(t, got.Values[0], "100", "Food value")
	eq(t, got.Values[1], "50", "Transport value")
	eq(t, got.Total, "150", "total")
}

func TestCategoryFirstAppearanceOrder(t *testing.T) {
	conv := currency.NewConverter()
	txs := []core.Transaction{
		tx(t, "1", "Rent", day(2024, time.January, 2), core.Expense),
		tx(t, "900", "Food", day(2024, time.January, 3), core.Expense),
		tx(t, "5", "Rent", day(2024, time.January, 4), core.Expense),
	}
	got := Category(txs, conv, "XAF")
	// Order of first appearance, never magnitude.
	if got.Labels[0] != "Rent" || got.Labels[1] != "Food" {
		t.Fatalf("unexpected order: %v", got.Labels)
	}
	eq(t, got.Values[0], "6", "Rent value")
}

func TestCategorySumInvariant(t *testing.T) {
	conv := currency.NewConverter()
	txs := []core.Transaction{
		tx(t, "10.25", "Food", day(2024, time.January, 1), core.Expense),
		tx(t, "0.75", "Food", day(2024, time.January, 2), core.Expense),
		tx(t, "3", "Transport", day(2024, time.January, 3), core.Expense),
	}
	got := Category(txs, conv, "USD")
	sum := decimal.Zero
	for _, v := range got.Values {
		sum = sum.Add(v)
	}
	if !sum.Equal(got.Total) {
		t.Fatalf("sum(values)=%s does not match total=%s", sum, got.Total)
	}
	eq(t, got.Total, "0.021", "converted total") // 14 XAF * 0.0015
}

func TestCategoryEmptyState(t *testing.T) {
	conv := currency.NewConverter()
	onlyIncome := []core.Transaction{
		tx(t, "500", "Salary", day(2024, time.January, 1), core.Income),
	}
	for i, txs := range [][]core.Transaction{nil, onlyIncome} {
		got := Category(txs, conv, "XAF")
		if !got.Empty {
			t.Fatalf("case %d: expected empty state", i)
		}
		if len(got.Labels) != 0 || len(got.Values) != 0 || !got.Total.IsZero() {
			t.Fatalf("case %d: expected zero-valued result, got %+v", i, got)
		}
		if got.Percentages() != nil {
			t.Fatalf("case %d: percentages must not be computed for the empty state", i)
		}
	}
}

func TestCategorySkipsMalformedRecord(t *testing.T) {
	conv := currency.NewConverter()
	good := tx(t, "100", "Food", day(2024, time.January, 5), core.Expense)
	bad := good
	bad.ID = "corrupt"
	bad.OccurredAt = time.Time{}

	got := Category([]core.Transaction{bad, good}, conv, "XAF")
	if len(got.Labels) != 1 {
		t.Fatalf("expected the corrupt record to be skipped, got %v", got.Labels)
	}
	eq(t, got.Total, "100", "total")
}

func TestCategoryIdempotent(t *testing.T) {
	conv := currency.NewConverter()
	txs := []core.Transaction{
		tx(t, "33.33", "Food", day(2024, time.January, 5), core.Expense),
		tx(t, "66.67", "Transport", day(2024, time.January, 6), core.Expense),
	}
	first := Category(txs, conv, "EUR")
	second := Category(txs, conv, "EUR")
	if !first.Total.Equal(second.Total) || len(first.Values) != len(second.Values) {
		t.Fatal("recomputation against an unchanged ledger must be identical")
	}
	for i := range first.Values {
		if !first.Values[i].Equal(second.Values[i]) {
			t.Fatalf("value %d differs between identical recomputations", i)
		}
	}
}

package projection

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wallettrack/internal/core"
)

func tx(t *testing.T, amount string, category string, at time.Time, kind core.TxKind) core.Transaction {
	t.Helper()
	out, err := core.NewTransaction(decimal.RequireFromString(amount), category, at, kind)
	if err != nil {
		t.Fatalf("new transaction: %v", err)
	}
	return out
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func eq(t *testing.T, got decimal.Decimal, want string, what string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s: expected %s, got %s", what, want, got)
	}
}

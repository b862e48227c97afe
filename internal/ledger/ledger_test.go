package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wallettrack/internal/core"
)

func mustTx(t *testing.T, amount int64, category string, kind core.TxKind) core.Transaction {
	t.Helper()
	tx, err := core.NewTransaction(decimal.NewFromInt(amount), category, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), kind)
	if err != nil {
		t.Fatalf("new transaction: %v", err)
	}
	return tx
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	l := New()
	first := mustTx(t, 100, "Food", core.Expense)
	second := mustTx(t, 50, "Transport", core.Expense)
	third := mustTx(t, 500, "Salary", core.Income)

	for i, tx := range []core.Transaction{first, second, third} {
		if err := l.Add(tx); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	snap := l.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snap))
	}
	if snap[0].ID != first.ID || snap[1].ID != second.ID || snap[2].ID != third.ID {
		t.Fatal("snapshot order does not match insertion order")
	}
}

func TestAddRejectsInvalid(t *testing.T) {
	l := New()
	bad := mustTx(t, 10, "Food", core.Expense)
	bad.Amount = decimal.NewFromInt(-10)
	if err := l.Add(bad); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("ledger must stay unchanged, got %d entries", l.Len())
	}
}

func TestAddRejectsDuplicateID(t *testing.T) {
	l := New()
	tx := mustTx(t, 10, "Food", core.Expense)
	if err := l.Add(tx); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := l.Add(tx); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if l.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", l.Len())
	}
}

func TestRemove(t *testing.T) {
	l := New()
	keep := mustTx(t, 10, "Food", core.Expense)
	drop := mustTx(t, 20, "Transport", core.Expense)
	tail := mustTx(t, 30, "Salary", core.Income)
	for _, tx := range []core.Transaction{keep, drop, tail} {
		if err := l.Add(tx); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if err := l.Remove(drop.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	snap := l.Snapshot()
	if len(snap) != 2 || snap[0].ID != keep.ID || snap[1].ID != tail.ID {
		t.Fatalf("unexpected snapshot after removal: %+v", snap)
	}

	if err := l.Remove("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("remove of unknown id must be a no-op, got %d entries", l.Len())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	l := New()
	tx := mustTx(t, 10, "Food", core.Expense)
	if err := l.Add(tx); err != nil {
		t.Fatalf("add: %v", err)
	}
	snap := l.Snapshot()
	snap[0].Category = "Tampered"
	if l.Snapshot()[0].Category != "Food" {
		t.Fatal("snapshot mutation leaked into the ledger")
	}
}

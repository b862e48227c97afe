// Package ledger holds the insertion-ordered transaction collection that
// is the single source of truth for every projection.
package ledger

import (
	"errors"
	"fmt"

	"wallettrack/internal/core"
)

var (
	ErrNotFound    = errors.New("transaction not found")
	ErrDuplicateID = errors.New("duplicate transaction id")
)

// Ledger is owned exclusively by the engine, which serializes access;
// there is no internal locking.
type Ledger struct {
	items []core.Transaction
	ids   map[string]struct{}
}

func New() *Ledger {
	return &Ledger{ids: make(map[string]struct{})}
}

// Add appends a validated transaction. The ledger is left unchanged when
// validation fails or the id is already present.
func (l *Ledger) Add(tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if tx.ID == "" {
		return fmt.Errorf("%w: empty id", ErrDuplicateID)
	}
	if _, ok := l.ids[tx.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, tx.ID)
	}
	l.ids[tx.ID] = struct{}{}
	l.items = append(l.items, tx)
	return nil
}

// Remove deletes the transaction with the given id, keeping the order of
// the remaining entries.
func (l *Ledger) Remove(id string) error {
	if _, ok := l.ids[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(l.ids, id)
	for i, tx := range l.items {
		if tx.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			break
		}
	}
	return nil
}

func (l *Ledger) Len() int {
	return len(l.items)
}

// Snapshot returns a copy of the transactions in insertion order.
func (l *Ledger) Snapshot() []core.Transaction {
	out := make([]core.Transaction, len(l.items))
	copy(out, l.items)
	return out
}

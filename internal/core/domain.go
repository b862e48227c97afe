package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Income  TxKind = "income"
	Expense TxKind = "expense"
)

type (
	TxKind string

	// Transaction is a single ledger entry. Amount is expressed in the
	// canonical storage currency and is immutable once admitted; entries
	// leave the ledger only by ID.
	Transaction struct {
		ID         string
		Amount     decimal.Decimal // canonical currency, always > 0
		Category   string
		OccurredAt time.Time
		Kind       TxKind
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidDate   = errors.New("invalid date")
	ErrUnknownKind   = errors.New("unknown transaction kind")
)

// ParseKind maps user input onto a transaction kind.
func ParseKind(s string) (TxKind, error) {
	switch TxKind(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	default:
		return "", ErrUnknownKind
	}
}

// NewTransaction validates the fields and assigns a fresh identifier.
// OccurredAt is normalized to UTC so that month and day bucketing stays
// stable regardless of the caller's zone.
func NewTransaction(amount decimal.Decimal, category string, occurredAt time.Time, kind TxKind) (Transaction, error) {
	t := Transaction{
		ID:         uuid.NewString(),
		Amount:     amount,
		Category:   strings.TrimSpace(category),
		OccurredAt: occurredAt.UTC(),
		Kind:       kind,
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func (t Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Category) > 200 {
		return errors.New("category too long (max 200 characters)")
	}
	if t.OccurredAt.IsZero() {
		return ErrInvalidDate
	}
	switch t.Kind {
	case Income, Expense:
	default:
		return ErrUnknownKind
	}
	return nil
}

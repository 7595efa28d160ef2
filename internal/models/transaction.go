// ABOUTME: Transaction model for income and expense tracking.
package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionKind is either income or expense.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// IsValidTransactionKind checks if a string is a valid transaction kind.
func IsValidTransactionKind(s string) bool {
	return s == string(KindIncome) || s == string(KindExpense)
}

// Transaction is a single money movement. Amount is always positive;
// Kind carries the direction.
type Transaction struct {
	ID          uuid.UUID       `json:"id" yaml:"id"`
	UserID      uuid.UUID       `json:"user_id" yaml:"user_id"`
	Kind        TransactionKind `json:"kind" yaml:"kind"`
	Amount      float64         `json:"amount" yaml:"amount"`
	Category    string          `json:"category" yaml:"category"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at" yaml:"occurred_at"`
}

// NewTransaction creates a transaction occurring now.
func NewTransaction(userID uuid.UUID, kind TransactionKind, amount float64, category string) *Transaction {
	return &Transaction{
		ID:         uuid.New(),
		UserID:     userID,
		Kind:       kind,
		Amount:     amount,
		Category:   category,
		OccurredAt: time.Now(),
	}
}

// Signed returns the amount with expenses negative.
func (t *Transaction) Signed() float64 {
	if t.Kind == KindExpense {
		return -t.Amount
	}
	return t.Amount
}

// FinanceSummary totals transactions over a period.
type FinanceSummary struct {
	Income     float64            `json:"income"`
	Expense    float64            `json:"expense"`
	Net        float64            `json:"net"`
	ByCategory map[string]float64 `json:"by_category"`
}

// ABOUTME: Transaction storage operations and income/expense summaries.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/google/uuid"
)

const transactionColumns = "id, user_id, kind, amount, category, description, occurred_at"

// CreateTransaction stores a new transaction.
func (d *DB) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	_, err := d.exec(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.UserID.String(), string(t.Kind), t.Amount, t.Category, t.Description,
		fmtTime(t.OccurredAt),
	)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by ID or ID prefix.
func (d *DB) GetTransaction(ctx context.Context, idOrPrefix string) (*models.Transaction, error) {
	id, err := d.resolveID(ctx, "transactions", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanTransaction(d.queryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id))
}

// ListTransactions returns transactions, most recent first, optionally of one kind.
func (d *DB) ListTransactions(ctx context.Context, userID uuid.UUID, kind *models.TransactionKind, opts ListOptions) ([]*models.Transaction, error) {
	where := []string{"user_id = ?"}
	args := []any{userID.String()}
	if kind != nil {
		where = append(where, "kind = ?")
		args = append(args, string(*kind))
	}
	where, args = opts.rangeClause("occurred_at", fmtTime, where, args)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY occurred_at DESC`
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// UpdateTransaction saves changes to a transaction.
func (d *DB) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	return d.execAffected(ctx, "update transaction",
		`UPDATE transactions SET kind = ?, amount = ?, category = ?, description = ?, occurred_at = ?
		WHERE id = ?`,
		string(t.Kind), t.Amount, t.Category, t.Description, fmtTime(t.OccurredAt), t.ID.String(),
	)
}

// DeleteTransaction removes a transaction by ID or prefix.
func (d *DB) DeleteTransaction(ctx context.Context, idOrPrefix string) error {
	return d.deleteByID(ctx, "transactions", "delete transaction", idOrPrefix)
}

// SummarizeTransactions totals income and expenses in the range, with
// expenses broken down by category.
func (d *DB) SummarizeTransactions(ctx context.Context, userID uuid.UUID, opts ListOptions) (*models.FinanceSummary, error) {
	where := []string{"user_id = ?"}
	args := []any{userID.String()}
	where, args = opts.rangeClause("occurred_at", fmtTime, where, args)

	rows, err := d.query(ctx,
		`SELECT kind, category, COALESCE(SUM(amount), 0) FROM transactions
		WHERE `+strings.Join(where, " AND ")+`
		GROUP BY kind, category`, args...)
	if err != nil {
		return nil, fmt.Errorf("summarize transactions: %w", err)
	}
	defer rows.Close()

	summary := &models.FinanceSummary{ByCategory: map[string]float64{}}
	for rows.Next() {
		var kind, category string
		var total float64
		if err := rows.Scan(&kind, &category, &total); err != nil {
			return nil, fmt.Errorf("scan transaction summary: %w", err)
		}
		switch models.TransactionKind(kind) {
		case models.KindIncome:
			summary.Income += total
		case models.KindExpense:
			summary.Expense += total
			summary.ByCategory[category] += total
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summarize transactions: %w", err)
	}
	summary.Net = summary.Income - summary.Expense
	return summary, nil
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var t models.Transaction
	var idStr, userID, kind, occurredAt string
	if err := row.Scan(&idStr, &userID, &kind, &t.Amount, &t.Category, &t.Description, &occurredAt); err != nil {
		return nil, scanOne("transaction", err)
	}
	t.ID, _ = uuid.Parse(idStr)
	t.UserID, _ = uuid.Parse(userID)
	t.Kind = models.TransactionKind(kind)
	t.OccurredAt = parseTime(occurredAt)
	return &t, nil
}

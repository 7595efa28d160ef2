// ABOUTME: Income and expense transaction handlers and the period summary.

package api

import (
	"net/http"
	"strings"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/stats"
	"github.com/gin-gonic/gin"
)

type transactionRequest struct {
	Kind        *string  `json:"kind"`
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	OccurredAt  *string  `json:"occurred_at"`
}

func (r transactionRequest) apply(t *models.Transaction) error {
	if r.Kind != nil {
		if !models.IsValidTransactionKind(*r.Kind) {
			return invalid("kind must be income or expense")
		}
		t.Kind = models.TransactionKind(*r.Kind)
	}
	if r.Amount != nil {
		t.Amount = *r.Amount
	}
	if t.Amount <= 0 {
		return invalid("amount must be positive")
	}
	if r.Category != nil {
		t.Category = strings.TrimSpace(*r.Category)
	}
	if t.Category == "" {
		return invalid("category is required")
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.OccurredAt != nil {
		at, err := parseTime("occurred_at", *r.OccurredAt)
		if err != nil {
			return err
		}
		t.OccurredAt = at
	}
	return nil
}

func (s *Server) handleListTransactions(c *gin.Context) {
	var kind *models.TransactionKind
	if k := c.Query("kind"); k != "" {
		if !models.IsValidTransactionKind(k) {
			s.fail(c, invalid("kind must be income or expense"))
			return
		}
		tk := models.TransactionKind(k)
		kind = &tk
	}
	opts, err := listOptions(c, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	txs, err := s.repo.ListTransactions(c.Request.Context(), currentUser(c).ID, kind, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(txs))
}

func (s *Server) handleCreateTransaction(c *gin.Context) {
	var req transactionRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if req.Kind == nil {
		s.fail(c, invalid("kind is required"))
		return
	}
	t := models.NewTransaction(currentUser(c).ID, "", 0, "")
	t.OccurredAt = s.now()
	if err := req.apply(t); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.CreateTransaction(c.Request.Context(), t); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) handleUpdateTransaction(c *gin.Context) {
	var req transactionRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	t, err := s.repo.GetTransaction(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := req.apply(t); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(c *gin.Context) {
	if err := s.repo.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleFinanceSummary totals the selected range; with no range it covers
// the last 30 days.
func (s *Server) handleFinanceSummary(c *gin.Context) {
	now := s.now()
	opts, err := listOptions(c, now)
	if err != nil {
		s.fail(c, err)
		return
	}
	if opts.From.IsZero() && opts.To.IsZero() {
		opts.From = stats.StartOfDay(now).AddDate(0, 0, -29)
	}
	summary, err := s.repo.SummarizeTransactions(c.Request.Context(), currentUser(c).ID, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

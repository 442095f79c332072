package http

import (
	"context"
	"net/http"
	"time"

	"financehub/internal/core"
)

type transactionJSON struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Amount      string  `json:"amount"`
	AmountCents int64   `json:"amount_cents"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Description string  `json:"description,omitempty"`
	Asset       string  `json:"asset,omitempty"`
	Quantity    float64 `json:"quantity,omitempty"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      t.Amount.String(),
		AmountCents: t.Amount.Cents,
		Category:    t.Category,
		Date:        t.Date.Format("2006-01-02"),
		Description: t.Description,
		Asset:       t.Asset,
		Quantity:    t.Quantity,
	}
}

type bucketJSON struct {
	PeriodKey    string            `json:"period_key"`
	Label        string            `json:"label"`
	Amount       string            `json:"amount"`
	AmountCents  int64             `json:"amount_cents"`
	Count        int               `json:"count"`
	Transactions []transactionJSON `json:"transactions"`
}

func toBucketsJSON(buckets []core.PeriodBucket) []bucketJSON {
	out := make([]bucketJSON, 0, len(buckets))
	for _, b := range buckets {
		members := make([]transactionJSON, 0, len(b.Members))
		for _, t := range b.Members {
			members = append(members, toTransactionJSON(t))
		}
		out = append(out, bucketJSON{
			PeriodKey:    b.PeriodKey,
			Label:        b.Label,
			Amount:       b.Amount.String(),
			AmountCents:  b.Amount.Cents,
			Count:        b.Count,
			Transactions: members,
		})
	}
	return out
}

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

// handleReady verifies the storage dependency before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.transactions.ListTransactions(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"checks": map[string]string{"storage": err.Error()},
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"checks": map[string]string{"storage": "ok"},
	})
}

// handleSummary returns running totals over the full history.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	key := s.cacheKey("summary")
	summary, ok := s.summaryCache.Get(key)
	if !ok {
		var err error
		summary, err = s.analytics.Summary(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to compute summary")
			return
		}
		s.summaryCache.Set(key, summary)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_income":      summary.TotalIncome.String(),
		"total_expenses":    summary.TotalExpenses.String(),
		"total_investments": summary.TotalInvestments.String(),
		"balance":           summary.Balance.String(),
		"balance_cents":     summary.Balance.Cents,
	})
}

// handleTrends buckets the history per the query parameters.
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	q, err := parseAggregateQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := s.cacheKey("trends|" + r.URL.RawQuery)
	buckets, ok := s.trendsCache.Get(key)
	if !ok {
		buckets, err = s.analytics.Aggregate(r.Context(), q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.trendsCache.Set(key, buckets)
	}

	writeJSON(w, http.StatusOK, map[string]any{"buckets": toBucketsJSON(buckets)})
}

// handleCategorySearch is the search-box endpoint: substring matching,
// most recent periods first unless the caller says otherwise.
func (s *Server) handleCategorySearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := core.Query{
		Category: core.CategoryFilter{
			Mode: core.MatchSubstring,
			Term: params.Get("term"),
		},
		Granularity: core.Granularity(params.Get("granularity")),
		Direction:   core.SortDirection(params.Get("direction")),
	}
	if q.Granularity == "" {
		q.Granularity = core.ByMonth
	}
	if q.Direction == "" {
		q.Direction = core.Descending
	}

	key := s.cacheKey("search|" + r.URL.RawQuery)
	buckets, ok := s.trendsCache.Get(key)
	if !ok {
		var err error
		buckets, err = s.analytics.Aggregate(r.Context(), q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.trendsCache.Set(key, buckets)
	}

	writeJSON(w, http.StatusOK, map[string]any{"buckets": toBucketsJSON(buckets)})
}

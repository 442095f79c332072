package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"financehub/internal/core"
	"financehub/internal/storage"
)

type createTransactionRequest struct {
	Type        string  `json:"type"`
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Asset       string  `json:"asset"`
	Quantity    float64 `json:"quantity"`
}

// handleCreateTransaction records a new transaction.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	t := core.Transaction{
		Type:        core.TransactionType(req.Type),
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(req.Category),
		Date:        date,
		Description: sanitizeInput(req.Description),
		Asset:       sanitizeInput(req.Asset),
		Quantity:    req.Quantity,
	}

	created, err := s.transactions.CreateTransaction(r.Context(), t)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.invalidateAnalytics()
	writeJSON(w, http.StatusCreated, toTransactionJSON(created))
}

// handleListTransactions returns the full live history, oldest first.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.transactions.ListTransactions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	out := make([]transactionJSON, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionJSON(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

// handleGetTransaction returns a single transaction by ID.
func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.transactions.GetTransaction(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load transaction")
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(t))
}

// handleDeleteTransaction soft-deletes a transaction.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	err := s.transactions.DeleteTransaction(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.invalidateAnalytics()
	w.WriteHeader(http.StatusNoContent)
}

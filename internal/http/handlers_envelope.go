package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"financehub/internal/core"
	"financehub/internal/storage"
)

type createEnvelopeRequest struct {
	Name         string `json:"name"`
	TargetAmount string `json:"target_amount"`
	Currency     string `json:"currency"`
	Description  string `json:"description"`
}

type envelopeJSON struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  string  `json:"target_amount"`
	CurrentAmount string  `json:"current_amount"`
	Currency      string  `json:"currency"`
	Description   string  `json:"description,omitempty"`
	Progress      float64 `json:"progress"`
}

func toEnvelopeJSON(e core.Envelope) envelopeJSON {
	return envelopeJSON{
		ID:            e.ID,
		Name:          e.Name,
		TargetAmount:  e.Target.String(),
		CurrentAmount: e.Current.String(),
		Currency:      e.Currency,
		Description:   e.Description,
		Progress:      e.Progress(),
	}
}

type envelopeTransactionJSON struct {
	ID          string `json:"id"`
	EnvelopeID  string `json:"envelope_id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

func toEnvelopeTransactionJSON(t core.EnvelopeTransaction) envelopeTransactionJSON {
	return envelopeTransactionJSON{
		ID:          t.ID,
		EnvelopeID:  t.EnvelopeID,
		Type:        string(t.Type),
		Amount:      t.Amount.String(),
		AmountCents: t.Amount.Cents,
		Category:    t.Category,
		Date:        t.Date.Format("2006-01-02"),
		Description: t.Description,
	}
}

// handleCreateEnvelope opens a new savings envelope. Premium feature.
func (s *Server) handleCreateEnvelope(w http.ResponseWriter, r *http.Request) {
	if !s.resolveAccess(r).CanAccess(core.FeatureBudgetEnvelopes) {
		writeError(w, http.StatusForbidden, "budget envelopes require premium access")
		return
	}

	var req createEnvelopeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	target, err := core.ParseDecimalToCents(req.TargetAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target amount")
		return
	}

	created, err := s.envelopes.CreateEnvelope(r.Context(), core.Envelope{
		Name:        sanitizeInput(req.Name),
		Target:      core.Money{Cents: target},
		Currency:    sanitizeInput(req.Currency),
		Description: sanitizeInput(req.Description),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toEnvelopeJSON(created))
}

// handleListEnvelopes returns every envelope with its progress.
func (s *Server) handleListEnvelopes(w http.ResponseWriter, r *http.Request) {
	if !s.resolveAccess(r).CanAccess(core.FeatureBudgetEnvelopes) {
		writeError(w, http.StatusForbidden, "budget envelopes require premium access")
		return
	}

	envelopes, err := s.envelopes.ListEnvelopes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list envelopes")
		return
	}

	out := make([]envelopeJSON, 0, len(envelopes))
	for _, e := range envelopes {
		out = append(out, toEnvelopeJSON(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"envelopes": out})
}

// handleDeleteEnvelope removes an envelope and its movement history.
func (s *Server) handleDeleteEnvelope(w http.ResponseWriter, r *http.Request) {
	if !s.resolveAccess(r).CanAccess(core.FeatureBudgetEnvelopes) {
		writeError(w, http.StatusForbidden, "budget envelopes require premium access")
		return
	}

	err := s.envelopes.DeleteEnvelope(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "envelope not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete envelope")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAllocateToEnvelope moves money from the main budget into an
// envelope, recording the matching transfer expense.
func (s *Server) handleAllocateToEnvelope(w http.ResponseWriter, r *http.Request) {
	if !s.resolveAccess(r).CanAccess(core.FeatureBudgetEnvelopes) {
		writeError(w, http.StatusForbidden, "budget envelopes require premium access")
		return
	}

	var req struct {
		Amount string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	envelope, mirror, err := s.envelopes.Allocate(r.Context(), r.PathValue("id"), core.Money{Cents: cents}, time.Now())
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "envelope not found")
		return
	}
	if errors.Is(err, core.ErrInvalidAmount) {
		writeError(w, http.StatusBadRequest, "allocation amount must be positive")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to allocate")
		return
	}

	s.invalidateAnalytics()
	writeJSON(w, http.StatusOK, map[string]any{
		"new_amount":     envelope.Current.String(),
		"transaction_id": mirror.ID,
	})
}

// handleListEnvelopeTransactions returns an envelope's movements.
func (s *Server) handleListEnvelopeTransactions(w http.ResponseWriter, r *http.Request) {
	if !s.resolveAccess(r).CanAccess(core.FeatureBudgetEnvelopes) {
		writeError(w, http.StatusForbidden, "budget envelopes require premium access")
		return
	}

	movements, err := s.envelopes.ListTransactions(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "envelope not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list envelope transactions")
		return
	}

	out := make([]envelopeTransactionJSON, 0, len(movements))
	for _, m := range movements {
		out = append(out, toEnvelopeTransactionJSON(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

// handleCreateEnvelopeTransaction records a deposit or spend inside an
// envelope, mirrored into the main budget.
func (s *Server) handleCreateEnvelopeTransaction(w http.ResponseWriter, r *http.Request) {
	if !s.resolveAccess(r).CanAccess(core.FeatureBudgetEnvelopes) {
		writeError(w, http.StatusForbidden, "budget envelopes require premium access")
		return
	}

	var req struct {
		Type        string `json:"type"`
		Amount      string `json:"amount"`
		Category    string `json:"category"`
		Date        string `json:"date"`
		Description string `json:"description"`
	}
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

	created, err := s.envelopes.AddTransaction(r.Context(), core.EnvelopeTransaction{
		EnvelopeID:  r.PathValue("id"),
		Type:        core.TransactionType(req.Type),
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(req.Category),
		Date:        date,
		Description: sanitizeInput(req.Description),
	})
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "envelope not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.invalidateAnalytics()
	writeJSON(w, http.StatusCreated, toEnvelopeTransactionJSON(created))
}

// handleDeleteEnvelopeTransaction removes a movement and reverses it.
func (s *Server) handleDeleteEnvelopeTransaction(w http.ResponseWriter, r *http.Request) {
	if !s.resolveAccess(r).CanAccess(core.FeatureBudgetEnvelopes) {
		writeError(w, http.StatusForbidden, "budget envelopes require premium access")
		return
	}

	err := s.envelopes.RemoveTransaction(r.Context(), r.PathValue("id"), r.PathValue("txid"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "envelope transaction not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete envelope transaction")
		return
	}

	s.invalidateAnalytics()
	w.WriteHeader(http.StatusNoContent)
}

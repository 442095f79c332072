package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"financehub/internal/core"
)

type createRecurringRequest struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type recurringRuleJSON struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Frequency   string `json:"frequency"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	LastCreated string `json:"last_created,omitempty"`
	Active      bool   `json:"active"`
}

func toRuleJSON(rule core.RecurringRule, lastCreated core.Date) recurringRuleJSON {
	out := recurringRuleJSON{
		ID:          rule.ID,
		Type:        string(rule.Type),
		Amount:      rule.Amount.String(),
		Category:    rule.Category,
		Description: rule.Description,
		Frequency:   string(rule.Frequency),
		StartDate:   rule.StartDate.Format("2006-01-02"),
		Active:      rule.Active,
	}
	if !rule.EndDate.IsEmpty() {
		out.EndDate = rule.EndDate.Format("2006-01-02")
	}
	if !lastCreated.IsEmpty() {
		out.LastCreated = lastCreated.Format("2006-01-02")
	}
	return out
}

// handleCreateRecurringRule registers a standing order. Premium feature.
func (s *Server) handleCreateRecurringRule(w http.ResponseWriter, r *http.Request) {
	if !s.resolveAccess(r).CanAccess(core.FeatureRecurring) {
		writeError(w, http.StatusForbidden, "recurring transactions require premium access")
		return
	}

	var req createRecurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date, want YYYY-MM-DD")
		return
	}
	var endDate core.Date
	if req.EndDate != "" {
		if endDate, err = parseDate(req.EndDate); err != nil {
			writeError(w, http.StatusBadRequest, "invalid end date, want YYYY-MM-DD")
			return
		}
	}

	rule := core.RecurringRule{
		Type:        core.TransactionType(req.Type),
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Frequency:   core.Frequency(req.Frequency),
		StartDate:   startDate,
		EndDate:     endDate,
	}

	created, err := s.recurring.CreateRule(r.Context(), rule)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toRuleJSON(created, core.Date{}))
}

// handleListRecurringRules returns all active standing orders.
func (s *Server) handleListRecurringRules(w http.ResponseWriter, r *http.Request) {
	if !s.resolveAccess(r).CanAccess(core.FeatureRecurring) {
		writeError(w, http.StatusForbidden, "recurring transactions require premium access")
		return
	}

	rules, err := s.recurring.ListActiveRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list recurring rules")
		return
	}

	out := make([]recurringRuleJSON, 0, len(rules))
	for _, entry := range rules {
		out = append(out, toRuleJSON(entry.Rule, entry.LastCreated))
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": out})
}

// handleDeactivateRecurringRule stops a standing order.
func (s *Server) handleDeactivateRecurringRule(w http.ResponseWriter, r *http.Request) {
	if !s.resolveAccess(r).CanAccess(core.FeatureRecurring) {
		writeError(w, http.StatusForbidden, "recurring transactions require premium access")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rule ID")
		return
	}

	if err := s.recurring.DeactivateRule(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to deactivate rule")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"errors"
	"net/http"
	"time"

	"financehub/internal/core"
	"financehub/internal/services"
)

// handleAccessState resolves the caller's tier and capability set.
func (s *Server) handleAccessState(w http.ResponseWriter, r *http.Request) {
	state := s.resolveAccess(r)

	locked := state.LockedFeatures()
	lockedOut := make([]string, 0, len(locked))
	for _, f := range locked {
		lockedOut = append(lockedOut, string(f))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tier":               string(state.Tier),
		"has_premium_access": state.HasPremiumAccess,
		"locked_features":    lockedOut,
	})
}

type quoteJSON struct {
	Text     string `json:"text"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

// handleQuoteOfDay returns today's deterministic quote.
func (s *Server) handleQuoteOfDay(w http.ResponseWriter, r *http.Request) {
	quote, err := s.quotes.QuoteOfDay(r.Context(), core.DateOf(time.Now()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}
	writeJSON(w, http.StatusOK, quoteJSON(quote))
}

// handleQuoteRefresh picks an alternate quote for today. Premium only,
// once per calendar day.
func (s *Server) handleQuoteRefresh(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)
	if user.Email == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	quote, err := s.quotes.RefreshQuote(r.Context(), s.access.Resolve(user), user.Email, time.Now())
	if errors.Is(err, services.ErrRefreshNotAllowed) {
		writeError(w, http.StatusForbidden, "quote refresh not available")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to refresh quote")
		return
	}
	writeJSON(w, http.StatusOK, quoteJSON(quote))
}

// handleCurrencyConvert converts an amount via the static fallback table.
// Premium feature: multi-currency. Results are estimates.
func (s *Server) handleCurrencyConvert(w http.ResponseWriter, r *http.Request) {
	if !s.resolveAccess(r).CanAccess(core.FeatureMultiCurrency) {
		writeError(w, http.StatusForbidden, "multi-currency requires premium access")
		return
	}

	params := r.URL.Query()
	cents, err := core.ParseDecimalToCents(params.Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	converted, err := core.ConvertFallback(core.Money{Cents: cents}, params.Get("from"), params.Get("to"))
	if errors.Is(err, core.ErrUnknownCurrency) {
		writeError(w, http.StatusBadRequest, "unknown currency code")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "conversion failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"amount":    converted.String(),
		"cents":     converted.Cents,
		"estimated": true,
	})
}

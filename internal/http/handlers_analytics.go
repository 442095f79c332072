package http

import (
	"net/http"

	"financehub/internal/core"
)

type categoryShareJSON struct {
	Category    string  `json:"category"`
	Amount      string  `json:"amount"`
	AmountCents int64   `json:"amount_cents"`
	Percentage  float64 `json:"percentage"`
}

type growthPointJSON struct {
	Date            string `json:"date"`
	Value           string `json:"value"`
	Cumulative      string `json:"cumulative"`
	CumulativeCents int64  `json:"cumulative_cents"`
}

func toGrowthJSON(points []core.GrowthPoint) []growthPointJSON {
	out := make([]growthPointJSON, 0, len(points))
	for _, p := range points {
		out = append(out, growthPointJSON{
			Date:            p.Date,
			Value:           p.Value.String(),
			Cumulative:      p.Cumulative.String(),
			CumulativeCents: p.Cumulative.Cents,
		})
	}
	return out
}

// handleBreakdown returns per-category totals for one transaction type.
// Part of the dashboard, so available on every tier.
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	typ := core.TransactionType(r.URL.Query().Get("type"))
	if typ == "" {
		typ = core.Expense
	}

	shares, err := s.analytics.Breakdown(r.Context(), typ)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out := make([]categoryShareJSON, 0, len(shares))
	for _, sh := range shares {
		out = append(out, categoryShareJSON{
			Category:    sh.Category,
			Amount:      sh.Amount.String(),
			AmountCents: sh.Amount.Cents,
			Percentage:  sh.Percentage,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"type": string(typ), "breakdown": out})
}

// handleBudgetGrowth returns the cumulative income-minus-expenses series.
func (s *Server) handleBudgetGrowth(w http.ResponseWriter, r *http.Request) {
	if !s.resolveAccess(r).CanAccess(core.FeatureAdvancedAnalytics) {
		writeError(w, http.StatusForbidden, "advanced analytics requires premium access")
		return
	}

	points, err := s.analytics.BudgetGrowth(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute budget growth")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": toGrowthJSON(points)})
}

// handleInvestmentGrowth returns the cumulative invested series.
func (s *Server) handleInvestmentGrowth(w http.ResponseWriter, r *http.Request) {
	if !s.resolveAccess(r).CanAccess(core.FeatureAdvancedAnalytics) {
		writeError(w, http.StatusForbidden, "advanced analytics requires premium access")
		return
	}

	points, err := s.analytics.InvestmentGrowth(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute investment growth")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": toGrowthJSON(points)})
}

type holdingJSON struct {
	Asset             string  `json:"asset"`
	Category          string  `json:"category"`
	Quantity          float64 `json:"quantity"`
	Invested          string  `json:"invested"`
	AveragePrice      float64 `json:"average_price"`
	CurrentPrice      float64 `json:"current_price"`
	CurrentValue      string  `json:"current_value"`
	CurrentValueCents int64   `json:"current_value_cents"`
	GainLoss          string  `json:"gain_loss"`
	ROIPercentage     float64 `json:"roi_percentage"`
}

// handlePortfolio values every asset position and returns the holdings
// with their gains and ROI.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !s.resolveAccess(r).CanAccess(core.FeaturePortfolio) {
		writeError(w, http.StatusForbidden, "portfolio tracking requires premium access")
		return
	}

	portfolio, err := s.analytics.Portfolio(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute portfolio")
		return
	}

	holdings := make([]holdingJSON, 0, len(portfolio.Holdings))
	for _, h := range portfolio.Holdings {
		holdings = append(holdings, holdingJSON{
			Asset:             h.Asset,
			Category:          h.Category,
			Quantity:          h.Quantity,
			Invested:          h.Invested.String(),
			AveragePrice:      h.AveragePrice,
			CurrentPrice:      h.CurrentPrice,
			CurrentValue:      h.CurrentValue.String(),
			CurrentValueCents: h.CurrentValue.Cents,
			GainLoss:          h.GainLoss.String(),
			ROIPercentage:     h.ROIPercentage,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"holdings":             holdings,
		"total_invested":       portfolio.TotalInvested.String(),
		"current_value":        portfolio.CurrentValue.String(),
		"total_gain_loss":      portfolio.TotalGainLoss.String(),
		"total_roi_percentage": portfolio.TotalROIPercentage,
	})
}

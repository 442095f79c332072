package core

import (
	"math"
	"testing"
)

func investmentTx(asset, category string, quantity float64, cents int64) Transaction {
	return Transaction{
		Type:     Investment,
		Amount:   Money{Cents: cents},
		Category: category,
		Date:     NewDate(2024, 1, 15),
		Asset:    asset,
		Quantity: quantity,
	}
}

func TestBuildPortfolio(t *testing.T) {
	fixedPrice := func(asset, category string) float64 {
		return map[string]float64{"AAPL": 200.0, "BTC": 40000.0}[asset]
	}

	transactions := []Transaction{
		investmentTx("AAPL", "Stocks", 1, 15000),  // 1 @ 150.00
		investmentTx("AAPL", "Stocks", 1, 17000),  // 1 @ 170.00
		investmentTx("BTC", "Crypto", 0.5, 2000000), // 0.5 @ 40,000.00
		{Type: Expense, Amount: Money{Cents: 500}, Category: "Groceries", Date: NewDate(2024, 1, 16)},
		{Type: Investment, Amount: Money{Cents: 10000}, Category: "Pension", Date: NewDate(2024, 1, 17)}, // no asset
	}

	p := BuildPortfolio(transactions, fixedPrice)

	if len(p.Holdings) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(p.Holdings))
	}
	// Sorted by asset symbol.
	aapl, btc := p.Holdings[0], p.Holdings[1]
	if aapl.Asset != "AAPL" || btc.Asset != "BTC" {
		t.Fatalf("unexpected holding order: %s, %s", aapl.Asset, btc.Asset)
	}

	if aapl.Quantity != 2 || aapl.Invested.Cents != 32000 {
		t.Fatalf("AAPL position: %+v", aapl)
	}
	if aapl.AveragePrice != 160.0 {
		t.Fatalf("AAPL average price: expected 160, got %v", aapl.AveragePrice)
	}
	if aapl.CurrentValue.Cents != 40000 || aapl.GainLoss.Cents != 8000 {
		t.Fatalf("AAPL valuation: %+v", aapl)
	}
	if aapl.ROIPercentage != 25 {
		t.Fatalf("AAPL ROI: expected 25, got %v", aapl.ROIPercentage)
	}

	if btc.CurrentValue.Cents != 2000000 || btc.GainLoss.Cents != 0 {
		t.Fatalf("BTC valuation: %+v", btc)
	}

	if p.TotalInvested.Cents != 2032000 {
		t.Fatalf("total invested: expected 2032000, got %d", p.TotalInvested.Cents)
	}
	if p.CurrentValue.Cents != 2040000 {
		t.Fatalf("current value: expected 2040000, got %d", p.CurrentValue.Cents)
	}
	if p.TotalGainLoss.Cents != 8000 {
		t.Fatalf("total gain: expected 8000, got %d", p.TotalGainLoss.Cents)
	}
	wantROI := 8000.0 / 2032000.0 * 100
	if math.Abs(p.TotalROIPercentage-wantROI) > 1e-9 {
		t.Fatalf("total ROI: expected %v, got %v", wantROI, p.TotalROIPercentage)
	}
}

func TestBuildPortfolio_Empty(t *testing.T) {
	p := BuildPortfolio(nil, FallbackPrice)
	if len(p.Holdings) != 0 || p.TotalInvested.Cents != 0 || p.TotalROIPercentage != 0 {
		t.Fatalf("empty input should produce an empty portfolio: %+v", p)
	}
}

func TestFallbackPrice(t *testing.T) {
	if got := FallbackPrice("AAPL", "Stocks"); got != 185.50 {
		t.Fatalf("AAPL fallback: expected 185.50, got %v", got)
	}
	if got := FallbackPrice("BTC", "Crypto"); got != 43250.00 {
		t.Fatalf("BTC fallback: expected 43250.00, got %v", got)
	}
	if got := FallbackPrice("UNKNOWN", "Stocks"); got != 100.0 {
		t.Fatalf("unknown symbol should default to 100.0, got %v", got)
	}
}

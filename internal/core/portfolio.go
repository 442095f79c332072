package core

import (
	"math"
	"sort"
)

// Holding is one asset position built from investment transactions.
// Monetary fields stay in cents; prices and quantities are unit values.
type Holding struct {
	Asset         string
	Category      string
	Quantity      float64
	Invested      Money
	AveragePrice  float64
	CurrentPrice  float64
	CurrentValue  Money
	GainLoss      Money
	ROIPercentage float64
}

// Portfolio is the aggregated view over all holdings.
type Portfolio struct {
	Holdings           []Holding
	TotalInvested      Money
	CurrentValue       Money
	TotalGainLoss      Money
	TotalROIPercentage float64
}

// PriceFunc resolves the current unit price of an asset. The category is
// passed along because crypto symbols resolve differently from tickers.
type PriceFunc func(asset, category string) float64

// BuildPortfolio groups investment transactions by asset and values each
// position at the supplied price. Transactions without an asset symbol
// are plain investments and stay out of the portfolio. Pure: the price
// lookup is the only external input.
func BuildPortfolio(transactions []Transaction, priceFor PriceFunc) Portfolio {
	type position struct {
		category string
		quantity float64
		invested int64
	}
	byAsset := make(map[string]*position)
	for _, t := range transactions {
		if t.Type != Investment || t.Asset == "" {
			continue
		}
		p, ok := byAsset[t.Asset]
		if !ok {
			p = &position{category: t.Category}
			byAsset[t.Asset] = p
		}
		p.quantity += t.Quantity
		p.invested += t.Amount.Cents
	}

	var out Portfolio
	out.Holdings = make([]Holding, 0, len(byAsset))
	for asset, p := range byAsset {
		price := priceFor(asset, p.category)
		valueCents := int64(math.Round(p.quantity * price * 100))

		h := Holding{
			Asset:        asset,
			Category:     p.category,
			Quantity:     p.quantity,
			Invested:     Money{Cents: p.invested},
			CurrentPrice: price,
			CurrentValue: Money{Cents: valueCents},
			GainLoss:     Money{Cents: valueCents - p.invested},
		}
		if p.quantity > 0 {
			h.AveragePrice = float64(p.invested) / 100 / p.quantity
		}
		if p.invested > 0 {
			h.ROIPercentage = float64(h.GainLoss.Cents) / float64(p.invested) * 100
		}
		out.Holdings = append(out.Holdings, h)

		out.TotalInvested.Cents += p.invested
		out.CurrentValue.Cents += valueCents
	}
	sort.Slice(out.Holdings, func(i, j int) bool { return out.Holdings[i].Asset < out.Holdings[j].Asset })

	out.TotalGainLoss = Money{Cents: out.CurrentValue.Cents - out.TotalInvested.Cents}
	if out.TotalInvested.Cents > 0 {
		out.TotalROIPercentage = float64(out.TotalGainLoss.Cents) / float64(out.TotalInvested.Cents) * 100
	}
	return out
}

// fallbackAssetPrices backs portfolio valuation when the market data
// service is unreachable. Same role as the currency fallback table:
// estimates, never authoritative.
var fallbackAssetPrices = map[string]float64{
	"AAPL": 185.50, "GOOGL": 142.30, "MSFT": 378.90, "TSLA": 242.80,
	"AMZN": 155.20, "NVDA": 495.60, "META": 352.40, "NFLX": 485.30,
	"BTC": 43250.00, "ETH": 2280.50, "SOL": 98.75, "BNB": 315.20,
	"ADA": 0.52, "DOT": 6.85, "MATIC": 0.89, "AVAX": 36.40,
}

// FallbackPrice returns the static estimate for an asset, or 100.0 for
// symbols outside the table.
func FallbackPrice(asset, category string) float64 {
	if price, ok := fallbackAssetPrices[asset]; ok {
		return price
	}
	return 100.0
}

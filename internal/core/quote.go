package core

import (
	"hash/fnv"
	"time"
)

// Quote is one entry of the daily-quote catalog.
type Quote struct {
	Text     string
	Author   string
	Category string
}

// quoteCatalog is the built-in set of finance quotes. The daily pick is
// deterministic per calendar date so every caller sees the same quote
// without coordination.
var quoteCatalog = []Quote{
	{"The stock market is a device for transferring money from the impatient to the patient.", "Warren Buffett", "investor_wisdom"},
	{"Risk comes from not knowing what you're doing.", "Warren Buffett", "investor_wisdom"},
	{"Price is what you pay. Value is what you get.", "Warren Buffett", "investor_wisdom"},
	{"The best investment you can make is in yourself.", "Warren Buffett", "investor_wisdom"},
	{"The big money is not in the buying and selling, but in the waiting.", "Charlie Munger", "investor_wisdom"},
	{"Knowing what you don't know is more useful than being brilliant.", "Charlie Munger", "investor_wisdom"},
	{"Know what you own, and know why you own it.", "Peter Lynch", "investor_wisdom"},
	{"In the short run, the market is a voting machine. In the long run, it's a weighing machine.", "Benjamin Graham", "investor_wisdom"},
	{"The four most dangerous words in investing are: 'This time it's different.'", "Sir John Templeton", "investor_wisdom"},
	{"Financial freedom is available to those who learn about it and work for it.", "Robert Kiyosaki", "financial_freedom"},
	{"Money is a terrible master but an excellent servant.", "P.T. Barnum", "financial_freedom"},
	{"Time is more valuable than money. You can get more money, but you cannot get more time.", "Jim Rohn", "financial_freedom"},
	{"Do not save what is left after spending; instead spend what is left after saving.", "Warren Buffett", "discipline"},
	{"A budget is telling your money where to go instead of wondering where it went.", "Dave Ramsey", "discipline"},
	{"Beware of little expenses. A small leak will sink a great ship.", "Benjamin Franklin", "discipline"},
	{"It's not your salary that makes you rich, it's your spending habits.", "Charles A. Jaffe", "discipline"},
	{"Compound interest is the eighth wonder of the world. He who understands it, earns it.", "Albert Einstein", "discipline"},
	{"Formal education will make you a living; self-education will make you a fortune.", "Jim Rohn", "motivation"},
	{"Seek wealth, not money or status. Wealth is having assets that earn while you sleep.", "Naval Ravikant", "motivation"},
	{"An investment in knowledge pays the best interest.", "Benjamin Franklin", "mindset"},
	{"Never depend on a single income. Make investment to create a second source.", "Warren Buffett", "mindset"},
	{"Financial peace isn't the acquisition of stuff. It's learning to live on less than you make.", "Dave Ramsey", "mindset"},
}

// QuoteOfDay picks the quote for a calendar date. The same date always
// yields the same quote; offset selects alternates after a refresh
// (offset 0 is the default pick).
func QuoteOfDay(day Date, offset int) Quote {
	h := fnv.New32a()
	h.Write([]byte(day.Format("2006-01-02")))
	idx := (int(h.Sum32()) + offset) % len(quoteCatalog)
	if idx < 0 {
		idx += len(quoteCatalog)
	}
	return quoteCatalog[idx]
}

// CanRefreshQuote reports whether a user may request an alternate quote:
// one refresh per calendar day, premium access only. The comparison is
// against the current calendar date, not a rolling 24h window — a refresh
// at 23:59 permits another at 00:01 the next day.
func CanRefreshQuote(access AccessState, lastRefreshed Date, now time.Time) bool {
	if !access.CanAccess(FeatureQuoteRefresh) {
		return false
	}
	if lastRefreshed.IsEmpty() {
		return true
	}
	return !lastRefreshed.SameDay(DateOf(now))
}

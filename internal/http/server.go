package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"financehub/internal/cache"
	"financehub/internal/core"
	"financehub/internal/log"
	"financehub/internal/services"
)

// Deps are the collaborators the API server needs.
type Deps struct {
	Transactions *services.TransactionService
	Analytics    *services.AnalyticsService
	Recurring    *services.RecurringProcessor
	Quotes       *services.QuoteService
	Envelopes    *services.EnvelopeService
	Access       *core.Resolver
	Logger       *log.Logger
}

type Server struct {
	http.Server

	transactions *services.TransactionService
	analytics    *services.AnalyticsService
	recurring    *services.RecurringProcessor
	quotes       *services.QuoteService
	envelopes    *services.EnvelopeService
	access       *core.Resolver

	rateLimiter *rateLimiter

	// Analytics responses are memoized per query. Mutations bump the
	// generation, which is part of every cache key, so stale entries
	// simply stop being addressable and age out via TTL.
	trendsCache  *cache.LRUCache[[]core.PeriodBucket]
	summaryCache *cache.LRUCache[core.Summary]
	cacheManager *cache.Manager
	generation   atomic.Int64

	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		transactions: deps.Transactions,
		analytics:    deps.Analytics,
		recurring:    deps.Recurring,
		quotes:       deps.Quotes,
		envelopes:    deps.Envelopes,
		access:       deps.Access,
		rateLimiter:  newRateLimiter(),
		trendsCache:  cache.NewLRUCache[[]core.PeriodBucket](200, 5*time.Minute),
		summaryCache: cache.NewLRUCache[core.Summary](50, 5*time.Minute),
		cacheManager: cache.NewManager(),
		startedAt:    time.Now(),
	}
	if s.access == nil {
		s.access = core.NewResolver()
	}

	s.cacheManager.Register(s.trendsCache)
	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/trends", s.handleTrends)
	mux.HandleFunc("GET /api/categories/search", s.handleCategorySearch)
	mux.HandleFunc("GET /api/analytics/breakdown", s.handleBreakdown)
	mux.HandleFunc("GET /api/analytics/budget-growth", s.handleBudgetGrowth)
	mux.HandleFunc("GET /api/analytics/investment-growth", s.handleInvestmentGrowth)
	mux.HandleFunc("GET /api/portfolio", s.handlePortfolio)

	mux.HandleFunc("POST /api/envelopes", s.handleCreateEnvelope)
	mux.HandleFunc("GET /api/envelopes", s.handleListEnvelopes)
	mux.HandleFunc("DELETE /api/envelopes/{id}", s.handleDeleteEnvelope)
	mux.HandleFunc("POST /api/envelopes/{id}/allocate", s.handleAllocateToEnvelope)
	mux.HandleFunc("GET /api/envelopes/{id}/transactions", s.handleListEnvelopeTransactions)
	mux.HandleFunc("POST /api/envelopes/{id}/transactions", s.handleCreateEnvelopeTransaction)
	mux.HandleFunc("DELETE /api/envelopes/{id}/transactions/{txid}", s.handleDeleteEnvelopeTransaction)

	mux.HandleFunc("GET /api/access", s.handleAccessState)
	mux.HandleFunc("GET /api/quote", s.handleQuoteOfDay)
	mux.HandleFunc("POST /api/quote/refresh", s.handleQuoteRefresh)
	mux.HandleFunc("GET /api/currency/convert", s.handleCurrencyConvert)

	mux.HandleFunc("POST /api/recurring", s.handleCreateRecurringRule)
	mux.HandleFunc("GET /api/recurring", s.handleListRecurringRules)
	mux.HandleFunc("DELETE /api/recurring/{id}", s.handleDeactivateRecurringRule)

	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	var handler http.Handler = mux
	handler = s.withSecurity(handler)
	handler = log.AccessLog(logger)(handler)
	handler = log.RequestIDMiddleware(requestIDFromRequest)(handler)
	handler = log.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// withSecurity adds security headers and per-IP rate limiting.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(w, r)
	})
}

// Shutdown stops background routines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// invalidateAnalytics makes every cached analytics entry unreachable.
func (s *Server) invalidateAnalytics() {
	s.generation.Add(1)
}

func (s *Server) cacheKey(parts string) string {
	return fmt.Sprintf("g%d|%s", s.generation.Load(), parts)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"financehub/internal/core"
	"financehub/internal/storage"
)

// ErrRefreshNotAllowed is returned when a user may not refresh their daily
// quote, either for lack of premium access or because they already did today.
var ErrRefreshNotAllowed = errors.New("quote refresh not allowed")

// QuoteService serves the deterministic daily quote and handles premium
// refreshes. The per-day offset is persisted so all clients see the same
// quote after a refresh.
type QuoteService struct {
	storage *storage.SQLiteRepository
}

func NewQuoteService(storage *storage.SQLiteRepository) *QuoteService {
	return &QuoteService{storage: storage}
}

// QuoteOfDay returns the quote for a calendar day, persisting the initial
// offset the first time the day is seen.
func (s *QuoteService) QuoteOfDay(ctx context.Context, day core.Date) (core.Quote, error) {
	offset, err := s.storage.GetDailyQuoteOffset(ctx, day)
	if errors.Is(err, storage.ErrNotFound) {
		offset = 0
		if err := s.storage.SaveDailyQuoteOffset(ctx, day, offset); err != nil {
			return core.Quote{}, fmt.Errorf("persist daily quote: %w", err)
		}
	} else if err != nil {
		return core.Quote{}, err
	}

	return core.QuoteOfDay(day, offset), nil
}

// RefreshQuote picks the next alternate quote for today. Allowed once per
// calendar day and only with quote-refresh access.
func (s *QuoteService) RefreshQuote(ctx context.Context, access core.AccessState, email string, now time.Time) (core.Quote, error) {
	lastRefreshed, err := s.storage.GetLastQuoteRefresh(ctx, email)
	if err != nil {
		return core.Quote{}, err
	}

	if !core.CanRefreshQuote(access, lastRefreshed, now) {
		return core.Quote{}, ErrRefreshNotAllowed
	}

	today := core.DateOf(now)
	offset, err := s.storage.GetDailyQuoteOffset(ctx, today)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return core.Quote{}, err
	}

	offset++
	if err := s.storage.SaveDailyQuoteOffset(ctx, today, offset); err != nil {
		return core.Quote{}, fmt.Errorf("persist refreshed quote: %w", err)
	}
	if err := s.storage.SaveQuoteRefresh(ctx, email, today); err != nil {
		return core.Quote{}, fmt.Errorf("record quote refresh: %w", err)
	}

	slog.InfoContext(ctx, "Daily quote refreshed", "email", email, "offset", offset)
	return core.QuoteOfDay(today, offset), nil
}

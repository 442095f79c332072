package http

import (
	"net/http/httptest"
	"testing"

	"financehub/internal/core"
)

func TestParseAggregateQuery(t *testing.T) {
	tests := []struct {
		name   string
		target string
		check  func(t *testing.T, q core.Query)
	}{
		{
			name:   "granularity and direction",
			target: "/api/trends?granularity=month&direction=asc",
			check: func(t *testing.T, q core.Query) {
				if q.Granularity != core.ByMonth || q.Direction != core.Ascending {
					t.Fatalf("unexpected query: %+v", q)
				}
			},
		},
		{
			name:   "category defaults to exact match",
			target: "/api/trends?granularity=day&direction=desc&category=Groceries",
			check: func(t *testing.T, q core.Query) {
				if q.Category.Mode != core.MatchExact || q.Category.Term != "Groceries" {
					t.Fatalf("unexpected filter: %+v", q.Category)
				}
			},
		},
		{
			name:   "explicit substring match",
			target: "/api/trends?granularity=day&direction=desc&category=gro&match=substring",
			check: func(t *testing.T, q core.Query) {
				if q.Category.Mode != core.MatchSubstring {
					t.Fatalf("unexpected mode: %q", q.Category.Mode)
				}
			},
		},
		{
			name:   "range with explicit reference",
			target: "/api/trends?granularity=day&direction=asc&range=month&reference=2024-06-15",
			check: func(t *testing.T, q core.Query) {
				if q.Range.Kind != core.RangeMonth {
					t.Fatalf("unexpected range kind: %q", q.Range.Kind)
				}
				if q.Range.Reference.Format("2006-01-02") != "2024-06-15" {
					t.Fatalf("unexpected reference: %v", q.Range.Reference)
				}
			},
		},
		{
			name:   "windowed range without reference defaults to today",
			target: "/api/trends?granularity=day&direction=asc&range=week",
			check: func(t *testing.T, q core.Query) {
				if q.Range.Reference.IsEmpty() {
					t.Fatal("reference should default to the current day")
				}
			},
		},
		{
			name:   "range all needs no reference",
			target: "/api/trends?granularity=year&direction=asc&range=all",
			check: func(t *testing.T, q core.Query) {
				if !q.Range.Reference.IsEmpty() {
					t.Fatalf("range=all should not set a reference, got %v", q.Range.Reference)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := parseAggregateQuery(httptest.NewRequest("GET", tt.target, nil))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, q)
		})
	}
}

func TestParseAggregateQuery_BadReference(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/trends?granularity=day&direction=asc&range=month&reference=15-06-2024", nil)
	if _, err := parseAggregateQuery(req); err == nil {
		t.Fatal("expected error for malformed reference date")
	}
}

func TestUserFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-User-Email", "  user@example.com ")
	req.Header.Set("X-User-Premium", "true")
	req.Header.Set("X-User-Trial", "false")

	u := userFromRequest(req)
	if u.Email != "user@example.com" {
		t.Fatalf("email not trimmed: %q", u.Email)
	}
	if !u.IsAuthenticated || !u.IsPremium || u.IsOnTrial {
		t.Fatalf("unexpected attributes: %+v", u)
	}

	anon := userFromRequest(httptest.NewRequest("GET", "/", nil))
	if anon.IsAuthenticated {
		t.Fatal("request without headers should be anonymous")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if ip := clientIP(req); ip != "203.0.113.7" {
		t.Fatalf("expected first forwarded hop, got %q", ip)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Real-IP", "203.0.113.9")
	if ip := clientIP(req); ip != "203.0.113.9" {
		t.Fatalf("expected real-ip header, got %q", ip)
	}

	req = httptest.NewRequest("GET", "/", nil)
	if ip := clientIP(req); ip != req.RemoteAddr {
		t.Fatalf("expected remote addr fallback, got %q", ip)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  Groceries\x00\x1b "); got != "Groceries" {
		t.Fatalf("control characters should be stripped, got %q", got)
	}
}

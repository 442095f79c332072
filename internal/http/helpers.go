package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"financehub/internal/core"
)

// writeJSON encodes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError encodes a JSON error envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (core.Date, error) {
	parsedTime, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(parsedTime), nil
}

// parseAggregateQuery builds a core.Query from request parameters:
// granularity (day|month|year), direction (asc|desc), optional category
// with match (exact|substring), optional range (all|day|week|month|year)
// with reference date. Validation of the enums happens in core; this only
// maps parameter names onto the query struct.
func parseAggregateQuery(r *http.Request) (core.Query, error) {
	params := r.URL.Query()

	q := core.Query{
		Granularity: core.Granularity(strings.TrimSpace(params.Get("granularity"))),
		Direction:   core.SortDirection(strings.TrimSpace(params.Get("direction"))),
	}

	if term := strings.TrimSpace(params.Get("category")); term != "" {
		mode := core.MatchMode(strings.TrimSpace(params.Get("match")))
		if mode == "" {
			mode = core.MatchExact
		}
		q.Category = core.CategoryFilter{Mode: mode, Term: term}
	}

	if kind := strings.TrimSpace(params.Get("range")); kind != "" {
		q.Range.Kind = core.RangeKind(kind)
		if ref := strings.TrimSpace(params.Get("reference")); ref != "" {
			d, err := parseDate(ref)
			if err != nil {
				return core.Query{}, fmt.Errorf("invalid reference date %q", ref)
			}
			q.Range.Reference = d
		} else if kind != string(core.RangeAll) {
			q.Range.Reference = core.DateOf(time.Now())
		}
	}

	return q, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// userFromRequest reads the authentication snapshot forwarded by the auth
// proxy. Absent headers resolve to an unauthenticated guest.
func userFromRequest(r *http.Request) core.UserAttributes {
	email := strings.TrimSpace(r.Header.Get("X-User-Email"))
	return core.UserAttributes{
		IsAuthenticated: email != "" || r.Header.Get("X-Authenticated") == "true",
		Email:           email,
		Role:            strings.TrimSpace(r.Header.Get("X-User-Role")),
		IsPremium:       r.Header.Get("X-User-Premium") == "true",
		IsOnTrial:       r.Header.Get("X-User-Trial") == "true",
	}
}

// resolveAccess computes the access state for the current request.
func (s *Server) resolveAccess(r *http.Request) core.AccessState {
	return s.access.Resolve(userFromRequest(r))
}

// clientIP extracts the client address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// requestIDFromRequest reuses an upstream request ID or generates one.
func requestIDFromRequest(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-Request-ID")); id != "" {
		return id
	}
	return generateRequestID()
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

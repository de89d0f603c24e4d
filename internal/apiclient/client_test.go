package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeTokens implements TokenSource for tests
type fakeTokens struct {
	access  string
	refresh string
	cleared bool
	sets    int
}

func (f *fakeTokens) Tokens() (string, string, error) { return f.access, f.refresh, nil }
func (f *fakeTokens) SetAccess(a string) error        { f.access = a; f.sets++; return nil }
func (f *fakeTokens) Clear() error                    { f.cleared = true; return nil }

func TestDoAuthedRefreshesOnceThenRetries(t *testing.T) {
	var refreshCalls, apiCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/token/refresh/" {
			refreshCalls++
			json.NewEncoder(w).Encode(map[string]string{"access": "fresh"})
			return
		}
		apiCalls++
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "token expired"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer srv.Close()

	tk := &fakeTokens{access: "stale", refresh: "valid"}
	c := New(srv.URL, time.Second)
	c.Tokens = tk

	var out map[string]string
	if err := c.DoAuthed(context.Background(), http.MethodGet, "/api/bookings/", nil, &out); err != nil {
		t.Fatalf("expected success after refresh, got %v", err)
	}
	if refreshCalls != 1 {
		t.Fatalf("expected exactly one refresh call, got %d", refreshCalls)
	}
	if apiCalls != 2 {
		t.Fatalf("expected original + one retry, got %d calls", apiCalls)
	}
	if tk.access != "fresh" || tk.sets != 1 {
		t.Fatalf("access token not updated: %+v", tk)
	}
}

func TestDoAuthedSecondUnauthorizedLogsOut(t *testing.T) {
	var refreshCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/token/refresh/" {
			refreshCalls++
			json.NewEncoder(w).Encode(map[string]string{"access": "still-bad"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tk := &fakeTokens{access: "stale", refresh: "valid"}
	c := New(srv.URL, time.Second)
	c.Tokens = tk

	err := c.DoAuthed(context.Background(), http.MethodGet, "/api/bookings/", nil, nil)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if refreshCalls != 1 {
		t.Fatalf("expected exactly one refresh attempt, got %d", refreshCalls)
	}
	if !tk.cleared {
		t.Fatalf("expected session cleared on hard logout")
	}
}

func TestDoAuthedRefreshFailureLogsOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/token/refresh/" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "refresh expired"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tk := &fakeTokens{access: "stale", refresh: "dead"}
	c := New(srv.URL, time.Second)
	c.Tokens = tk

	err := c.DoAuthed(context.Background(), http.MethodGet, "/api/bookings/", nil, nil)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if !tk.cleared {
		t.Fatalf("expected session cleared when refresh fails")
	}
}

func TestDoAuthedWithoutRefreshTokenSurfaces401(t *testing.T) {
	var refreshCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/token/refresh/" {
			refreshCalls++
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "token not valid for any user"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second).WithToken("someone-elses-token")
	err := c.DoAuthed(context.Background(), http.MethodGet, "/api/bookings/", nil, nil)
	if errors.Is(err, ErrSessionExpired) {
		t.Fatalf("a fixed token must not trigger the logout cycle")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected the backend 401, got %v", err)
	}
	if apiErr.Detail != "token not valid for any user" {
		t.Fatalf("backend detail dropped: %+v", apiErr)
	}
	if refreshCalls != 0 {
		t.Fatalf("expected no refresh attempt without a refresh token, got %d", refreshCalls)
	}
}

func TestErrorDetailSurfacedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"detail": "booking is no longer open"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := c.Do(context.Background(), http.MethodPost, "/api/bids/", map[string]string{}, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Detail != "booking is no longer open" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestBuildQueryStringOmitsEmpty(t *testing.T) {
	got := BuildQueryString([]Param{
		{Key: "a", Value: 1},
		{Key: "b", Value: ""},
		{Key: "c", Value: nil},
		{Key: "e", Value: "x"},
	})
	if got != "?a=1&e=x" {
		t.Fatalf("expected ?a=1&e=x, got %q", got)
	}
	if BuildQueryString(nil) != "" {
		t.Fatalf("expected empty string for no params")
	}
}

func TestCombineSchedule(t *testing.T) {
	now := time.Date(2025, 6, 10, 14, 0, 0, 0, time.Local)

	ts, err := CombineSchedule("2025-06-11", "09:30", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Hour() != 9 || ts.Minute() != 30 || ts.Day() != 11 {
		t.Fatalf("bad combined time: %v", ts)
	}

	if _, err := CombineSchedule("2025-06-09", "09:30", now); err != ErrPastSchedule {
		t.Fatalf("expected ErrPastSchedule, got %v", err)
	}
	// same-day is allowed, the backend arbitrates the exact cutoff
	if _, err := CombineSchedule("2025-06-10", "08:00", now); err != nil {
		t.Fatalf("same-day schedule should pass local check, got %v", err)
	}
	if _, err := CombineSchedule("", "09:30", now); err != ErrMissingField {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestPlaceBidLocalValidation(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "bid1"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	if _, err := c.PlaceBid(context.Background(), PlaceBidRequest{BookingID: "b1", Amount: 0}); err == nil {
		t.Fatalf("expected validation error for zero amount")
	}
	if calls != 0 {
		t.Fatalf("invalid bid must not reach the network, got %d calls", calls)
	}
	if _, err := c.PlaceBid(context.Background(), PlaceBidRequest{BookingID: "b1", Amount: 380}); err != nil {
		t.Fatalf("valid bid failed: %v", err)
	}
}

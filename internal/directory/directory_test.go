package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/mediride/internal/apiclient"
	"github.com/example/mediride/internal/models"
)

func TestHospitalsCached(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode([]models.Hospital{{ID: "h1", Name: "Square Hospital"}})
	}))
	defer srv.Close()

	svc := &Service{
		Backend: apiclient.New(srv.URL, time.Second),
		Cache:   NewMemoryCache(time.Minute),
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		out, err := svc.Hospitals(ctx, "square")
		if err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}
		if len(out) != 1 || out[0].ID != "h1" {
			t.Fatalf("lookup %d: unexpected result %+v", i, out)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one backend call, got %d", calls)
	}

	// different search key misses the cache
	if _, err := svc.Hospitals(ctx, "dhaka"); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("expected second backend call for new key, got %d", calls)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(10 * time.Millisecond)
	ctx := context.Background()
	c.Set(ctx, "k", []byte("v"))
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before expiry")
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expected miss after expiry")
	}
}

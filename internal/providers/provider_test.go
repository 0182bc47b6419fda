package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/routesearch/internal/models"
	"github.com/dharmasatrya/routesearch/internal/ratelimit"
)

func testRequest() models.SearchRequest {
	arrival := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	maxPrice := decimal.NewFromInt(500)
	minLimit := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return models.SearchRequest{
		Origin:         "Moscow",
		Destination:    "Sochi",
		OriginDateTime: time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC),
		Filters: &models.SearchFilters{
			DestinationDateTime: &arrival,
			MaxPrice:            &maxPrice,
			MinTimeLimit:        &minLimit,
		},
	}
}

func TestNewProviderOneSearchRequest(t *testing.T) {
	req := testRequest()
	got := NewProviderOneSearchRequest(req)

	if got.From != "Moscow" || got.To != "Sochi" || !got.DateFrom.Equal(req.OriginDateTime) {
		t.Fatalf("unexpected mapping: %+v", got)
	}
	if got.DateTo == nil || !got.DateTo.Equal(*req.Filters.DestinationDateTime) {
		t.Fatalf("dateTo = %v", got.DateTo)
	}
	if got.MaxPrice == nil || !got.MaxPrice.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("maxPrice = %v", got.MaxPrice)
	}

	req.Filters = nil
	got = NewProviderOneSearchRequest(req)
	if got.DateTo != nil || got.MaxPrice != nil {
		t.Fatalf("optional fields should be empty without filters: %+v", got)
	}
}

func TestNewProviderTwoSearchRequest(t *testing.T) {
	req := testRequest()
	got := NewProviderTwoSearchRequest(req)

	if got.Departure != "Moscow" || got.Arrival != "Sochi" || !got.DepartureDate.Equal(req.OriginDateTime) {
		t.Fatalf("unexpected mapping: %+v", got)
	}
	if got.MinTimeLimit == nil || !got.MinTimeLimit.Equal(*req.Filters.MinTimeLimit) {
		t.Fatalf("minTimeLimit = %v", got.MinTimeLimit)
	}

	body, _ := json.Marshal(got)
	var raw map[string]any
	_ = json.Unmarshal(body, &raw)
	if _, ok := raw["maxPrice"]; ok {
		t.Fatal("provider two must not receive maxPrice")
	}
}

func TestProviderOneSearch(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/search" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"routes":[
			{"from":"Moscow","to":"Sochi","dateFrom":"2024-06-02T08:00:00","dateTo":"2024-06-02T11:30:00","price":120.50,"timeLimit":"2024-06-01T20:00:00"},
			{"from":"Moscow","to":"Sochi","dateFrom":"not a date","dateTo":"2024-06-02T11:30:00","price":99,"timeLimit":"2024-06-01T20:00:00"}
		]}`))
	}))
	defer srv.Close()

	p := NewProviderOne(Config{BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
	routes, err := p.Search(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotBody["from"] != "Moscow" || gotBody["to"] != "Sochi" {
		t.Fatalf("unexpected body: %v", gotBody)
	}
	if len(routes) != 1 {
		t.Fatalf("got %d routes, want 1 (malformed one skipped)", len(routes))
	}
	r := routes[0]
	if r.Origin != "Moscow" || r.Destination != "Sochi" {
		t.Fatalf("unexpected route: %+v", r)
	}
	if !r.Price.Equal(decimal.RequireFromString("120.5")) {
		t.Fatalf("price = %s", r.Price)
	}
	if r.TravelTime() != 3*time.Hour+30*time.Minute {
		t.Fatalf("travel time = %v", r.TravelTime())
	}
	if r.ID != "" {
		t.Fatal("adapters must not assign IDs")
	}
}

func TestProviderTwoSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"routes":[
			{"departure":{"point":"Moscow","date":"2024-06-02T09:00:00+03:00"},"arrival":{"point":"Sochi","date":"2024-06-02T12:00:00+03:00"},"price":"200","timeLimit":"2024-06-01T23:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	p := NewProviderTwo(Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	routes, err := p.Search(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("got %d routes", len(routes))
	}
	r := routes[0]
	if r.Origin != "Moscow" || r.Destination != "Sochi" || !r.Price.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected route: %+v", r)
	}
	if !r.OriginDateTime.Equal(time.Date(2024, 6, 2, 6, 0, 0, 0, time.UTC)) {
		t.Fatalf("origin time = %v", r.OriginDateTime)
	}
}

func TestSearchNonSuccessIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewProviderTwo(Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	_, err := p.Search(context.Background(), testRequest())

	var perr *ProviderError
	if !errors.As(err, &perr) || perr.Provider != "provider-two" {
		t.Fatalf("want ProviderError for provider-two, got %v", err)
	}
	var serr *StatusError
	if !errors.As(err, &serr) || serr.StatusCode != http.StatusBadGateway || serr.Body != "boom" {
		t.Fatalf("want StatusError 502, got %v", err)
	}
}

func TestIsAvailable(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/ping" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(int(status.Load()))
	}))

	p := NewProviderOne(Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	ctx := context.Background()

	if !p.IsAvailable(ctx) {
		t.Fatal("200 should be available")
	}
	status.Store(http.StatusNoContent)
	if p.IsAvailable(ctx) {
		t.Fatal("only 200 counts as available")
	}
	status.Store(http.StatusInternalServerError)
	if p.IsAvailable(ctx) {
		t.Fatal("500 should be unavailable")
	}

	srv.Close()
	if p.IsAvailable(ctx) {
		t.Fatal("unreachable provider should be unavailable")
	}
}

type countingProvider struct {
	calls atomic.Int32
}

func (c *countingProvider) Name() string                         { return "counting" }
func (c *countingProvider) IsAvailable(ctx context.Context) bool { return true }
func (c *countingProvider) Search(ctx context.Context, req models.SearchRequest) ([]models.Route, error) {
	c.calls.Add(1)
	return nil, nil
}

func TestRateLimitedBlocksWhenBucketEmpty(t *testing.T) {
	inner := &countingProvider{}
	limiter := ratelimit.NewProviderLimiter(ratelimit.Limit{RequestsPerSecond: 0.001, Burst: 1})
	p := NewRateLimited(inner, limiter)

	if _, err := p.Search(context.Background(), testRequest()); err != nil {
		t.Fatalf("first search: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Search(ctx, testRequest())

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("want ProviderError, got %v", err)
	}
	if inner.calls.Load() != 1 {
		t.Fatalf("inner provider called %d times, want 1", inner.calls.Load())
	}
	if !p.IsAvailable(ctx) {
		t.Fatal("probe should pass through")
	}
}

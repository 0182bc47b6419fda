// Package stats computes the summary figures returned with every search.
package stats

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/routesearch/internal/models"
)

// Summary holds the aggregate figures of a result set. MaxPrice is the
// price of the fastest route; callers depend on that pairing.
type Summary struct {
	MinPrice      decimal.Decimal
	MaxPrice      decimal.Decimal
	MinTravelTime int
	MaxTravelTime int
}

// Summarize returns zero prices and inverted travel-time sentinels
// (MaxInt32 / MinInt32) for an empty set.
func Summarize(routes []models.Route) Summary {
	s := Summary{
		MinPrice:      decimal.Zero,
		MaxPrice:      decimal.Zero,
		MinTravelTime: math.MaxInt32,
		MaxTravelTime: math.MinInt32,
	}
	if len(routes) == 0 {
		return s
	}

	cheapest := findCheapest(routes)
	fastest := findFastest(routes)
	s.MinPrice = cheapest.Price
	s.MaxPrice = fastest.Price

	for _, r := range routes {
		minutes := travelMinutes(r)
		if minutes < s.MinTravelTime {
			s.MinTravelTime = minutes
		}
		if minutes > s.MaxTravelTime {
			s.MaxTravelTime = minutes
		}
	}

	return s
}

// BuildResponse wraps an already filtered, ordered route set with its summary.
func BuildResponse(routes []models.Route) *models.SearchResponse {
	s := Summarize(routes)
	if routes == nil {
		routes = []models.Route{}
	}
	return &models.SearchResponse{
		Routes:        routes,
		MinPrice:      s.MinPrice,
		MaxPrice:      s.MaxPrice,
		MinTravelTime: s.MinTravelTime,
		MaxTravelTime: s.MaxTravelTime,
	}
}

func findCheapest(routes []models.Route) models.Route {
	best := routes[0]
	for _, r := range routes[1:] {
		if r.Price.LessThan(best.Price) {
			best = r
		}
	}
	return best
}

func findFastest(routes []models.Route) models.Route {
	best := routes[0]
	for _, r := range routes[1:] {
		if r.TravelTime() < best.TravelTime() {
			best = r
		}
	}
	return best
}

func travelMinutes(r models.Route) int {
	return int(r.TravelTime() / time.Minute)
}

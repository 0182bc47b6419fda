package filter

import (
	"sort"

	"github.com/google/uuid"

	"github.com/dharmasatrya/routesearch/internal/models"
)

// Merge concatenates provider batches in the given order, stamps every
// route with a fresh ID and sorts the result by ascending price. The sort
// is stable, so equal prices keep batch order.
func Merge(batches ...[]models.Route) []models.Route {
	total := 0
	for _, b := range batches {
		total += len(b)
	}

	merged := make([]models.Route, 0, total)
	for _, b := range batches {
		for _, r := range b {
			r.ID = uuid.NewString()
			merged = append(merged, r)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Price.LessThan(merged[j].Price)
	})

	return merged
}

// Apply keeps the routes that satisfy every filter that is set. Input
// order is preserved.
func Apply(routes []models.Route, filters *models.SearchFilters) []models.Route {
	result := make([]models.Route, 0, len(routes))

	for _, r := range routes {
		if filters == nil || matchesFilters(r, filters) {
			result = append(result, r)
		}
	}

	return result
}

func matchesFilters(r models.Route, filters *models.SearchFilters) bool {
	if filters.DestinationDateTime != nil && r.DestinationDateTime.After(*filters.DestinationDateTime) {
		return false
	}

	if filters.MaxPrice != nil && r.Price.GreaterThan(*filters.MaxPrice) {
		return false
	}

	if filters.MinTimeLimit != nil && r.TimeLimit.Before(*filters.MinTimeLimit) {
		return false
	}

	return true
}

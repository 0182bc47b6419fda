package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Route is the provider-independent representation of one offer.
type Route struct {
	ID                  string          `json:"id"`
	Origin              string          `json:"origin"`
	Destination         string          `json:"destination"`
	OriginDateTime      time.Time       `json:"originDateTime"`
	DestinationDateTime time.Time       `json:"destinationDateTime"`
	Price               decimal.Decimal `json:"price"`
	// TimeLimit is the moment after which the offer is no longer valid.
	TimeLimit time.Time `json:"timeLimit"`
}

func (r Route) TravelTime() time.Duration {
	return r.DestinationDateTime.Sub(r.OriginDateTime)
}

// CloneRoutes returns a copy of routes that shares no backing array with it.
func CloneRoutes(routes []Route) []Route {
	if routes == nil {
		return nil
	}
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

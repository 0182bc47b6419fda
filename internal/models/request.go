package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SearchFilters struct {
	DestinationDateTime *time.Time       `json:"destinationDateTime,omitempty"`
	MaxPrice            *decimal.Decimal `json:"maxPrice,omitempty"`
	MinTimeLimit        *time.Time       `json:"minTimeLimit,omitempty"`
	OnlyCached          *bool            `json:"onlyCached,omitempty"`
}

type SearchRequest struct {
	Origin         string         `json:"origin"`
	Destination    string         `json:"destination"`
	OriginDateTime time.Time      `json:"originDateTime"`
	Filters        *SearchFilters `json:"filters,omitempty"`
}

// OnlyCached reports whether the caller asked to be served from cache only.
func (r SearchRequest) OnlyCached() bool {
	return r.Filters != nil && r.Filters.OnlyCached != nil && *r.Filters.OnlyCached
}

func (r *SearchRequest) Validate() error {
	if r.Origin == "" {
		return ErrMissingOrigin
	}
	if r.Destination == "" {
		return ErrMissingDestination
	}
	if r.OriginDateTime.IsZero() {
		return ErrMissingOriginDateTime
	}
	return nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin         ValidationError = "origin is required"
	ErrMissingDestination    ValidationError = "destination is required"
	ErrMissingOriginDateTime ValidationError = "originDateTime is required"
)

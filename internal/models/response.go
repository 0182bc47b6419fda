package models

import "github.com/shopspring/decimal"

type SearchResponse struct {
	Routes []Route `json:"routes"`
	// MinPrice is the price of the cheapest route.
	MinPrice decimal.Decimal `json:"minPrice"`
	// MaxPrice is the price of the fastest route, not the highest price.
	MaxPrice decimal.Decimal `json:"maxPrice"`
	// Travel times are in whole minutes.
	MinTravelTime int `json:"minTravelTime"`
	MaxTravelTime int `json:"maxTravelTime"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

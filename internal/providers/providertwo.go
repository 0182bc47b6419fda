package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/routesearch/internal/models"
	"github.com/dharmasatrya/routesearch/internal/timezone"
)

// ProviderTwoSearchRequest is the search body provider two accepts. Of
// the filters it only understands the minimum offer expiry.
type ProviderTwoSearchRequest struct {
	Departure     string     `json:"departure"`
	Arrival       string     `json:"arrival"`
	DepartureDate time.Time  `json:"departureDate"`
	MinTimeLimit  *time.Time `json:"minTimeLimit,omitempty"`
}

func NewProviderTwoSearchRequest(req models.SearchRequest) ProviderTwoSearchRequest {
	out := ProviderTwoSearchRequest{
		Departure:     req.Origin,
		Arrival:       req.Destination,
		DepartureDate: req.OriginDateTime,
	}
	if req.Filters != nil {
		out.MinTimeLimit = req.Filters.MinTimeLimit
	}
	return out
}

type providerTwoResponse struct {
	Routes []ProviderTwoRoute `json:"routes"`
}

type ProviderTwoPoint struct {
	Point string `json:"point"`
	Date  string `json:"date"`
}

type ProviderTwoRoute struct {
	Departure ProviderTwoPoint `json:"departure"`
	Arrival   ProviderTwoPoint `json:"arrival"`
	Price     decimal.Decimal  `json:"price"`
	TimeLimit string           `json:"timeLimit"`
}

type ProviderTwo struct {
	transport transport
	loc       *time.Location
}

func NewProviderTwo(cfg Config) *ProviderTwo {
	return &ProviderTwo{
		transport: newTransport(cfg),
		loc:       cfg.Location,
	}
}

func (p *ProviderTwo) Name() string {
	return "provider-two"
}

func (p *ProviderTwo) IsAvailable(ctx context.Context) bool {
	return p.transport.ping(ctx)
}

func (p *ProviderTwo) Search(ctx context.Context, req models.SearchRequest) ([]models.Route, error) {
	var resp providerTwoResponse
	if err := p.transport.postJSON(ctx, searchPath, NewProviderTwoSearchRequest(req), &resp); err != nil {
		return nil, NewProviderError(p.Name(), err)
	}

	results := make([]models.Route, 0, len(resp.Routes))
	for _, r := range resp.Routes {
		route, err := r.normalize(p.loc)
		if err != nil {
			slog.WarnContext(ctx, "skipping malformed route", "provider", p.Name(), "error", err)
			continue
		}
		results = append(results, route)
	}

	return results, nil
}

func (r ProviderTwoRoute) normalize(loc *time.Location) (models.Route, error) {
	depTime, err := timezone.ParseTime(r.Departure.Date, loc)
	if err != nil {
		return models.Route{}, err
	}

	arrTime, err := timezone.ParseTime(r.Arrival.Date, loc)
	if err != nil {
		return models.Route{}, err
	}

	timeLimit, err := timezone.ParseTime(r.TimeLimit, loc)
	if err != nil {
		return models.Route{}, err
	}

	return models.Route{
		Origin:              r.Departure.Point,
		Destination:         r.Arrival.Point,
		OriginDateTime:      depTime,
		DestinationDateTime: arrTime,
		Price:               r.Price,
		TimeLimit:           timeLimit,
	}, nil
}

package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/routesearch/internal/models"
	"github.com/dharmasatrya/routesearch/internal/timezone"
)

// ProviderOneSearchRequest is the search body provider one accepts. It
// understands the arrival bound and price cap but not the offer expiry.
type ProviderOneSearchRequest struct {
	From     string           `json:"from"`
	To       string           `json:"to"`
	DateFrom time.Time        `json:"dateFrom"`
	DateTo   *time.Time       `json:"dateTo,omitempty"`
	MaxPrice *decimal.Decimal `json:"maxPrice,omitempty"`
}

func NewProviderOneSearchRequest(req models.SearchRequest) ProviderOneSearchRequest {
	out := ProviderOneSearchRequest{
		From:     req.Origin,
		To:       req.Destination,
		DateFrom: req.OriginDateTime,
	}
	if req.Filters != nil {
		out.DateTo = req.Filters.DestinationDateTime
		out.MaxPrice = req.Filters.MaxPrice
	}
	return out
}

type providerOneResponse struct {
	Routes []ProviderOneRoute `json:"routes"`
}

type ProviderOneRoute struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	DateFrom  string          `json:"dateFrom"`
	DateTo    string          `json:"dateTo"`
	Price     decimal.Decimal `json:"price"`
	TimeLimit string          `json:"timeLimit"`
}

type ProviderOne struct {
	transport transport
	loc       *time.Location
}

func NewProviderOne(cfg Config) *ProviderOne {
	return &ProviderOne{
		transport: newTransport(cfg),
		loc:       cfg.Location,
	}
}

func (p *ProviderOne) Name() string {
	return "provider-one"
}

func (p *ProviderOne) IsAvailable(ctx context.Context) bool {
	return p.transport.ping(ctx)
}

func (p *ProviderOne) Search(ctx context.Context, req models.SearchRequest) ([]models.Route, error) {
	var resp providerOneResponse
	if err := p.transport.postJSON(ctx, searchPath, NewProviderOneSearchRequest(req), &resp); err != nil {
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

func (r ProviderOneRoute) normalize(loc *time.Location) (models.Route, error) {
	dateFrom, err := timezone.ParseTime(r.DateFrom, loc)
	if err != nil {
		return models.Route{}, err
	}

	dateTo, err := timezone.ParseTime(r.DateTo, loc)
	if err != nil {
		return models.Route{}, err
	}

	timeLimit, err := timezone.ParseTime(r.TimeLimit, loc)
	if err != nil {
		return models.Route{}, err
	}

	return models.Route{
		Origin:              r.From,
		Destination:         r.To,
		OriginDateTime:      dateFrom,
		DestinationDateTime: dateTo,
		Price:               r.Price,
		TimeLimit:           timeLimit,
	}, nil
}

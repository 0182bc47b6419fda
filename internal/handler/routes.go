package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/routesearch/internal/aggregator"
	"github.com/dharmasatrya/routesearch/internal/models"
	"github.com/dharmasatrya/routesearch/internal/timezone"
)

// UnavailableMessage is the body returned when no provider can serve a search.
const UnavailableMessage = "Both providers are unavailable"

type Searcher interface {
	Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error)
	IsAvailable(ctx context.Context) bool
}

type RoutesHandler struct {
	searcher Searcher
	location *time.Location
}

// NewRoutesHandler builds the handler. Request timestamps without an offset
// are read in loc; nil means UTC.
func NewRoutesHandler(s Searcher, loc *time.Location) *RoutesHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &RoutesHandler{
		searcher: s,
		location: loc,
	}
}

// searchRequestBody binds timestamps as strings so offset-less ISO values
// are accepted alongside RFC3339.
type searchRequestBody struct {
	Origin         string             `json:"origin"`
	Destination    string             `json:"destination"`
	OriginDateTime string             `json:"originDateTime"`
	Filters        *searchFiltersBody `json:"filters"`
}

type searchFiltersBody struct {
	DestinationDateTime *string          `json:"destinationDateTime"`
	MaxPrice            *decimal.Decimal `json:"maxPrice"`
	MinTimeLimit        *string          `json:"minTimeLimit"`
	OnlyCached          *bool            `json:"onlyCached"`
}

func (b searchRequestBody) toSearchRequest(loc *time.Location) (models.SearchRequest, error) {
	req := models.SearchRequest{
		Origin:      b.Origin,
		Destination: b.Destination,
	}

	if b.OriginDateTime != "" {
		t, err := timezone.ParseTime(b.OriginDateTime, loc)
		if err != nil {
			return req, fmt.Errorf("invalid originDateTime: %w", err)
		}
		req.OriginDateTime = t
	}

	if b.Filters == nil {
		return req, nil
	}

	filters := &models.SearchFilters{
		MaxPrice:   b.Filters.MaxPrice,
		OnlyCached: b.Filters.OnlyCached,
	}
	var err error
	if filters.DestinationDateTime, err = parseOptionalTime(b.Filters.DestinationDateTime, loc); err != nil {
		return req, fmt.Errorf("invalid filters.destinationDateTime: %w", err)
	}
	if filters.MinTimeLimit, err = parseOptionalTime(b.Filters.MinTimeLimit, loc); err != nil {
		return req, fmt.Errorf("invalid filters.minTimeLimit: %w", err)
	}
	req.Filters = filters

	return req, nil
}

func parseOptionalTime(value *string, loc *time.Location) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := timezone.ParseTime(*value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *RoutesHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	var body searchRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	req, err := body.toSearchRequest(h.location)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	resp, err := h.searcher.Search(ctx, req)
	if errors.Is(err, aggregator.ErrServiceUnavailable) {
		return c.String(http.StatusInternalServerError, UnavailableMessage)
	}
	if err != nil {
		slog.ErrorContext(ctx, "route search failed",
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "search_error",
			Message: "Failed to search routes: " + err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *RoutesHandler) Ping(c echo.Context) error {
	if h.searcher.IsAvailable(c.Request().Context()) {
		return c.NoContent(http.StatusOK)
	}
	return c.NoContent(http.StatusInternalServerError)
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

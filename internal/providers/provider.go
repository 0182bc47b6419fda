package providers

import (
	"context"
	"fmt"

	"github.com/dharmasatrya/routesearch/internal/models"
)

// Provider is one upstream source of route offers. Adapters translate the
// canonical request into their own wire format and project replies back
// into models.Route.
type Provider interface {
	Name() string
	// IsAvailable never fails; any probe error reads as unavailable.
	IsAvailable(ctx context.Context) bool
	Search(ctx context.Context, req models.SearchRequest) ([]models.Route, error)
}

type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Err:      err,
	}
}

// StatusError reports a non-2xx reply from a provider.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

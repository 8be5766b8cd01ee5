package model

import (
	"context"
	"time"
)

// IndicatorRequest is the JSON body of POST and DELETE /indicators.
type IndicatorRequest struct {
	Name string `json:"name"`
}

// ErrorResponse is the JSON body returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CatalogResponse is the JSON body of GET /catalog.
type CatalogResponse struct {
	Version    string   `json:"version"`
	Indicators []string `json:"indicators"`
}

// OverlayRecord is one persisted row: an indicator and when it was last marked.
type OverlayRecord struct {
	Indicator string
	Updated   time.Time
}

// OverlayStore is the server-side overlay contract.
type OverlayStore interface {
	Add(ctx context.Context, indicator string) error
	Remove(ctx context.Context, indicator string) error
	List(ctx context.Context, now time.Time) ([]string, error)
}

// OverlayService is the client-side view of the same contract. The server
// decides "now" for listings.
type OverlayService interface {
	Add(ctx context.Context, indicator string) error
	Remove(ctx context.Context, indicator string) error
	List(ctx context.Context) ([]string, error)
}

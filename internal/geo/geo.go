// Package geo resolves the viewer's approximate position. The web client's
// browser geolocation is replaced server-side by IP geolocation; failures fall
// back to a configured default city upstream.
package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/citysense/citysense/internal/config"
)

var (
	// ErrPermissionDenied means the provider refused the lookup.
	ErrPermissionDenied = errors.New("geolocation permission denied")

	// ErrUnavailable means the provider could not produce a position.
	ErrUnavailable = errors.New("geolocation unavailable")
)

// Provider resolves the current position.
type Provider interface {
	Locate(ctx context.Context) (lat, lng float64, err error)
}

// IPLocator queries a public IP-geolocation JSON API.
type IPLocator struct {
	client   *resty.Client
	endpoint string
}

// NewIPLocator creates a locator for the configured endpoint.
func NewIPLocator(cfg config.GeoConfig) *IPLocator {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &IPLocator{client: client, endpoint: cfg.Endpoint}
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Locate resolves the server's public IP to coordinates.
func (l *IPLocator) Locate(ctx context.Context) (float64, float64, error) {
	var body ipAPIResponse
	resp, err := l.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get(l.endpoint)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode() == 403 || resp.StatusCode() == 429 {
		return 0, 0, fmt.Errorf("%w: status %d", ErrPermissionDenied, resp.StatusCode())
	}
	if resp.IsError() || body.Status != "success" {
		return 0, 0, fmt.Errorf("%w: status %d %s", ErrUnavailable, resp.StatusCode(), body.Message)
	}

	return body.Lat, body.Lon, nil
}

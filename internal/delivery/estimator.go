// Package delivery estimates delivery fees and travel times by querying a
// directions API for route distance and duration.
package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoRoute indicates the directions API found no route between the points.
var ErrNoRoute = errors.New("no route found")

// RoutingError reports a non-2xx response from the directions API.
type RoutingError struct {
	Status int
	Body   string
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("routing api returned %d: %s", e.Status, e.Body)
}

// Point is a geographic coordinate pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p Point) param() string {
	return fmt.Sprintf("%f,%f", p.Latitude, p.Longitude)
}

// Estimate is the result of one route lookup.
type Estimate struct {
	// DistanceKM is the route length in kilometers.
	DistanceKM float64 `json:"distance_km"`
	// Duration is the estimated travel time.
	Duration time.Duration `json:"duration"`
	// Fee is DistanceKM times the configured per-kilometer rate.
	Fee decimal.Decimal `json:"fee"`
}

// Estimator computes delivery estimates against a directions API.
type Estimator struct {
	RoutingURL string
	APIKey     string
	// FeePerKM is the per-kilometer delivery rate.
	FeePerKM   decimal.Decimal
	HTTPClient *http.Client
}

func (e *Estimator) client() *http.Client {
	if e.HTTPClient != nil {
		return e.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// Estimate queries the directions API for the route from origin to
// destination and derives the delivery fee from the distance.
func (e *Estimator) Estimate(ctx context.Context, origin, destination Point) (*Estimate, error) {
	q := url.Values{}
	q.Set("origin", origin.param())
	q.Set("destination", destination.param())
	q.Set("key", e.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.RoutingURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RoutingError{Status: resp.StatusCode, Body: string(raw)}
	}

	var decoded struct {
		Routes []struct {
			Legs []struct {
				Distance struct {
					Value float64 `json:"value"` // meters
				} `json:"distance"`
				Duration struct {
					Value float64 `json:"value"` // seconds
				} `json:"duration"`
			} `json:"legs"`
		} `json:"routes"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode routing response: %w", err)
	}
	if len(decoded.Routes) == 0 || len(decoded.Routes[0].Legs) == 0 {
		return nil, ErrNoRoute
	}

	leg := decoded.Routes[0].Legs[0]
	km := leg.Distance.Value / 1000
	fee := decimal.NewFromFloat(km).Mul(e.FeePerKM).Round(2)

	return &Estimate{
		DistanceKM: km,
		Duration:   time.Duration(leg.Duration.Value * float64(time.Second)),
		Fee:        fee,
	}, nil
}

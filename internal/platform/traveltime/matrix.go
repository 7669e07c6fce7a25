package traveltime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the Google Distance Matrix endpoint.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

	// DefaultTimeout bounds the single batched request. No retries.
	DefaultTimeout = 10 * time.Second

	// elementFallbackMinutes is assigned to a destination whose element
	// comes back failed inside an otherwise successful response.
	elementFallbackMinutes = 999
)

// GoogleMatrix issues one Distance Matrix request for all candidate
// hospitals. duration_in_traffic is preferred over duration when present.
type GoogleMatrix struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGoogleMatrix(apiKey, baseURL string, timeout time.Duration) *GoogleMatrix {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GoogleMatrix{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type matrixDuration struct {
	Value float64 `json:"value"` // seconds
}

type matrixElement struct {
	Status            string          `json:"status"`
	Duration          *matrixDuration `json:"duration"`
	DurationInTraffic *matrixDuration `json:"duration_in_traffic"`
}

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []matrixElement `json:"elements"`
	} `json:"rows"`
}

func (g *GoogleMatrix) Estimate(ctx context.Context, origin Coordinate, stops []Stop) (map[string]float64, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("distance matrix: no API key configured")
	}
	if len(stops) == 0 {
		return map[string]float64{}, nil
	}

	dests := make([]string, len(stops))
	for i, s := range stops {
		dests[i] = fmt.Sprintf("%f,%f", s.Latitude, s.Longitude)
	}
	q := url.Values{}
	q.Set("origins", fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude))
	q.Set("destinations", strings.Join(dests, "|"))
	q.Set("departure_time", "now")
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("distance matrix: build request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("distance matrix: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("distance matrix: status %d", resp.StatusCode)
	}

	var body matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("distance matrix: decode response: %w", err)
	}
	if body.Status != "OK" || len(body.Rows) == 0 {
		return nil, fmt.Errorf("distance matrix: response status %q", body.Status)
	}

	elements := body.Rows[0].Elements
	etas := make(map[string]float64, len(stops))
	for i, s := range stops {
		if i < len(elements) && elements[i].Status == "OK" {
			d := elements[i].DurationInTraffic
			if d == nil {
				d = elements[i].Duration
			}
			if d != nil {
				etas[s.ID] = d.Value / 60
				continue
			}
		}
		etas[s.ID] = elementFallbackMinutes
	}
	return etas, nil
}

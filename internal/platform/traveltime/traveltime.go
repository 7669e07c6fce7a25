// Package traveltime adapts external routing services into batched
// per-hospital ETA lookups. Estimators either return a complete map or an
// error; callers are expected to fail open to their own fallback estimates.
package traveltime

import "context"

// Coordinate is a WGS84 point.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Stop is one destination in a batched lookup, keyed by hospital ID.
type Stop struct {
	ID        string
	Latitude  float64
	Longitude float64
}

// Estimator resolves travel times, in minutes, from an origin to every stop
// in one batched call. Implementations must return either an entry for every
// stop or an error — never a partial map.
type Estimator interface {
	Estimate(ctx context.Context, origin Coordinate, stops []Stop) (map[string]float64, error)
}

// Static is a fixed Estimator for tests and offline operation.
type Static struct {
	Minutes map[string]float64
	Default float64
}

func (s *Static) Estimate(_ context.Context, _ Coordinate, stops []Stop) (map[string]float64, error) {
	out := make(map[string]float64, len(stops))
	for _, stop := range stops {
		if m, ok := s.Minutes[stop.ID]; ok {
			out[stop.ID] = m
		} else {
			out[stop.ID] = s.Default
		}
	}
	return out, nil
}

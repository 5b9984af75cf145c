package server

import (
	"github.com/urbanlens/mobilitydb/internal/store"
	"github.com/urbanlens/mobilitydb/pkg/analytics"
)

// PercentileResponse is the body of GET /api/v1/stats/percentile.
type PercentileResponse struct {
	Field      string  `json:"field"`
	Percentile float64 `json:"percentile"`
	Value      float64 `json:"value"`
	Count      int     `json:"count"`
}

// SummaryResponse is the body of GET /api/v1/stats/summary.
type SummaryResponse struct {
	Field  string  `json:"field"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	P95    float64 `json:"p95"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// OutliersResponse is the body of GET /api/v1/stats/outliers.
type OutliersResponse struct {
	Field    string              `json:"field"`
	Count    int                 `json:"count"`
	Outliers []analytics.Outlier `json:"outliers"`
}

// AnomaliesResponse is the body of GET /api/v1/stats/anomalies. Anomalies
// are ordered by descending z-score.
type AnomaliesResponse struct {
	Field     string              `json:"field"`
	Threshold float64             `json:"threshold"`
	Count     int                 `json:"count"`
	Anomalies []analytics.Anomaly `json:"anomalies"`
}

// DurationRangeResponse is the body of GET /api/v1/trips/duration-range.
type DurationRangeResponse struct {
	MinSeconds int64   `json:"min_seconds"`
	MaxSeconds int64   `json:"max_seconds"`
	Count      int     `json:"count"`
	TripIDs    []int64 `json:"trip_ids"`
}

// MovingAverageResponse is the body of GET /api/v1/trips/moving-average.
// Points[i] is the average of the window ending at the i-th trip.
type MovingAverageResponse struct {
	Field  string    `json:"field"`
	Window int       `json:"window"`
	Points []float64 `json:"points"`
}

// LocationCount pairs a location with its pickup traffic.
type LocationCount struct {
	LocationID int64           `json:"location_id"`
	Pickups    int             `json:"pickups"`
	Location   *store.Location `json:"location,omitempty"`
}

// TopLocationsResponse is the body of GET /api/v1/locations/top.
type TopLocationsResponse struct {
	K         int             `json:"k"`
	Locations []LocationCount `json:"locations"`
}

// VendorSearchResponse is the body of GET /api/v1/vendors/search. Matches
// lists, per vendor, the offsets where the query occurs in the vendor name.
type VendorSearchResponse struct {
	Query   string        `json:"query"`
	Matches []VendorMatch `json:"matches"`
}

// VendorMatch is one vendor whose name contains the search pattern.
type VendorMatch struct {
	Vendor  store.Vendor `json:"vendor"`
	Offsets []int        `json:"offsets"`
}

// ShortestPathResponse is the body of GET /api/v1/network/shortest-path.
// Seconds is the travel time of the fastest known route between the two
// locations; Reachable is false when no trips connect them.
type ShortestPathResponse struct {
	From      int64   `json:"from"`
	To        int64   `json:"to"`
	Reachable bool    `json:"reachable"`
	Seconds   float64 `json:"seconds"`
}

// ConnectivityResponse is the body of GET /api/v1/network/connected.
type ConnectivityResponse struct {
	A         int64 `json:"a"`
	B         int64 `json:"b"`
	Connected bool  `json:"connected"`
}

// TripListResponse is the body of GET /api/v1/trips.
type TripListResponse struct {
	Count int          `json:"count"`
	Trips []store.Trip `json:"trips"`
}

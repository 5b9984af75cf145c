package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"net/http/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/urbanlens/mobilitydb/internal/store"
	"github.com/urbanlens/mobilitydb/pkg/analytics"
	"github.com/urbanlens/mobilitydb/pkg/metrics"
)

// registerHTTPHandlers sets up the REST API route table.
func (s *Server) registerHTTPHandlers(mux *http.ServeMux) {
	// Debug endpoints (pprof)
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)

	// Accounts and sessions
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)

	// Dataset statistics
	mux.HandleFunc("GET /api/v1/stats/percentile", s.handlePercentile)
	mux.HandleFunc("GET /api/v1/stats/median", s.handleMedian)
	mux.HandleFunc("GET /api/v1/stats/summary", s.handleSummary)
	mux.HandleFunc("GET /api/v1/stats/outliers", s.handleOutliers)
	mux.HandleFunc("GET /api/v1/stats/anomalies", s.handleAnomalies)

	// Trips
	mux.HandleFunc("GET /api/v1/trips", s.handleListTrips)
	mux.HandleFunc("POST /api/v1/trips", s.handleCreateTrip)
	mux.HandleFunc("GET /api/v1/trips/duration-range", s.handleDurationRange)
	mux.HandleFunc("GET /api/v1/trips/moving-average", s.handleMovingAverage)
	mux.HandleFunc("GET /api/v1/trips/{id}", s.handleGetTrip)

	// Locations and vendors
	mux.HandleFunc("GET /api/v1/locations/top", s.handleTopLocations)
	mux.HandleFunc("GET /api/v1/vendors", s.handleListVendors)
	mux.HandleFunc("GET /api/v1/vendors/search", s.handleVendorSearch)

	// Location network
	mux.HandleFunc("GET /api/v1/network/shortest-path", s.handleShortestPath)
	mux.HandleFunc("GET /api/v1/network/connected", s.handleConnectivity)
}

// timeLayouts are the accepted formats for from/to query parameters.
var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseTimestamp(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		ts, err := time.Parse(layout, raw)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseWindow reads the optional from/to query parameters.
func parseWindow(r *http.Request) (store.TimeWindow, error) {
	var win store.TimeWindow
	if raw := r.URL.Query().Get("from"); raw != "" {
		ts, err := parseTimestamp(raw)
		if err != nil {
			return win, errors.New("invalid 'from' timestamp")
		}
		win.From = ts
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		ts, err := parseTimestamp(raw)
		if err != nil {
			return win, errors.New("invalid 'to' timestamp")
		}
		win.To = ts
	}
	return win, nil
}

// fieldValues resolves the field and window parameters into a numeric
// series. It writes the error response itself and returns ok=false when the
// request is malformed.
func (s *Server) fieldValues(w http.ResponseWriter, r *http.Request) (string, []float64, bool) {
	field := r.URL.Query().Get("field")
	if field == "" {
		field = "trip_duration"
	}
	win, err := parseWindow(r)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return "", nil, false
	}
	values, err := s.store.FieldValues(field, win)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return "", nil, false
	}
	return field, values, true
}

// --- Statistics handlers ---

func (s *Server) handlePercentile(w http.ResponseWriter, r *http.Request) {
	field, values, ok := s.fieldValues(w, r)
	if !ok {
		return
	}
	p, err := strconv.ParseFloat(r.URL.Query().Get("p"), 64)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "parameter 'p' must be a number between 0 and 100")
		return
	}

	value, err := analytics.Percentile(values, p)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.AnalyticsQueriesTotal.WithLabelValues("percentile").Inc()

	s.writeHTTPResponse(w, http.StatusOK, PercentileResponse{
		Field:      field,
		Percentile: p,
		Value:      value,
		Count:      len(values),
	})
}

func (s *Server) handleMedian(w http.ResponseWriter, r *http.Request) {
	field, values, ok := s.fieldValues(w, r)
	if !ok {
		return
	}
	value, err := analytics.Median(values)
	if err != nil {
		s.writeHTTPError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.AnalyticsQueriesTotal.WithLabelValues("median").Inc()

	s.writeHTTPResponse(w, http.StatusOK, PercentileResponse{
		Field:      field,
		Percentile: 50,
		Value:      value,
		Count:      len(values),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	field, values, ok := s.fieldValues(w, r)
	if !ok {
		return
	}
	metrics.AnalyticsQueriesTotal.WithLabelValues("summary").Inc()

	resp := SummaryResponse{Field: field, Count: len(values)}
	if len(values) > 0 {
		var sum float64
		for _, v := range values {
			sum += v
		}
		resp.Mean = sum / float64(len(values))

		resp.Median, _ = analytics.Median(values)
		resp.P25, _ = analytics.Percentile(values, 25)
		resp.P75, _ = analytics.Percentile(values, 75)
		resp.P95, _ = analytics.Percentile(values, 95)
		resp.Min, _ = analytics.Percentile(values, 0)
		resp.Max, _ = analytics.Percentile(values, 100)
	}
	s.writeHTTPResponse(w, http.StatusOK, resp)
}

func (s *Server) handleOutliers(w http.ResponseWriter, r *http.Request) {
	field, values, ok := s.fieldValues(w, r)
	if !ok {
		return
	}
	outliers := analytics.DetectOutliersIQR(values)
	metrics.AnalyticsQueriesTotal.WithLabelValues("outliers").Inc()

	s.writeHTTPResponse(w, http.StatusOK, OutliersResponse{
		Field:    field,
		Count:    len(outliers),
		Outliers: outliers,
	})
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	field, values, ok := s.fieldValues(w, r)
	if !ok {
		return
	}
	threshold := s.cfg.AnomalyThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil || t <= 0 {
			s.writeHTTPError(w, http.StatusBadRequest, "parameter 'threshold' must be a positive number")
			return
		}
		threshold = t
	}

	anomalies := analytics.DetectAnomaliesZScore(values, threshold)
	metrics.AnalyticsQueriesTotal.WithLabelValues("anomalies").Inc()

	s.writeHTTPResponse(w, http.StatusOK, AnomaliesResponse{
		Field:     field,
		Threshold: threshold,
		Count:     len(anomalies),
		Anomalies: anomalies,
	})
}

// --- Trip handlers ---

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeHTTPError(w, http.StatusBadRequest, "parameter 'limit' must be a positive integer")
			return
		}
		limit = n
	}

	win, err := parseWindow(r)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}

	trips := s.store.TripsInWindow(win)
	if len(trips) > limit {
		trips = trips[:limit]
	}
	s.writeHTTPResponse(w, http.StatusOK, TripListResponse{Count: len(trips), Trips: trips})
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var trip store.Trip
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON trip record")
		return
	}

	stored, err := s.store.InsertTrip(trip)
	if err != nil {
		s.writeHTTPError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if s.log != nil {
		if err := store.LogTrip(s.log, stored); err != nil {
			slog.Error("could not persist trip", "trip_id", stored.ID, "error", err)
		}
	}
	metrics.TripsTotal.Set(float64(s.store.TripCount()))

	s.writeHTTPResponse(w, http.StatusCreated, stored)
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "trip id must be an integer")
		return
	}

	trip, ok := s.cachedTrip(id)
	if !ok {
		s.writeHTTPError(w, http.StatusNotFound, "trip not found")
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, trip)
}

// handleDurationRange answers "which trips took between min and max seconds"
// through an ordered index built over the requested window.
func (s *Server) handleDurationRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	min, err := strconv.ParseInt(q.Get("min"), 10, 64)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "parameter 'min' must be an integer number of seconds")
		return
	}
	max, err := strconv.ParseInt(q.Get("max"), 10, 64)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "parameter 'max' must be an integer number of seconds")
		return
	}
	if min > max {
		s.writeHTTPError(w, http.StatusBadRequest, "'min' must not exceed 'max'")
		return
	}

	win, err := parseWindow(r)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}

	tree := analytics.NewSearchTree[int64, int64]()
	for _, t := range s.store.TripsInWindow(win) {
		tree.Insert(t.DurationSeconds, t.ID)
	}

	hits := tree.RangeQuery(min, max)
	ids := make([]int64, len(hits))
	for i, kv := range hits {
		ids[i] = kv.Value
	}
	metrics.AnalyticsQueriesTotal.WithLabelValues("duration_range").Inc()

	s.writeHTTPResponse(w, http.StatusOK, DurationRangeResponse{
		MinSeconds: min,
		MaxSeconds: max,
		Count:      len(ids),
		TripIDs:    ids,
	})
}

// handleMovingAverage smooths one trip metric over a sliding window, in
// pickup-time order.
func (s *Server) handleMovingAverage(w http.ResponseWriter, r *http.Request) {
	field, values, ok := s.fieldValues(w, r)
	if !ok {
		return
	}

	size := s.cfg.MovingAvgWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeHTTPError(w, http.StatusBadRequest, "parameter 'window' must be a positive integer")
			return
		}
		size = n
	}

	window, err := analytics.NewSlidingWindow(size)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}

	points := make([]float64, len(values))
	for i, v := range values {
		points[i] = window.Add(v)
	}
	metrics.AnalyticsQueriesTotal.WithLabelValues("moving_average").Inc()

	s.writeHTTPResponse(w, http.StatusOK, MovingAverageResponse{
		Field:  field,
		Window: size,
		Points: points,
	})
}

// --- Location and vendor handlers ---

func (s *Server) handleTopLocations(w http.ResponseWriter, r *http.Request) {
	k := 10
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeHTTPError(w, http.StatusBadRequest, "parameter 'k' must be a positive integer")
			return
		}
		k = n
	}

	win, err := parseWindow(r)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}

	counts := analytics.FrequencyMap(s.store.PickupLocationIDs(win))
	scored := make([]analytics.Scored[int64], 0, len(counts))
	for id, n := range counts {
		scored = append(scored, analytics.Scored[int64]{Value: float64(n), Payload: id})
	}

	top := analytics.FindTopK(scored, k)
	metrics.AnalyticsQueriesTotal.WithLabelValues("top_locations").Inc()

	resp := TopLocationsResponse{K: k, Locations: make([]LocationCount, len(top))}
	for i, entry := range top {
		lc := LocationCount{LocationID: entry.Payload, Pickups: int(entry.Value)}
		if loc, ok := s.store.LocationByID(entry.Payload); ok {
			lc.Location = &loc
		}
		resp.Locations[i] = lc
	}
	s.writeHTTPResponse(w, http.StatusOK, resp)
}

func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, s.store.Vendors())
}

// handleVendorSearch finds vendors whose name contains the query substring,
// case-insensitively, reporting every match position.
func (s *Server) handleVendorSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeHTTPError(w, http.StatusBadRequest, "parameter 'q' must not be empty")
		return
	}

	pattern := strings.ToLower(query)
	var matches []VendorMatch
	for _, v := range s.store.Vendors() {
		offsets := analytics.Search(strings.ToLower(v.Name), pattern)
		if len(offsets) > 0 {
			matches = append(matches, VendorMatch{Vendor: v, Offsets: offsets})
		}
	}
	metrics.AnalyticsQueriesTotal.WithLabelValues("vendor_search").Inc()

	s.writeHTTPResponse(w, http.StatusOK, VendorSearchResponse{Query: query, Matches: matches})
}

// --- Network handlers ---

// locationGraph builds the directed travel-time graph implied by the stored
// trips. Repeated trips between the same pair of zones collapse into one
// edge weighted by their mean duration, so one freak traffic jam does not
// define the route cost.
func (s *Server) locationGraph() *analytics.Graph[int64] {
	type pair struct{ from, to int64 }
	sums := make(map[pair]float64)
	counts := make(map[pair]int)
	for _, e := range s.store.TripEdges() {
		p := pair{e.Pickup, e.Dropoff}
		sums[p] += float64(e.DurationSeconds)
		counts[p]++
	}

	g := analytics.NewGraph[int64]()
	for p, sum := range sums {
		g.AddEdge(p.from, p.to, sum/float64(counts[p]))
	}
	return g
}

func (s *Server) handleShortestPath(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := strconv.ParseInt(q.Get("from"), 10, 64)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "parameter 'from' must be a location id")
		return
	}
	to, err := strconv.ParseInt(q.Get("to"), 10, 64)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "parameter 'to' must be a location id")
		return
	}

	dist := s.locationGraph().Dijkstra(from)
	metrics.AnalyticsQueriesTotal.WithLabelValues("shortest_path").Inc()

	d, ok := dist[to]
	resp := ShortestPathResponse{From: from, To: to}
	if ok && !math.IsInf(d, 1) {
		resp.Reachable = true
		resp.Seconds = d
	}
	s.writeHTTPResponse(w, http.StatusOK, resp)
}

func (s *Server) handleConnectivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, err := strconv.ParseInt(q.Get("a"), 10, 64)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "parameter 'a' must be a location id")
		return
	}
	b, err := strconv.ParseInt(q.Get("b"), 10, 64)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "parameter 'b' must be a location id")
		return
	}

	dsu := analytics.NewDisjointSet[int64]()
	for _, e := range s.store.TripEdges() {
		dsu.Union(e.Pickup, e.Dropoff)
	}
	metrics.AnalyticsQueriesTotal.WithLabelValues("connectivity").Inc()

	s.writeHTTPResponse(w, http.StatusOK, ConnectivityResponse{
		A:         a,
		B:         b,
		Connected: dsu.Connected(a, b),
	})
}

// --- HTTP response helpers ---

func (s *Server) writeHTTPResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeHTTPError(w http.ResponseWriter, statusCode int, message string) {
	s.writeHTTPResponse(w, statusCode, map[string]string{"error": message})
}

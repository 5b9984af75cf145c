// Package etl loads raw trip CSV exports into the store. The reader works in
// fixed-size chunks so multi-gigabyte datasets never have to fit in memory at
// once, and every accepted record is also appended to the persistence log so
// a restart does not require re-running the import.
package etl

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urbanlens/mobilitydb/internal/store"
	"github.com/urbanlens/mobilitydb/pkg/persistence"
)

// timeLayout is the datetime format of the source dataset.
const timeLayout = "2006-01-02 15:04:05"

// DefaultChunkSize is the number of rows parsed per batch.
const DefaultChunkSize = 10000

// maxTripDuration rejects trips of a day or longer; those rows are meter
// glitches in the source data, not real journeys.
const maxTripDuration = 86400

// Result summarizes one import run.
type Result struct {
	Trips     int
	Vendors   int
	Locations int
	Skipped   int
	Chunks    int
}

// Pipeline imports CSV rows into a store and, when a log writer is attached,
// into the persistence log.
type Pipeline struct {
	store     *store.Store
	log       *persistence.LogWriter
	chunkSize int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogWriter makes the pipeline append every accepted record to w.
func WithLogWriter(w *persistence.LogWriter) Option {
	return func(p *Pipeline) { p.log = w }
}

// WithChunkSize overrides the rows-per-batch count.
func WithChunkSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.chunkSize = n
		}
	}
}

// NewPipeline builds a pipeline that loads into s.
func NewPipeline(s *store.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:     s,
		chunkSize: DefaultChunkSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunFile imports the CSV file at path.
func (p *Pipeline) RunFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("etl: open %s: %w", path, err)
	}
	defer f.Close()

	p.logger.Info("starting import", "path", path, "chunk_size", p.chunkSize)
	return p.Run(f)
}

// Run imports CSV rows from r. The first row must be a header naming the
// dataset columns; unknown columns are ignored. Rows that fail validation
// are skipped and counted, they never abort the run.
func (p *Pipeline) Run(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return Result{}, fmt.Errorf("etl: read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"vendor_id", "pickup_datetime", "dropoff_datetime"} {
		if _, ok := cols[required]; !ok {
			return Result{}, fmt.Errorf("etl: missing required column %q", required)
		}
	}

	var res Result
	rows := make([][]string, 0, p.chunkSize)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("etl: read row: %w", err)
		}
		rows = append(rows, append([]string(nil), record...))

		if len(rows) == p.chunkSize {
			res.Chunks++
			p.loadChunk(cols, rows, &res)
			p.logger.Info("chunk loaded", "chunk", res.Chunks, "rows", len(rows))
			rows = rows[:0]
		}
	}
	if len(rows) > 0 {
		res.Chunks++
		p.loadChunk(cols, rows, &res)
		p.logger.Info("chunk loaded", "chunk", res.Chunks, "rows", len(rows))
	}

	if p.log != nil {
		if err := p.log.Flush(); err != nil {
			return res, fmt.Errorf("etl: flush log: %w", err)
		}
	}
	p.logger.Info("import complete",
		"trips", res.Trips, "vendors", res.Vendors,
		"locations", res.Locations, "skipped", res.Skipped)
	return res, nil
}

func (p *Pipeline) loadChunk(cols map[string]int, rows [][]string, res *Result) {
	for _, row := range rows {
		trip, vendorName, locs, err := p.transformRow(cols, row)
		if err != nil {
			res.Skipped++
			p.logger.Debug("row skipped", "reason", err)
			continue
		}

		if _, ok := p.store.VendorByID(trip.VendorID); !ok {
			v := store.Vendor{ID: trip.VendorID, Name: vendorName}
			if v.Name == "" {
				v.Name = fmt.Sprintf("Vendor %d", v.ID)
			}
			p.store.UpsertVendor(v)
			res.Vendors++
			if p.log != nil {
				if err := store.LogVendor(p.log, v); err != nil {
					p.logger.Error("log vendor failed", "error", err)
				}
			}
		}

		for _, l := range locs {
			if _, ok := p.store.LocationByID(l.ID); ok {
				continue
			}
			if err := p.store.UpsertLocation(l); err != nil {
				p.logger.Debug("location skipped", "reason", err)
				continue
			}
			res.Locations++
			if p.log != nil {
				if err := store.LogLocation(p.log, l); err != nil {
					p.logger.Error("log location failed", "error", err)
				}
			}
		}

		stored, err := p.store.InsertTrip(trip)
		if err != nil {
			res.Skipped++
			p.logger.Debug("row skipped", "reason", err)
			continue
		}
		res.Trips++
		if p.log != nil {
			if err := store.LogTrip(p.log, stored); err != nil {
				p.logger.Error("log trip failed", "error", err)
			}
		}
	}
}

// transformRow cleans a raw CSV row into a trip plus the side records it
// implies. It mirrors the dataset's integrity rules: both datetimes must
// parse, the duration must be positive and under a day, and a missing
// passenger count defaults to one.
func (p *Pipeline) transformRow(cols map[string]int, row []string) (store.Trip, string, []store.Location, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	pickupRaw, dropoffRaw := field("pickup_datetime"), field("dropoff_datetime")
	if pickupRaw == "" || dropoffRaw == "" {
		return store.Trip{}, "", nil, fmt.Errorf("missing pickup or dropoff datetime")
	}
	pickup, err := time.Parse(timeLayout, pickupRaw)
	if err != nil {
		return store.Trip{}, "", nil, fmt.Errorf("pickup_datetime: %w", err)
	}
	dropoff, err := time.Parse(timeLayout, dropoffRaw)
	if err != nil {
		return store.Trip{}, "", nil, fmt.Errorf("dropoff_datetime: %w", err)
	}

	vendorID, err := strconv.ParseInt(field("vendor_id"), 10, 64)
	if err != nil {
		return store.Trip{}, "", nil, fmt.Errorf("vendor_id: %w", err)
	}

	trip := store.Trip{
		VendorID:    vendorID,
		PickupTime:  pickup,
		DropoffTime: dropoff,
	}

	if raw := field("trip_duration"); raw != "" {
		trip.DurationSeconds, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return store.Trip{}, "", nil, fmt.Errorf("trip_duration: %w", err)
		}
	}
	trip.ComputeDuration()
	if trip.DurationSeconds <= 0 || trip.DurationSeconds >= maxTripDuration {
		return store.Trip{}, "", nil, fmt.Errorf("duration %ds outside (0, %d)", trip.DurationSeconds, maxTripDuration)
	}

	trip.PassengerCount = 1
	if raw := field("passenger_count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return store.Trip{}, "", nil, fmt.Errorf("passenger_count: %w", err)
		}
		if n <= 0 {
			return store.Trip{}, "", nil, fmt.Errorf("passenger_count %d not positive", n)
		}
		trip.PassengerCount = n
	}

	trip.StoreAndFwdFlag = field("store_and_fwd_flag")
	if trip.StoreAndFwdFlag == "" {
		trip.StoreAndFwdFlag = "N"
	}

	if raw := field("pickup_location_id"); raw != "" {
		trip.PickupLocationID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return store.Trip{}, "", nil, fmt.Errorf("pickup_location_id: %w", err)
		}
	}
	if raw := field("dropoff_location_id"); raw != "" {
		trip.DropoffLocationID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return store.Trip{}, "", nil, fmt.Errorf("dropoff_location_id: %w", err)
		}
	}
	if raw := field("trip_distance"); raw != "" {
		trip.Distance, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return store.Trip{}, "", nil, fmt.Errorf("trip_distance: %w", err)
		}
	}
	if raw := field("fare_amount"); raw != "" {
		trip.FareAmount, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return store.Trip{}, "", nil, fmt.Errorf("fare_amount: %w", err)
		}
	}

	var locs []store.Location
	if l, ok := parseLocation(trip.PickupLocationID, field("pickup_latitude"), field("pickup_longitude")); ok {
		locs = append(locs, l)
	}
	if l, ok := parseLocation(trip.DropoffLocationID, field("dropoff_latitude"), field("dropoff_longitude")); ok {
		locs = append(locs, l)
	}

	return trip, field("vendor_name"), locs, nil
}

func parseLocation(id int64, latRaw, lonRaw string) (store.Location, bool) {
	if id == 0 || latRaw == "" || lonRaw == "" {
		return store.Location{}, false
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return store.Location{}, false
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return store.Location{}, false
	}
	return store.Location{ID: id, Latitude: lat, Longitude: lon}, true
}

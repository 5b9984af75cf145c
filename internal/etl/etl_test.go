package etl

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/urbanlens/mobilitydb/internal/store"
	"github.com/urbanlens/mobilitydb/pkg/persistence"
)

const sampleCSV = `vendor_id,pickup_datetime,dropoff_datetime,passenger_count,pickup_location_id,pickup_latitude,pickup_longitude,dropoff_location_id,dropoff_latitude,dropoff_longitude,store_and_fwd_flag,trip_distance,fare_amount
1,2016-03-14 17:24:55,2016-03-14 17:32:30,1,100,40.767937,-73.982155,200,40.765602,-73.964630,N,1.5,8.50
2,2016-06-12 00:43:35,2016-06-12 00:54:38,1,100,40.767937,-73.982155,300,40.710087,-74.009041,N,3.1,12.00
1,2016-01-19 11:35:24,2016-01-19 12:10:48,,400,40.719971,-74.004326,200,40.765602,-73.964630,,5.2,21.75
`

func TestRunImportsRows(t *testing.T) {
	s := store.New()
	p := NewPipeline(s)

	res, err := p.Run(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if res.Trips != 3 || res.Skipped != 0 {
		t.Fatalf("trips=%d skipped=%d, want 3 and 0", res.Trips, res.Skipped)
	}
	if res.Vendors != 2 {
		t.Errorf("vendors = %d, want 2", res.Vendors)
	}
	// Locations 100, 200, 300, 400; repeats do not count twice.
	if res.Locations != 4 {
		t.Errorf("locations = %d, want 4", res.Locations)
	}

	// Synthesized vendor names follow the "Vendor N" convention.
	v, ok := s.VendorByID(2)
	if !ok || v.Name != "Vendor 2" {
		t.Errorf("VendorByID(2) = %+v, %v", v, ok)
	}

	// Missing passenger_count defaults to 1, missing flag to N.
	trip, ok := s.TripByID(3)
	if !ok {
		t.Fatal("trip 3 not stored")
	}
	if trip.PassengerCount != 1 || trip.StoreAndFwdFlag != "N" {
		t.Errorf("defaults not applied: %+v", trip)
	}
	if trip.DurationSeconds != 2124 {
		t.Errorf("derived duration = %d, want 2124", trip.DurationSeconds)
	}
}

func TestRunSkipsInvalidRows(t *testing.T) {
	csv := `vendor_id,pickup_datetime,dropoff_datetime,passenger_count
1,2016-03-14 17:24:55,2016-03-14 17:32:30,1
1,,2016-03-14 17:32:30,1
1,2016-03-14 17:24:55,2016-03-14 17:20:00,1
1,2016-03-01 00:00:00,2016-03-02 12:00:00,1
1,2016-03-14 17:24:55,2016-03-14 17:32:30,0
bad,2016-03-14 17:24:55,2016-03-14 17:32:30,1
`
	s := store.New()
	res, err := NewPipeline(s).Run(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if res.Trips != 1 {
		t.Errorf("trips = %d, want 1", res.Trips)
	}
	if res.Skipped != 5 {
		t.Errorf("skipped = %d, want 5 (missing datetime, negative duration, over a day, zero passengers, bad vendor)", res.Skipped)
	}
}

func TestRunMissingRequiredColumn(t *testing.T) {
	csv := "vendor_id,pickup_datetime\n1,2016-03-14 17:24:55\n"
	if _, err := NewPipeline(store.New()).Run(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for missing dropoff_datetime column")
	}
}

func TestChunkingCoversAllRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("vendor_id,pickup_datetime,dropoff_datetime,passenger_count\n")
	for i := 0; i < 25; i++ {
		b.WriteString("1,2016-03-14 17:00:00,2016-03-14 17:10:00,1\n")
	}

	s := store.New()
	res, err := NewPipeline(s, WithChunkSize(10)).Run(strings.NewReader(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	if res.Chunks != 3 {
		t.Errorf("chunks = %d, want 3", res.Chunks)
	}
	if res.Trips != 25 || s.TripCount() != 25 {
		t.Errorf("trips = %d, stored = %d, want 25", res.Trips, s.TripCount())
	}
}

func TestRunWritesPersistenceLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.log")
	w, err := persistence.NewLogWriter(path)
	if err != nil {
		t.Fatal(err)
	}

	s := store.New()
	res, err := NewPipeline(s, WithLogWriter(w)).Run(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	restored := store.New()
	n, err := store.LoadFromLog(restored, path)
	if err != nil {
		t.Fatal(err)
	}
	want := res.Trips + res.Vendors + res.Locations
	if n != want {
		t.Errorf("replayed %d records, want %d", n, want)
	}
	if restored.TripCount() != s.TripCount() {
		t.Errorf("restored %d trips, want %d", restored.TripCount(), s.TripCount())
	}
}

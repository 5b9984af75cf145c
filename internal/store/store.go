// Package store holds the in-memory mobility dataset: trips, vendors,
// locations and API users. It is the data source the HTTP layer reads plain
// numeric sequences from before handing them to pkg/analytics.
//
// The store guards itself with a single RWMutex because HTTP handlers hit it
// concurrently; the analytics containers it embeds stay single-threaded
// under that lock.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tidwall/btree"

	"github.com/urbanlens/mobilitydb/pkg/analytics"
)

// ErrUnknownField reports a metric field name the dataset does not expose.
var ErrUnknownField = errors.New("store: unknown field")

// vendorBuckets sizes the vendor lookup table. Vendor cardinality in the
// source data is tiny (single digits), so chains stay short even with a
// modest bucket count.
const vendorBuckets = 64

// tripKey orders the pickup-time index; the ID breaks ties between trips
// starting in the same second.
type tripKey struct {
	pickup time.Time
	id     int64
}

func tripKeyLess(a, b tripKey) bool {
	if !a.pickup.Equal(b.pickup) {
		return a.pickup.Before(b.pickup)
	}
	return a.id < b.id
}

// TimeWindow bounds a query to pickup times in [From, To]. Zero fields are
// unbounded.
type TimeWindow struct {
	From time.Time
	To   time.Time
}

// Contains reports whether ts falls inside the window.
func (w TimeWindow) Contains(ts time.Time) bool {
	if !w.From.IsZero() && ts.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && ts.After(w.To) {
		return false
	}
	return true
}

// TripEdge is the graph-building view of a trip: its endpoints and duration.
type TripEdge struct {
	Pickup          int64
	Dropoff         int64
	DurationSeconds int64
}

// Store is the in-memory dataset. Safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	trips    map[int64]Trip
	byPickup *btree.BTreeG[tripKey]
	nextID   int64

	vendors    *analytics.HashTable[int64, Vendor]
	vendorList []Vendor

	locations map[int64]Location
	users     map[string]User
}

// New returns an empty store.
func New() *Store {
	vendors, _ := analytics.NewHashTable[int64, Vendor](vendorBuckets, analytics.HashInt)
	return &Store{
		trips:     make(map[int64]Trip),
		byPickup:  btree.NewBTreeG(tripKeyLess),
		vendors:   vendors,
		locations: make(map[int64]Location),
		users:     make(map[string]User),
	}
}

// InsertTrip validates and stores a trip, assigning an ID when none is set,
// and returns the stored record. Validation failures leave the store
// untouched.
func (s *Store) InsertTrip(t Trip) (Trip, error) {
	t.ComputeDuration()
	if err := t.Validate(); err != nil {
		return Trip{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == 0 {
		s.nextID++
		t.ID = s.nextID
	} else if t.ID > s.nextID {
		s.nextID = t.ID
	}
	if _, exists := s.trips[t.ID]; exists {
		return Trip{}, fmt.Errorf("%w: trip %d already exists", ErrInvalidRecord, t.ID)
	}

	s.trips[t.ID] = t
	s.byPickup.Set(tripKey{pickup: t.PickupTime, id: t.ID})
	return t, nil
}

// TripByID returns a trip by its identifier.
func (s *Store) TripByID(id int64) (Trip, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trips[id]
	return t, ok
}

// TripCount reports the number of stored trips.
func (s *Store) TripCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trips)
}

// Trips returns up to limit trips ordered by pickup time. limit <= 0 means
// no limit.
func (s *Store) Trips(limit int) []Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Trip
	s.byPickup.Scan(func(k tripKey) bool {
		if limit > 0 && len(out) >= limit {
			return false
		}
		out = append(out, s.trips[k.id])
		return true
	})
	return out
}

// TripsInWindow returns the trips whose pickup time falls inside win,
// ordered by pickup time. The scan starts at the window's lower bound via
// the B-tree index instead of walking the whole dataset.
func (s *Store) TripsInWindow(win TimeWindow) []Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Trip
	iter := func(k tripKey) bool {
		if !win.To.IsZero() && k.pickup.After(win.To) {
			return false
		}
		out = append(out, s.trips[k.id])
		return true
	}

	if win.From.IsZero() {
		s.byPickup.Scan(iter)
	} else {
		s.byPickup.Ascend(tripKey{pickup: win.From}, iter)
	}
	return out
}

// FieldValues extracts one numeric metric across the trips in win, in
// pickup-time order. Supported fields: trip_duration, trip_distance,
// fare_amount, passenger_count.
func (s *Store) FieldValues(field string, win TimeWindow) ([]float64, error) {
	var extract func(Trip) float64
	switch field {
	case "trip_duration":
		extract = func(t Trip) float64 { return float64(t.DurationSeconds) }
	case "trip_distance":
		extract = func(t Trip) float64 { return t.Distance }
	case "fare_amount":
		extract = func(t Trip) float64 { return t.FareAmount }
	case "passenger_count":
		extract = func(t Trip) float64 { return float64(t.PassengerCount) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	trips := s.TripsInWindow(win)
	values := make([]float64, len(trips))
	for i, t := range trips {
		values[i] = extract(t)
	}
	return values, nil
}

// PickupLocationIDs returns the pickup location of every trip in win, in
// pickup-time order. Feed it to analytics.FrequencyMap for traffic counts.
func (s *Store) PickupLocationIDs(win TimeWindow) []int64 {
	trips := s.TripsInWindow(win)
	ids := make([]int64, len(trips))
	for i, t := range trips {
		ids[i] = t.PickupLocationID
	}
	return ids
}

// TripEdges returns the endpoint pairs of every trip, for building the
// location graph.
func (s *Store) TripEdges() []TripEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TripEdge, 0, len(s.trips))
	for _, t := range s.trips {
		out = append(out, TripEdge{
			Pickup:          t.PickupLocationID,
			Dropoff:         t.DropoffLocationID,
			DurationSeconds: t.DurationSeconds,
		})
	}
	return out
}

// UpsertVendor stores a vendor, overwriting any previous record with the
// same ID.
func (s *Store) UpsertVendor(v Vendor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.vendors.Get(v.ID); exists {
		for i := range s.vendorList {
			if s.vendorList[i].ID == v.ID {
				s.vendorList[i] = v
				break
			}
		}
	} else {
		s.vendorList = append(s.vendorList, v)
	}
	s.vendors.Insert(v.ID, v)
}

// VendorByID resolves a vendor through the chained hash table.
func (s *Store) VendorByID(id int64) (Vendor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vendors.Get(id)
}

// Vendors returns all vendors in first-seen order.
func (s *Store) Vendors() []Vendor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Vendor(nil), s.vendorList...)
}

// VendorCount reports the number of distinct vendors.
func (s *Store) VendorCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vendors.Len()
}

// UpsertLocation validates and stores a location.
func (s *Store) UpsertLocation(l Location) error {
	if err := l.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = l
	return nil
}

// LocationByID returns a location by its identifier.
func (s *Store) LocationByID(id int64) (Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.locations[id]
	return l, ok
}

// LocationCount reports the number of stored locations.
func (s *Store) LocationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.locations)
}

// PutUser stores an API user, overwriting any existing account with the
// same username.
func (s *Store) PutUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Username] = u
}

// UserByName returns the account registered under username.
func (s *Store) UserByName(username string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	return u, ok
}

// UserCount reports the number of registered accounts.
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

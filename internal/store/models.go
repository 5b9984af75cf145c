package store

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRecord reports a record that fails the dataset's integrity
// checks. It is always returned wrapped with the failing field.
var ErrInvalidRecord = errors.New("store: invalid record")

// Trip is one taxi trip. Field names follow the source dataset columns.
type Trip struct {
	ID                int64     `json:"trip_id"`
	VendorID          int64     `json:"vendor_id"`
	PickupLocationID  int64     `json:"pickup_location_id"`
	DropoffLocationID int64     `json:"dropoff_location_id"`
	PickupTime        time.Time `json:"pickup_datetime"`
	DropoffTime       time.Time `json:"dropoff_datetime"`
	PassengerCount    int       `json:"passenger_count"`
	Distance          float64   `json:"trip_distance"`
	StoreAndFwdFlag   string    `json:"store_and_fwd_flag"`
	FareAmount        float64   `json:"fare_amount"`
	DurationSeconds   int64     `json:"trip_duration"`
}

// ComputeDuration derives DurationSeconds from the pickup/dropoff pair when
// it was not supplied, and returns the resulting value.
func (t *Trip) ComputeDuration() int64 {
	if t.DurationSeconds == 0 && !t.PickupTime.IsZero() && !t.DropoffTime.IsZero() {
		t.DurationSeconds = int64(t.DropoffTime.Sub(t.PickupTime) / time.Second)
	}
	return t.DurationSeconds
}

// Validate enforces the dataset's integrity rules.
func (t *Trip) Validate() error {
	if t.PickupTime.IsZero() || t.DropoffTime.IsZero() {
		return fmt.Errorf("%w: trip %d missing pickup or dropoff datetime", ErrInvalidRecord, t.ID)
	}
	if !t.PickupTime.Before(t.DropoffTime) {
		return fmt.Errorf("%w: trip %d pickup must precede dropoff", ErrInvalidRecord, t.ID)
	}
	if t.PassengerCount < 0 {
		return fmt.Errorf("%w: trip %d negative passenger count", ErrInvalidRecord, t.ID)
	}
	if t.DurationSeconds <= 0 {
		return fmt.Errorf("%w: trip %d non-positive duration", ErrInvalidRecord, t.ID)
	}
	if t.StoreAndFwdFlag != "Y" && t.StoreAndFwdFlag != "N" {
		return fmt.Errorf("%w: trip %d store_and_fwd_flag must be Y or N", ErrInvalidRecord, t.ID)
	}
	return nil
}

// Vendor is a fleet operator.
type Vendor struct {
	ID   int64  `json:"vendor_id"`
	Name string `json:"vendor_name"`
}

// Location is a pickup/dropoff zone centroid.
type Location struct {
	ID        int64   `json:"location_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate enforces coordinate ranges.
func (l *Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: location %d latitude %v outside [-90,90]", ErrInvalidRecord, l.ID, l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: location %d longitude %v outside [-180,180]", ErrInvalidRecord, l.ID, l.Longitude)
	}
	return nil
}

// User is an API account. PasswordHash is a bcrypt digest; the clear
// password never reaches the store.
type User struct {
	Username     string `json:"username"`
	PasswordHash []byte `json:"password_hash"`
}

package store

import (
	"encoding/json"
	"fmt"

	"github.com/urbanlens/mobilitydb/pkg/persistence"
)

// LogTrip appends a trip record frame to the log.
func LogTrip(w *persistence.LogWriter, t Trip) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return w.Append(persistence.OpTrip, payload)
}

// LogVendor appends a vendor record frame to the log.
func LogVendor(w *persistence.LogWriter, v Vendor) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.Append(persistence.OpVendor, payload)
}

// LogLocation appends a location record frame to the log.
func LogLocation(w *persistence.LogWriter, l Location) error {
	payload, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return w.Append(persistence.OpLocation, payload)
}

// LogUser appends a user record frame to the log.
func LogUser(w *persistence.LogWriter, u User) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return w.Append(persistence.OpUser, payload)
}

// LoadFromLog rebuilds the store from the trip log at path and reports how
// many records were applied. Records were validated before they were logged,
// so a record that fails to apply now means the log itself is damaged.
func LoadFromLog(s *Store, path string) (int, error) {
	return persistence.Replay(path, func(op byte, payload []byte) error {
		switch op {
		case persistence.OpTrip:
			var t Trip
			if err := json.Unmarshal(payload, &t); err != nil {
				return fmt.Errorf("trip record: %w", err)
			}
			if _, err := s.InsertTrip(t); err != nil {
				return fmt.Errorf("trip record: %w", err)
			}
		case persistence.OpVendor:
			var v Vendor
			if err := json.Unmarshal(payload, &v); err != nil {
				return fmt.Errorf("vendor record: %w", err)
			}
			s.UpsertVendor(v)
		case persistence.OpLocation:
			var l Location
			if err := json.Unmarshal(payload, &l); err != nil {
				return fmt.Errorf("location record: %w", err)
			}
			if err := s.UpsertLocation(l); err != nil {
				return err
			}
		case persistence.OpUser:
			var u User
			if err := json.Unmarshal(payload, &u); err != nil {
				return fmt.Errorf("user record: %w", err)
			}
			s.PutUser(u)
		default:
			return fmt.Errorf("unknown record opcode 0x%02x", op)
		}
		return nil
	})
}

package model

import (
	"fmt"
	"time"
)

// MaxConnectionTime caps how long a single session may stay connected.
// Longer sessions are truncated at ingest.
const MaxConnectionTime = 24 * time.Hour

// Session is one EV's presence interval at a charging station.
type Session struct {
	ID         string
	StationID  string
	Arrival    time.Time
	Departure  time.Time
	MaxPowerKW float64
	DemandKWh  float64
}

// Validate checks the relational integrity of the session record.
func (s Session) Validate() error {
	if !s.Arrival.Before(s.Departure) {
		return fmt.Errorf("session %s: arrival %v not before departure %v", s.ID, s.Arrival, s.Departure)
	}
	if s.MaxPowerKW <= 0 {
		return fmt.Errorf("session %s: max charging power must be positive", s.ID)
	}
	if s.DemandKWh < 0 {
		return fmt.Errorf("session %s: charging demand must not be negative", s.ID)
	}
	return nil
}

// ActiveAt reports whether the EV is connected at time t. The departure
// step itself is excluded.
func (s Session) ActiveAt(t time.Time) bool {
	return !t.Before(s.Arrival) && t.Before(s.Departure)
}

// Window returns the timeline index range [lo, hi) covered by the session.
func (s Session) Window(tl Timeline) (lo, hi int) {
	return tl.IndexRange(s.Arrival, s.Departure)
}

// CapDeparture truncates the session at MaxConnectionTime after arrival.
func (s Session) CapDeparture() Session {
	if s.Departure.Sub(s.Arrival) > MaxConnectionTime {
		s.Departure = s.Arrival.Add(MaxConnectionTime)
	}
	return s
}

// Stations returns the distinct station IDs of the sessions in first-seen
// order.
func Stations(sessions []Session) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range sessions {
		if !seen[s.StationID] {
			seen[s.StationID] = true
			out = append(out, s.StationID)
		}
	}
	return out
}

// FilterStation returns the sessions belonging to the given station.
func FilterStation(sessions []Session, stationID string) []Session {
	var out []Session
	for _, s := range sessions {
		if s.StationID == stationID {
			out = append(out, s)
		}
	}
	return out
}

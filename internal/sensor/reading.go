// Package sensor provides the synthetic machine sensor snapshot, the
// generator that produces it, and the static descriptors of the four
// measured fields (temperature, vibration, current, voltage).
package sensor

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/relvacode/iso8601"
)

// TimeLayout is the wire format of Snapshot.Timestamp: UTC with
// millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Snapshot is one instantaneous set of the four measured values.
type Snapshot struct {
	Temperature float64   // °C
	Vibration   float64   // mm/s
	Current     float64   // A
	Voltage     float64   // V
	Timestamp   time.Time // time the values were sampled
}

type wireSnapshot struct {
	Temperature float64 `json:"temperature"`
	Vibration   float64 `json:"vibration"`
	Current     float64 `json:"current"`
	Voltage     float64 `json:"voltage"`
	Timestamp   string  `json:"timestamp"`
}

// Value returns the measurement described by f.
func (s Snapshot) Value(f Field) float64 {
	switch f.Kind {
	case Temperature:
		return s.Temperature
	case Vibration:
		return s.Vibration
	case Current:
		return s.Current
	case Voltage:
		return s.Voltage
	}
	return 0
}

// MarshalJSON encodes the snapshot as
// {temperature, vibration, current, voltage, timestamp}.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSnapshot{
		Temperature: s.Temperature,
		Vibration:   s.Vibration,
		Current:     s.Current,
		Voltage:     s.Voltage,
		Timestamp:   s.Timestamp.UTC().Format(TimeLayout),
	})
}

// UnmarshalJSON decodes a snapshot. Any ISO-8601 timestamp is accepted.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	ts, err := iso8601.ParseString(w.Timestamp)
	if err != nil {
		return fmt.Errorf("snapshot timestamp %q: %w", w.Timestamp, err)
	}
	*s = Snapshot{
		Temperature: w.Temperature,
		Vibration:   w.Vibration,
		Current:     w.Current,
		Voltage:     w.Voltage,
		Timestamp:   ts,
	}
	return nil
}

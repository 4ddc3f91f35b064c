// ABOUTME: Record model for one blood pressure, pulse, and weight measurement.
// ABOUTME: MeasuredAt is kept as the caller's string and ordered lexicographically.
package models

import "time"

// MeasuredAtLayout is the format used when a measurement time is defaulted to now.
// Lexicographic ordering of records is only chronological when every caller uses a
// fixed zero-padded layout like this one.
const MeasuredAtLayout = "2006-01-02 15:04:05"

// Record is a single measurement event belonging to one Profile.
type Record struct {
	ID         int64   `json:"id"`
	ProfileID  int64   `json:"profile_id"`
	Systolic   int     `json:"systolic"`
	Diastolic  int     `json:"diastolic"`
	Pulse      int     `json:"pulse"`
	Weight     float64 `json:"weight"`
	MeasuredAt string  `json:"measured_at"`
	Position   *string `json:"position,omitempty"`
}

// NewRecord creates a Record for the given profile. The ID is assigned by storage.
func NewRecord(profileID int64, systolic, diastolic, pulse int, weight float64, measuredAt string) *Record {
	return &Record{
		ProfileID:  profileID,
		Systolic:   systolic,
		Diastolic:  diastolic,
		Pulse:      pulse,
		Weight:     weight,
		MeasuredAt: measuredAt,
	}
}

// WithPosition sets the measurement posture or location.
func (r *Record) WithPosition(position string) *Record {
	r.Position = &position
	return r
}

// FormatMeasuredAt renders t in MeasuredAtLayout.
func FormatMeasuredAt(t time.Time) string {
	return t.Format(MeasuredAtLayout)
}

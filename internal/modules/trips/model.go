// README: Trip record, status definitions, and the immutable normalized table.
package trips

import (
	"database/sql"
	"slices"
)

type Status string

const (
	StatusCompleted      Status = "COMPLETED"
	StatusCanceled       Status = "CANCELED"
	StatusDriverCanceled Status = "DRIVER_CANCELED"
)

// IsCanceled reports whether the trip never ran, which voids its in-trip metrics.
func (s Status) IsCanceled() bool {
	return s == StatusCanceled || s == StatusDriverCanceled
}

// RawTrip is one export row before any parsing. Fields hold the source text verbatim.
type RawTrip struct {
	ProductType    string
	Status         string
	FareAmount     string
	DistanceMiles  string
	RequestTime    string
	BeginTripTime  string
	DropoffTime    string
	DropoffLat     string
	DropoffLng     string
	City           string
	FareCurrency   string
	BeginAddress   string
	DropoffAddress string
}

// Trip is a normalized export row. Every field that can be absent is nullable.
type Trip struct {
	Row            int // 1-based position in the source export
	RawProduct     string
	ProductType    string
	Status         Status
	City           string
	FareCurrency   string
	BeginAddress   string
	DropoffAddress string

	FareAmount    sql.NullFloat64
	DistanceMiles sql.NullFloat64
	RequestTime   sql.NullTime
	BeginTripTime sql.NullTime
	DropoffTime   sql.NullTime
	DropoffLat    sql.NullFloat64
	DropoffLng    sql.NullFloat64

	// Calendar components of RequestTime; empty when it is missing.
	Year    string
	Month   string
	Weekday string
	Time    string

	DistanceKm      sql.NullFloat64
	FarePerKm       sql.NullFloat64
	RequestLeadTime sql.NullFloat64
	TripDuration    sql.NullFloat64
}

// HasDropoff reports whether both dropoff coordinates are known.
func (t Trip) HasDropoff() bool {
	return t.DropoffLat.Valid && t.DropoffLng.Valid
}

// LoadStats summarizes what normalization absorbed.
type LoadStats struct {
	RowsRead        int `json:"rows_read"`
	EatsDropped     int `json:"eats_dropped"`
	MalformedFields int `json:"malformed_fields"`
	Trips           int `json:"trips"`
	Completed       int `json:"completed"`
}

// Table is the normalized export. It is never mutated after Normalize returns;
// accessors hand out copies.
type Table struct {
	all         []Trip
	completed   []Trip
	stats       LoadStats
	fingerprint string
}

func (t *Table) Len() int {
	return len(t.all)
}

// All returns every trip that survived normalization, in source order.
func (t *Table) All() []Trip {
	return slices.Clone(t.all)
}

// Completed returns the completed subset: not canceled, dropoff coordinates known.
func (t *Table) Completed() []Trip {
	return slices.Clone(t.completed)
}

func (t *Table) Stats() LoadStats {
	return t.stats
}

// Fingerprint identifies the raw input the table was built from.
func (t *Table) Fingerprint() string {
	return t.fingerprint
}

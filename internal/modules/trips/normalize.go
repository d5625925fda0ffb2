// README: Normalizer turns raw export rows into the derived, cancellation-masked trip table.
package trips

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	kmPerMile       = 1.60934
	timestampSuffix = " +0000 UTC"
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Normalize builds the trip table from raw rows. It is pure: identical input
// yields an identical table, and malformed fields are nulled on their row only.
func Normalize(raw []RawTrip) *Table {
	tbl := &Table{
		all:         make([]Trip, 0, len(raw)),
		fingerprint: fingerprint(raw),
	}
	tbl.stats.RowsRead = len(raw)

	for i, r := range raw {
		if isEats(r.ProductType) {
			tbl.stats.EatsDropped++
			continue
		}
		p := &fieldParser{}
		t := Trip{
			Row:            i + 1,
			RawProduct:     r.ProductType,
			ProductType:    CanonicalProduct(r.ProductType),
			Status:         Status(strings.TrimSpace(r.Status)),
			City:           strings.TrimSpace(r.City),
			FareCurrency:   strings.TrimSpace(r.FareCurrency),
			BeginAddress:   strings.TrimSpace(r.BeginAddress),
			DropoffAddress: strings.TrimSpace(r.DropoffAddress),
			FareAmount:     p.float(r.FareAmount),
			DistanceMiles:  p.float(r.DistanceMiles),
			RequestTime:    p.timestamp(r.RequestTime),
			BeginTripTime:  p.timestamp(r.BeginTripTime),
			DropoffTime:    p.timestamp(r.DropoffTime),
			DropoffLat:     p.float(r.DropoffLat),
			DropoffLng:     p.float(r.DropoffLng),
		}
		derive(&t)
		maskCanceled(&t)

		tbl.stats.MalformedFields += p.malformed
		tbl.all = append(tbl.all, t)
	}

	for _, t := range tbl.all {
		if !t.Status.IsCanceled() && t.HasDropoff() {
			tbl.completed = append(tbl.completed, t)
		}
	}
	tbl.stats.Trips = len(tbl.all)
	tbl.stats.Completed = len(tbl.completed)
	return tbl
}

func derive(t *Trip) {
	if t.RequestTime.Valid {
		req := t.RequestTime.Time
		t.Year = req.Format("2006")
		t.Month = req.Format("Jan")
		t.Weekday = req.Format("Mon")
		t.Time = req.Format("15:04")
	}

	if t.DistanceMiles.Valid {
		t.DistanceKm = nullFloat(Round(t.DistanceMiles.Float64*kmPerMile, 2))
	}
	if t.FareAmount.Valid && t.DistanceKm.Valid && t.DistanceKm.Float64 != 0 {
		t.FarePerKm = nullFloat(Round(t.FareAmount.Float64/t.DistanceKm.Float64, 2))
	}

	t.RequestLeadTime = minutesBetween(t.RequestTime, t.BeginTripTime)
	t.TripDuration = minutesBetween(t.BeginTripTime, t.DropoffTime)
}

// maskCanceled voids in-trip metrics for trips that never ran.
func maskCanceled(t *Trip) {
	if !t.Status.IsCanceled() {
		return
	}
	t.RequestLeadTime = sql.NullFloat64{}
	t.FarePerKm = sql.NullFloat64{}
	t.BeginTripTime = sql.NullTime{}
	t.DropoffTime = sql.NullTime{}
}

func minutesBetween(from, to sql.NullTime) sql.NullFloat64 {
	if !from.Valid || !to.Valid {
		return sql.NullFloat64{}
	}
	return nullFloat(Round(to.Time.Sub(from.Time).Minutes(), 1))
}

// nullFloat treats NaN and infinities as missing.
func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// Round rounds half away from zero to the given number of decimals.
// Decimal ties such as 1.005 round up despite their binary representation.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow10(places)
	return math.Round(v*p*(1+1e-12)) / p
}

// fieldParser counts fields that were present but unparseable.
type fieldParser struct {
	malformed int
}

func (p *fieldParser) float(s string) sql.NullFloat64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullFloat64{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.malformed++
		return sql.NullFloat64{}
	}
	return nullFloat(v)
}

func (p *fieldParser) timestamp(s string) sql.NullTime {
	t, ok := ParseTimestamp(s)
	if !ok {
		if strings.TrimSpace(s) != "" {
			p.malformed++
		}
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// ParseTimestamp strips the export's fixed timezone suffix and parses the rest
// as a naive UTC timestamp.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(strings.Replace(s, timestampSuffix, "", 1))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fingerprint(raw []RawTrip) string {
	h := sha256.New()
	for _, r := range raw {
		for _, f := range []string{
			r.ProductType, r.Status, r.FareAmount, r.DistanceMiles,
			r.RequestTime, r.BeginTripTime, r.DropoffTime, r.DropoffLat, r.DropoffLng,
			r.City, r.FareCurrency, r.BeginAddress, r.DropoffAddress,
		} {
			h.Write([]byte(f))
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// README: CSV loader reads the trip export once and hands raw rows to the normalizer.
package trips

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const (
	ColProductType    = "Product Type"
	ColStatus         = "Trip or Order Status"
	ColFareAmount     = "Fare Amount"
	ColDistanceMiles  = "Distance (miles)"
	ColRequestTime    = "Request Time"
	ColBeginTripTime  = "Begin Trip Time"
	ColDropoffTime    = "Dropoff Time"
	ColDropoffLat     = "Dropoff Lat"
	ColDropoffLng     = "Dropoff Lng"
	ColCity           = "City"
	ColFareCurrency   = "Fare Currency"
	ColBeginAddress   = "Begin Trip Address"
	ColDropoffAddress = "Dropoff Address"
)

var RequiredColumns = []string{
	ColProductType, ColStatus, ColFareAmount, ColDistanceMiles,
	ColRequestTime, ColBeginTripTime, ColDropoffTime, ColDropoffLat, ColDropoffLng,
}

var (
	ErrInputUnavailable = errors.New("trip export unavailable")
	ErrMissingColumn    = errors.New("trip export missing required column")
	ErrEmptyInput       = errors.New("trip export has no header row")
)

// LoadFile opens, reads and closes the export, then normalizes it. Any failure
// here is fatal for the caller: without a table there is nothing to serve.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputUnavailable, path, err)
	}
	defer f.Close()

	raw, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tbl := Normalize(raw)
	logStats(path, tbl.Stats())
	return tbl, nil
}

// ReadCSV parses the export. Rows with a wrong field count abort the read since
// columns can no longer be attributed; field-level problems are left to Normalize.
func ReadCSV(r io.Reader) ([]RawTrip, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputUnavailable, err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	header := records[0]
	for _, col := range RequiredColumns {
		if !slices.Contains(header, col) {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}
	if len(records) == 1 {
		return []RawTrip{}, nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputUnavailable, df.Err)
	}

	column := func(name string) []string {
		if !slices.Contains(df.Names(), name) {
			return make([]string, df.Nrow())
		}
		return df.Col(name).Records()
	}
	var (
		product   = column(ColProductType)
		status    = column(ColStatus)
		fare      = column(ColFareAmount)
		distance  = column(ColDistanceMiles)
		request   = column(ColRequestTime)
		begin     = column(ColBeginTripTime)
		dropoff   = column(ColDropoffTime)
		lat       = column(ColDropoffLat)
		lng       = column(ColDropoffLng)
		city      = column(ColCity)
		currency  = column(ColFareCurrency)
		beginAddr = column(ColBeginAddress)
		dropAddr  = column(ColDropoffAddress)
	)

	raw := make([]RawTrip, df.Nrow())
	for i := range raw {
		raw[i] = RawTrip{
			ProductType:    product[i],
			Status:         status[i],
			FareAmount:     fare[i],
			DistanceMiles:  distance[i],
			RequestTime:    request[i],
			BeginTripTime:  begin[i],
			DropoffTime:    dropoff[i],
			DropoffLat:     lat[i],
			DropoffLng:     lng[i],
			City:           city[i],
			FareCurrency:   currency[i],
			BeginAddress:   beginAddr[i],
			DropoffAddress: dropAddr[i],
		}
	}
	return raw, nil
}

func logStats(source string, s LoadStats) {
	log.Printf("loaded %s: rows=%d trips=%d completed=%d eats_dropped=%d malformed_fields=%d",
		source, s.RowsRead, s.Trips, s.Completed, s.EatsDropped, s.MalformedFields)
}

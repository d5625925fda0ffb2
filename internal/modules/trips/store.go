// README: Read-only trip export source backed by PostgreSQL.
package trips

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store reads an export that was bulk-copied into the trip_exports table with
// its columns kept as text, so the same normalizer handles both sources.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) LoadRaw(ctx context.Context) ([]RawTrip, error) {
	rows, err := s.db.Query(ctx, `
        SELECT product_type, status, fare_amount, distance_miles,
               request_time, begin_trip_time, dropoff_time,
               dropoff_lat, dropoff_lng,
               city, fare_currency, begin_trip_address, dropoff_address
        FROM trip_exports
        ORDER BY row_number`)
	if err != nil {
		return nil, fmt.Errorf("%w: query trip_exports: %v", ErrInputUnavailable, err)
	}
	defer rows.Close()

	var raw []RawTrip
	for rows.Next() {
		var cols [13]sql.NullString
		dest := make([]any, len(cols))
		for i := range cols {
			dest[i] = &cols[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan trip_exports: %v", ErrInputUnavailable, err)
		}
		raw = append(raw, RawTrip{
			ProductType:    cols[0].String,
			Status:         cols[1].String,
			FareAmount:     cols[2].String,
			DistanceMiles:  cols[3].String,
			RequestTime:    cols[4].String,
			BeginTripTime:  cols[5].String,
			DropoffTime:    cols[6].String,
			DropoffLat:     cols[7].String,
			DropoffLng:     cols[8].String,
			City:           cols[9].String,
			FareCurrency:   cols[10].String,
			BeginAddress:   cols[11].String,
			DropoffAddress: cols[12].String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read trip_exports: %v", ErrInputUnavailable, err)
	}
	return raw, nil
}

// Load reads and normalizes the stored export.
func (s *Store) Load(ctx context.Context) (*Table, error) {
	raw, err := s.LoadRaw(ctx)
	if err != nil {
		return nil, err
	}
	tbl := Normalize(raw)
	logStats("postgres:trip_exports", tbl.Stats())
	return tbl, nil
}

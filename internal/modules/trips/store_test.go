package trips

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rideinsight/internal/infra"
)

// Expects migrations/0001_trip_exports.sql applied and loaded.
func TestStore_LoadIntegration(t *testing.T) {
	dsn := os.Getenv("RIDE_DB_DSN")
	if dsn == "" {
		t.Skip("RIDE_DB_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := infra.NewDB(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	tbl, err := NewStore(db).Load(ctx)
	require.NoError(t, err)
	for _, trip := range tbl.Completed() {
		require.True(t, trip.HasDropoff())
		require.False(t, trip.Status.IsCanceled())
	}
}

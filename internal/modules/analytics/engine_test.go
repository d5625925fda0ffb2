package analytics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rideinsight/internal/modules/heatmap"
	"rideinsight/internal/modules/trips"
	"rideinsight/internal/types"
)

const tsLayout = "2006-01-02 15:04:05 +0000 UTC"

type stubRenderer struct {
	calls int
	last  heatmap.Request
	err   error
}

func (s *stubRenderer) Render(_ context.Context, req heatmap.Request) (heatmap.Artifact, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return heatmap.Artifact{}, s.err
	}
	return heatmap.Artifact{Path: "heatmap.html", ContentType: heatmap.ContentTypeHTML, Points: len(req.Points)}, nil
}

var testSettings = Settings{
	Center:   types.Point{Lat: -23.5489, Lng: -46.6388},
	Zoom:     12,
	Radius:   10,
	Currency: "BRL",
}

// ride builds a raw export row; lead and duration are minutes, negative means absent.
func ride(product, status, fare, miles, requested string, lead, duration int) trips.RawTrip {
	r := trips.RawTrip{
		ProductType:   product,
		Status:        status,
		FareAmount:    fare,
		DistanceMiles: miles,
		DropoffLat:    "-23.55",
		DropoffLng:    "-46.63",
	}
	if requested == "" {
		return r
	}
	req, err := time.Parse("2006-01-02 15:04", requested)
	if err != nil {
		panic(err)
	}
	r.RequestTime = req.Format(tsLayout)
	if lead >= 0 {
		begin := req.Add(time.Duration(lead) * time.Minute)
		r.BeginTripTime = begin.Format(tsLayout)
		if duration >= 0 {
			r.DropoffTime = begin.Add(time.Duration(duration) * time.Minute).Format(tsLayout)
		}
	}
	return r
}

func scenarioTable() *trips.Table {
	return trips.Normalize([]trips.RawTrip{
		ride("UberX", "COMPLETED", "10", "1", "2019-01-07 10:00", 5, 20),
		ride("POOL", "CANCELED", "8", "2", "2019-01-07 09:00", -1, -1),
		ride("uberX VIP", "COMPLETED", "20", "4", "2019-01-08 11:00", 3, 10),
	})
}

func run(t *testing.T, id QueryID, tbl *trips.Table) Report {
	t.Helper()
	r, err := NewEngine(&stubRenderer{}, testSettings).Run(context.Background(), id, tbl)
	require.NoError(t, err)
	return r
}

func value(t *testing.T, v *float64) float64 {
	t.Helper()
	require.NotNil(t, v)
	return *v
}

func TestEngine_Scenario(t *testing.T) {
	tbl := scenarioTable()

	t.Run("product share excludes canceled pool", func(t *testing.T) {
		r := run(t, QueryProductShare, tbl)
		require.NotNil(t, r.Table)
		require.Len(t, r.Table.Rows, 1)
		row := r.Table.Rows[0]
		assert.Equal(t, trips.ProductUberX, row.Label)
		assert.Equal(t, 2.0, value(t, row.Cells[0].Value))
		assert.Equal(t, 100.0, value(t, row.Cells[1].Value))
	})

	t.Run("status breakdown", func(t *testing.T) {
		r := run(t, QueryStatusBreakdown, tbl)
		assert.Equal(t, 3.0, value(t, r.Scalars[0].Value))
		require.Len(t, r.Table.Rows, 2)
		assert.Equal(t, "COMPLETED", r.Table.Rows[0].Label)
		assert.Equal(t, 66.7, value(t, r.Table.Rows[0].Cells[1].Value))
		assert.Equal(t, "CANCELED", r.Table.Rows[1].Label)
		assert.Equal(t, 33.3, value(t, r.Table.Rows[1].Cells[1].Value))
	})

	t.Run("lead time", func(t *testing.T) {
		r := run(t, QueryLeadTime, tbl)
		assert.False(t, r.NoData)
		assert.Equal(t, 4.0, value(t, r.Scalars[0].Value))
		assert.Equal(t, "Avg. lead time before requesting a trip: 4.0 minutes", r.Text())
	})

	t.Run("completed by year", func(t *testing.T) {
		r := run(t, QueryCompletedByYear, tbl)
		assert.Equal(t, 2.0, value(t, r.Scalars[0].Value))
		require.Len(t, r.Table.Rows, 1)
		assert.Equal(t, "2019", r.Table.Rows[0].Label)
		assert.Equal(t, 2.0, value(t, r.Table.Rows[0].Cells[0].Value))
	})

	t.Run("trip summary", func(t *testing.T) {
		r := run(t, QueryTripSummary, tbl)
		require.Len(t, r.Scalars, 7)
		want := []struct {
			label string
			value float64
			unit  string
		}{
			{"Avg. fare", 15.0, "BRL"},
			{"Avg. distance", 4.0, "km"},
			{"Avg. fare/km", 3.7, "BRL/km"},
			{"Avg. time spent on trips", 15.0, "minutes"},
			{"Total fare amount", 30.0, "BRL"},
			{"Total distance", 8.1, "km"},
			{"Total time spent on trips", 0.5, "hours"},
		}
		for i, w := range want {
			assert.Equal(t, w.label, r.Scalars[i].Label)
			assert.Equal(t, w.value, value(t, r.Scalars[i].Value), w.label)
			assert.Equal(t, w.unit, r.Scalars[i].Unit)
		}
	})

	t.Run("fare per km pivot", func(t *testing.T) {
		r := run(t, QueryFarePerKmPivot, tbl)
		require.NotNil(t, r.Table)
		assert.Equal(t, []string{"Mon", "Tue"}, r.Table.Columns)
		require.Len(t, r.Table.Rows, 1)
		cells := r.Table.Rows[0].Cells
		assert.Equal(t, 6.3, value(t, cells[0].Value))
		assert.Equal(t, 3.1, value(t, cells[1].Value))
	})
}

func TestStatusBreakdown_SumsToHundred(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
	}{
		{"thirds", []string{"COMPLETED", "CANCELED", "DRIVER_CANCELED"}},
		{"skewed", []string{"COMPLETED", "COMPLETED", "COMPLETED", "COMPLETED", "COMPLETED", "COMPLETED", "COMPLETED", "CANCELED", "CANCELED", "DRIVER_CANCELED"}},
		{"blank status", []string{"COMPLETED", "CANCELED", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw []trips.RawTrip
			for _, s := range tt.statuses {
				raw = append(raw, ride("UberX", s, "1", "1", "", 0, 0))
			}
			r := run(t, QueryStatusBreakdown, trips.Normalize(raw))
			sum := 0.0
			for _, row := range r.Table.Rows {
				sum += value(t, row.Cells[1].Value)
			}
			assert.InDelta(t, 100.0, sum, 0.1+1e-9)
		})
	}
}

func TestStatusBreakdown_BlankStatusLeftOut(t *testing.T) {
	tbl := trips.Normalize([]trips.RawTrip{
		ride("UberX", "COMPLETED", "1", "1", "", 0, 0),
		ride("UberX", "CANCELED", "1", "1", "", 0, 0),
		ride("UberX", "", "1", "1", "", 0, 0),
	})
	r := run(t, QueryStatusBreakdown, tbl)
	require.Len(t, r.Scalars, 1)
	assert.Equal(t, 2.0, value(t, r.Scalars[0].Value))
	require.Len(t, r.Table.Rows, 2)
	for _, row := range r.Table.Rows {
		assert.Equal(t, 50.0, value(t, row.Cells[1].Value), row.Label)
	}
}

func TestStatusBreakdown_OrderedByCount(t *testing.T) {
	tbl := trips.Normalize([]trips.RawTrip{
		ride("UberX", "CANCELED", "1", "1", "", 0, 0),
		ride("UberX", "COMPLETED", "1", "1", "", 0, 0),
		ride("UberX", "COMPLETED", "1", "1", "", 0, 0),
		ride("UberX", "DRIVER_CANCELED", "1", "1", "", 0, 0),
	})
	r := run(t, QueryStatusBreakdown, tbl)
	var labels []string
	for _, row := range r.Table.Rows {
		labels = append(labels, row.Label)
	}
	assert.Equal(t, []string{"COMPLETED", "CANCELED", "DRIVER_CANCELED"}, labels)
}

func TestProductShare_DescendingByName(t *testing.T) {
	tbl := trips.Normalize([]trips.RawTrip{
		ride("POOL", "COMPLETED", "5", "1", "", 0, 0),
		ride("UberX", "COMPLETED", "5", "1", "", 0, 0),
		ride("UberBLACK", "COMPLETED", "5", "1", "", 0, 0),
		ride("uberX", "COMPLETED", "5", "1", "", 0, 0),
		ride("uberPOOL: MATCHED", "COMPLETED", "5", "1", "", 0, 0),
		ride("VIP", "COMPLETED", "5", "1", "", 0, 0),
	})
	r := run(t, QueryProductShare, tbl)

	var labels []string
	var counts, pcts []float64
	for _, row := range r.Table.Rows {
		labels = append(labels, row.Label)
		counts = append(counts, value(t, row.Cells[0].Value))
		pcts = append(pcts, value(t, row.Cells[1].Value))
	}
	assert.Equal(t, []string{"UberX", "Pool", "Black"}, labels)
	assert.Equal(t, []float64{3, 2, 1}, counts)
	assert.Equal(t, []float64{50.0, 33.3, 16.7}, pcts)
}

func TestDistanceExtremes_KeepsTies(t *testing.T) {
	tbl := trips.Normalize([]trips.RawTrip{
		ride("UberX", "COMPLETED", "10", "1", "", 0, 0),
		ride("UberX", "COMPLETED", "11", "1.0001", "", 0, 0),
		ride("UberX", "COMPLETED", "4", "0.5", "", 0, 0),
		ride("UberX", "COMPLETED", "3", "", "", 0, 0),
		ride("UberX", "CANCELED", "30", "9", "", 0, 0),
	})
	r := run(t, QueryDistanceExtremes, tbl)
	require.NotNil(t, r.Table)
	require.Len(t, r.Table.Rows, 3)

	assert.Equal(t, "longest", r.Table.Rows[0].Label)
	assert.Equal(t, 1.0, value(t, r.Table.Rows[0].Cells[0].Value))
	assert.Equal(t, "longest", r.Table.Rows[1].Label)
	assert.Equal(t, 2.0, value(t, r.Table.Rows[1].Cells[0].Value))
	assert.Equal(t, 1.61, value(t, r.Table.Rows[1].Cells[4].Value))
	assert.Equal(t, "shortest", r.Table.Rows[2].Label)
	assert.Equal(t, 3.0, value(t, r.Table.Rows[2].Cells[0].Value))
	assert.Equal(t, 0.8, value(t, r.Table.Rows[2].Cells[4].Value))
}

func TestDistanceExtremes_SingleTripIsBoth(t *testing.T) {
	tbl := trips.Normalize([]trips.RawTrip{ride("UberX", "COMPLETED", "10", "2", "", 0, 0)})
	r := run(t, QueryDistanceExtremes, tbl)
	require.Len(t, r.Table.Rows, 2)
	assert.Equal(t, "longest", r.Table.Rows[0].Label)
	assert.Equal(t, "shortest", r.Table.Rows[1].Label)
}

func TestFarePerKmPivot_ZeroDistanceCellIsMissing(t *testing.T) {
	tbl := trips.Normalize([]trips.RawTrip{
		ride("UberX", "COMPLETED", "10", "1", "2019-01-07 10:00", 5, 20),
		ride("UberX", "COMPLETED", "7", "0", "2019-01-09 10:00", 5, 20),
		ride("UberX", "COMPLETED", "12", "2", "2018-06-03 10:00", 5, 20),
	})
	r := run(t, QueryFarePerKmPivot, tbl)
	require.NotNil(t, r.Table)
	assert.Equal(t, []string{"Mon", "Wed", "Sun"}, r.Table.Columns)
	require.Len(t, r.Table.Rows, 2)

	y2018, y2019 := r.Table.Rows[0], r.Table.Rows[1]
	assert.Equal(t, "2018", y2018.Label)
	assert.Nil(t, y2018.Cells[0].Value)
	assert.Nil(t, y2018.Cells[1].Value)
	assert.Equal(t, 3.8, value(t, y2018.Cells[2].Value))

	assert.Equal(t, "2019", y2019.Label)
	assert.Equal(t, 6.3, value(t, y2019.Cells[0].Value))
	assert.Nil(t, y2019.Cells[1].Value, "zero distance total")
	assert.Nil(t, y2019.Cells[2].Value)

	assert.NotContains(t, r.Text(), "NaN")
	assert.NotContains(t, r.Text(), "Inf")
}

func TestTripSummary_EmptyCompletedSubset(t *testing.T) {
	tbl := trips.Normalize([]trips.RawTrip{
		ride("UberX", "CANCELED", "10", "1", "", 0, 0),
		ride("UberX", "DRIVER_CANCELED", "10", "1", "", 0, 0),
	})
	r := run(t, QueryTripSummary, tbl)

	assert.True(t, r.NoData)
	require.Len(t, r.Scalars, 7)
	for _, s := range r.Scalars {
		assert.Nil(t, s.Value, s.Label)
	}
	text := r.Text()
	assert.Contains(t, text, "Avg. fare: n/a")
	assert.Contains(t, text, NoDataMessage)
	assert.NotContains(t, text, "NaN")
}

func TestTripSummary_MissingValuesAreSkipped(t *testing.T) {
	tbl := trips.Normalize([]trips.RawTrip{
		ride("UberX", "COMPLETED", "", "1", "", 0, 0),
		ride("UberX", "COMPLETED", "", "", "", 0, 0),
	})
	r := run(t, QueryTripSummary, tbl)
	assert.False(t, r.NoData)
	assert.Nil(t, r.Scalars[0].Value, "no fare at all")
	assert.Equal(t, 1.6, value(t, r.Scalars[1].Value))
	assert.Equal(t, 0.0, value(t, r.Scalars[2].Value))
	assert.Nil(t, r.Scalars[3].Value, "no durations")
	assert.Equal(t, 0.0, value(t, r.Scalars[4].Value))
}

func TestEngine_EmptyTableIsTotal(t *testing.T) {
	empty := trips.Normalize(nil)
	renderer := &stubRenderer{}
	engine := NewEngine(renderer, testSettings)

	for _, q := range Queries() {
		t.Run(string(q.ID), func(t *testing.T) {
			r, err := engine.Run(context.Background(), q.ID, empty)
			require.NoError(t, err)
			assert.True(t, r.NoData)
			assert.Equal(t, q.ID, r.Query)
			assert.NotContains(t, r.Text(), "NaN")
		})
	}
	assert.Zero(t, renderer.calls)
}

func TestEngine_EveryQueryIsBound(t *testing.T) {
	engine := NewEngine(&stubRenderer{}, testSettings)
	for _, q := range Queries() {
		r, err := engine.Run(context.Background(), q.ID, scenarioTable())
		require.NoError(t, err, q.ID)
		assert.NotEqual(t, KindInvalid, r.Kind, q.ID)
		assert.Equal(t, q.Title, r.Title)
		assert.NotEmpty(t, r.Text(), q.ID)
	}
}

func TestEngine_UnknownQuery(t *testing.T) {
	for _, id := range []QueryID{"z", "", "A", "ab", "i"} {
		r := run(t, id, scenarioTable())
		assert.Equal(t, KindInvalid, r.Kind)
		assert.Equal(t, InvalidChoiceMessage, r.Text())
	}
}

func TestEngine_DropoffHeatmap(t *testing.T) {
	renderer := &stubRenderer{}
	r, err := NewEngine(renderer, testSettings).Run(context.Background(), QueryDropoffHeatmap, scenarioTable())
	require.NoError(t, err)

	assert.Equal(t, 1, renderer.calls)
	assert.Len(t, renderer.last.Points, 2)
	assert.Equal(t, testSettings.Center, renderer.last.Center)
	assert.Equal(t, 12, renderer.last.Zoom)
	assert.Equal(t, 10, renderer.last.Radius)
	require.NotNil(t, r.Artifact)
	assert.Equal(t, 2, r.Artifact.Points)
	assert.True(t, strings.HasSuffix(r.Text(), HeatmapMessage))

	renderer.err = errors.New("disk full")
	_, err = NewEngine(renderer, testSettings).Run(context.Background(), QueryDropoffHeatmap, scenarioTable())
	assert.ErrorContains(t, err, "disk full")

	_, err = NewEngine(nil, testSettings).Run(context.Background(), QueryDropoffHeatmap, scenarioTable())
	assert.ErrorIs(t, err, heatmap.ErrNoRenderer)
}

func TestParseQueryID(t *testing.T) {
	for _, q := range Queries() {
		id, err := ParseQueryID(string(q.ID))
		require.NoError(t, err)
		assert.Equal(t, q.ID, id)
	}
	_, err := ParseQueryID("z")
	assert.ErrorIs(t, err, ErrUnknownQuery)
	assert.Len(t, Queries(), 8)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "n/a", formatValue(nil, 1))
	assert.Equal(t, "66.7", formatValue(ptr(66.7), 1))
	assert.Equal(t, "2", formatValue(ptr(2), 0))
	assert.Equal(t, "100.0", formatValue(ptr(100), 1))
}

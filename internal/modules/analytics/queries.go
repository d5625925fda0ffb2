package analytics

import (
	"cmp"
	"slices"

	"rideinsight/internal/modules/trips"
)

var weekdayOrder = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// a: completed trips overall and per request year.
func completedByYear(completed []trips.Trip) Report {
	r := Report{
		Kind:    KindTable,
		Scalars: []Scalar{{Label: "Total trips", Value: ptr(float64(len(completed)))}},
	}
	if len(completed) == 0 {
		r.NoData = true
		return r
	}

	counts := map[string]int{}
	for _, t := range completed {
		if t.Year != "" {
			counts[t.Year]++
		}
	}
	years := sortedKeys(counts)
	table := &TableData{Index: "Year", Columns: []string{"Trips"}}
	for _, y := range years {
		table.Rows = append(table.Rows, Row{Label: y, Cells: []Cell{num(float64(counts[y]), 0)}})
	}
	r.Table = table
	return r
}

// b: every trip, share of each status in percent of all rows.
func statusBreakdown(all []trips.Trip) Report {
	counts := map[trips.Status]int{}
	total := 0
	for _, t := range all {
		if t.Status == "" {
			continue
		}
		counts[t.Status]++
		total++
	}
	r := Report{
		Kind:    KindTable,
		Scalars: []Scalar{{Label: "Total trips", Value: ptr(float64(total))}},
	}
	if total == 0 {
		r.NoData = true
		return r
	}

	statuses := make([]trips.Status, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	slices.SortFunc(statuses, func(a, b trips.Status) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	table := &TableData{Index: "Status", Columns: []string{"Trips", "%"}}
	for _, s := range statuses {
		pct := trips.Round(float64(counts[s])/float64(total)*100, 1)
		table.Rows = append(table.Rows, Row{
			Label: string(s),
			Cells: []Cell{num(float64(counts[s]), 0), num(pct, 1)},
		})
	}
	r.Table = table
	return r
}

// d: completed trips per product, product names descending.
func productShare(completed []trips.Trip) Report {
	r := Report{Kind: KindTable}
	counts := map[string]int{}
	for _, t := range completed {
		if t.ProductType != "" {
			counts[t.ProductType]++
		}
	}
	if len(counts) == 0 {
		r.NoData = true
		return r
	}

	products := sortedKeys(counts)
	slices.Reverse(products)
	table := &TableData{Index: "Product Type", Columns: []string{"Total Rides", "%"}}
	for _, p := range products {
		pct := trips.Round(float64(counts[p])/float64(len(completed))*100, 1)
		table.Rows = append(table.Rows, Row{
			Label: p,
			Cells: []Cell{num(float64(counts[p]), 0), num(pct, 1)},
		})
	}
	r.Table = table
	return r
}

// e: seven summary scalars over completed trips. Fare per km is the ratio of
// totals, not the mean of per-trip ratios.
func tripSummary(completed []trips.Trip, currency string) Report {
	var fare, dist, dur stat
	for _, t := range completed {
		fare.add(t.FareAmount.Float64, t.FareAmount.Valid)
		dist.add(t.DistanceKm.Float64, t.DistanceKm.Valid)
		dur.add(t.TripDuration.Float64, t.TripDuration.Valid)
	}

	var ratio *float64
	if dist.sum != 0 {
		ratio = ptr(fare.sum / dist.sum)
	}
	hours := dur.sum / 60

	r := Report{
		Kind: KindScalars,
		Scalars: []Scalar{
			{Label: "Avg. fare", Value: fare.mean(), Unit: currency},
			{Label: "Avg. distance", Value: dist.mean(), Unit: "km"},
			{Label: "Avg. fare/km", Value: ratio, Unit: currency + "/km"},
			{Label: "Avg. time spent on trips", Value: dur.mean(), Unit: "minutes"},
			{Label: "Total fare amount", Value: ptr(fare.sum), Unit: currency},
			{Label: "Total distance", Value: ptr(dist.sum), Unit: "km"},
			{Label: "Total time spent on trips", Value: ptr(hours), Unit: "hours"},
		},
	}
	if len(completed) == 0 {
		r.NoData = true
		for i := range r.Scalars {
			r.Scalars[i].Value = nil
		}
	}
	for i := range r.Scalars {
		r.Scalars[i].Precision = 1
		if v := r.Scalars[i].Value; v != nil {
			*v = trips.Round(*v, 1)
		}
	}
	return r
}

// f: fare per km by request year and weekday. Each cell divides the rounded
// fare total by the rounded distance total; a zero distance total is missing.
func farePerKmPivot(completed []trips.Trip) Report {
	r := Report{Kind: KindTable}

	type cellKey struct{ year, weekday string }
	type sums struct{ fare, dist float64 }
	cells := map[cellKey]*sums{}
	years := map[string]bool{}
	weekdays := map[string]bool{}
	for _, t := range completed {
		if t.Year == "" {
			continue
		}
		k := cellKey{t.Year, t.Weekday}
		s, ok := cells[k]
		if !ok {
			s = &sums{}
			cells[k] = s
		}
		if t.FareAmount.Valid {
			s.fare += t.FareAmount.Float64
		}
		if t.DistanceKm.Valid {
			s.dist += t.DistanceKm.Float64
		}
		years[t.Year] = true
		weekdays[t.Weekday] = true
	}
	if len(cells) == 0 {
		r.NoData = true
		return r
	}

	var columns []string
	for _, d := range weekdayOrder {
		if weekdays[d] {
			columns = append(columns, d)
		}
	}
	table := &TableData{Index: "Year", Columns: columns}
	for _, y := range sortedKeys(years) {
		row := Row{Label: y}
		for _, d := range columns {
			s, ok := cells[cellKey{y, d}]
			fare, dist := 0.0, 0.0
			if ok {
				fare, dist = trips.Round(s.fare, 1), trips.Round(s.dist, 1)
			}
			if !ok || dist == 0 {
				row.Cells = append(row.Cells, missing())
				continue
			}
			row.Cells = append(row.Cells, num(trips.Round(fare/dist, 1), 1))
		}
		table.Rows = append(table.Rows, row)
	}
	r.Table = table
	return r
}

// g: every trip at the longest rounded distance, then every trip at the shortest.
func distanceExtremes(completed []trips.Trip) Report {
	r := Report{Kind: KindTable}
	var longest, shortest []trips.Trip
	for _, t := range completed {
		if !t.DistanceKm.Valid {
			continue
		}
		d := t.DistanceKm.Float64
		switch {
		case len(longest) == 0 || d > longest[0].DistanceKm.Float64:
			longest = []trips.Trip{t}
		case d == longest[0].DistanceKm.Float64:
			longest = append(longest, t)
		}
		switch {
		case len(shortest) == 0 || d < shortest[0].DistanceKm.Float64:
			shortest = []trips.Trip{t}
		case d == shortest[0].DistanceKm.Float64:
			shortest = append(shortest, t)
		}
	}
	if len(longest) == 0 {
		r.NoData = true
		return r
	}

	table := &TableData{
		Index:   "Ride",
		Columns: []string{"Row", "Product Type", "Status", "Request Time", "Distance (km)", "Fare Amount", "Fare/km", "Duration (min)"},
	}
	for _, group := range []struct {
		label string
		trips []trips.Trip
	}{{"longest", longest}, {"shortest", shortest}} {
		for _, t := range group.trips {
			table.Rows = append(table.Rows, Row{Label: group.label, Cells: tripCells(t)})
		}
	}
	r.Table = table
	return r
}

func tripCells(t trips.Trip) []Cell {
	requested := ""
	if t.RequestTime.Valid {
		requested = t.RequestTime.Time.Format("2006-01-02 15:04:05")
	}
	opt := func(v float64, ok bool, precision int) Cell {
		if !ok {
			return missing()
		}
		return num(v, precision)
	}
	return []Cell{
		num(float64(t.Row), 0),
		text(t.ProductType),
		text(string(t.Status)),
		text(requested),
		opt(t.DistanceKm.Float64, t.DistanceKm.Valid, 2),
		opt(t.FareAmount.Float64, t.FareAmount.Valid, 2),
		opt(t.FarePerKm.Float64, t.FarePerKm.Valid, 2),
		opt(t.TripDuration.Float64, t.TripDuration.Valid, 1),
	}
}

// h: mean lead time; trips without one are excluded, not counted as zero.
func leadTime(completed []trips.Trip) Report {
	var lead stat
	for _, t := range completed {
		lead.add(t.RequestLeadTime.Float64, t.RequestLeadTime.Valid)
	}
	mean := lead.mean()
	if mean != nil {
		*mean = trips.Round(*mean, 1)
	}
	return Report{
		Kind: KindScalars,
		Scalars: []Scalar{{
			Label:     "Avg. lead time before requesting a trip",
			Value:     mean,
			Unit:      "minutes",
			Precision: 1,
		}},
		NoData: mean == nil,
	}
}

// stat accumulates a sum over the valid values of a nullable column.
type stat struct {
	sum float64
	n   int
}

func (s *stat) add(v float64, valid bool) {
	if valid {
		s.sum += v
		s.n++
	}
}

func (s *stat) mean() *float64 {
	if s.n == 0 {
		return nil
	}
	return ptr(s.sum / float64(s.n))
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// README: Density binning helpers behind the static renderer.
package heatmap

import (
	"math"

	"rideinsight/internal/types"
)

const (
	// Web Mercator ground resolution at zoom 0 on the equator.
	metersPerPixelZoom0 = 156543.03392
	metersPerDegreeLat  = 111320.0
)

// Cell is one square bin of the density grid.
type Cell struct {
	Centroid types.Point
	Count    int
	row, col int
}

// metersPerPixel returns the ground distance one screen pixel covers at lat.
func metersPerPixel(lat float64, zoom int) float64 {
	return metersPerPixelZoom0 * math.Cos(degreesToRadians(lat)) / math.Pow(2, float64(zoom))
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Bin groups points into square cells whose side is one heat radius on screen,
// so each cell approximates one blob of the rendered heat layer. Cells are
// ordered densest first; equal counts keep grid order.
func Bin(points []types.Point, center types.Point, zoom, radius int) []Cell {
	if len(points) == 0 {
		return nil
	}
	if radius <= 0 {
		radius = 1
	}
	side := metersPerPixel(center.Lat, zoom) * float64(radius)
	latStep := side / metersPerDegreeLat
	lngStep := side / (metersPerDegreeLat * math.Max(math.Cos(degreesToRadians(center.Lat)), 1e-6))

	type key struct{ row, col int }
	type acc struct {
		latSum, lngSum float64
		n              int
	}
	index := make(map[key]*acc)
	var order []key
	for _, p := range points {
		k := key{
			row: int(math.Floor((p.Lat - center.Lat) / latStep)),
			col: int(math.Floor((p.Lng - center.Lng) / lngStep)),
		}
		a, ok := index[k]
		if !ok {
			a = &acc{}
			index[k] = a
			order = append(order, k)
		}
		a.latSum += p.Lat
		a.lngSum += p.Lng
		a.n++
	}

	cells := make([]Cell, 0, len(order))
	for _, k := range order {
		a := index[k]
		cells = append(cells, Cell{
			Centroid: types.Point{Lat: a.latSum / float64(a.n), Lng: a.lngSum / float64(a.n)},
			Count:    a.n,
			row:      k.row,
			col:      k.col,
		})
	}
	sortCells(cells)
	return cells
}

// sortCells performs an insertion sort (fine for the few hundred cells a city
// export produces): count descending, then row and column ascending.
func sortCells(cells []Cell) {
	less := func(a, b Cell) bool {
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.row != b.row {
			return a.row < b.row
		}
		return a.col < b.col
	}
	for i := 1; i < len(cells); i++ {
		key := cells[i]
		j := i - 1
		for j >= 0 && less(key, cells[j]) {
			cells[j+1] = cells[j]
			j--
		}
		cells[j+1] = key
	}
}

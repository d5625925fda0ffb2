// README: Static Maps renderer draws density tiers as marker groups and saves a PNG.
package heatmap

import (
	"context"
	"fmt"
	"image/png"
	"os"

	"googlemaps.github.io/maps"
)

const (
	defaultMaxMarkers = 60
	staticMapSize     = "640x640"
)

// tier colors from densest to sparsest.
var tierColors = []string{"red", "orange", "yellow"}

// StaticMapRenderer uses the Google Static Maps API. The URL length limit means
// only the densest cells are drawn.
type StaticMapRenderer struct {
	client     *maps.Client
	OutputPath string
	MaxMarkers int
}

func NewStaticMapRenderer(apiKey, outputPath string, opts ...maps.ClientOption) (*StaticMapRenderer, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &StaticMapRenderer{client: client, OutputPath: outputPath, MaxMarkers: defaultMaxMarkers}, nil
}

func (r *StaticMapRenderer) Render(ctx context.Context, req Request) (Artifact, error) {
	if len(req.Points) == 0 {
		return Artifact{}, ErrNoPoints
	}

	cells := Bin(req.Points, req.Center, req.Zoom, req.Radius)
	if r.MaxMarkers > 0 && len(cells) > r.MaxMarkers {
		cells = cells[:r.MaxMarkers]
	}
	smr := &maps.StaticMapRequest{
		Center:  fmt.Sprintf("%f,%f", req.Center.Lat, req.Center.Lng),
		Zoom:    req.Zoom,
		Size:    staticMapSize,
		Format:  maps.PNG8,
		MapType: maps.RoadMap,
		Markers: markerTiers(cells),
	}

	img, err := r.client.StaticMap(ctx, smr)
	if err != nil {
		return Artifact{}, fmt.Errorf("maps api error: %w", err)
	}
	if err := writeFile(r.OutputPath, func(f *os.File) error {
		return png.Encode(f, img)
	}); err != nil {
		return Artifact{}, err
	}
	return Artifact{Path: r.OutputPath, ContentType: ContentTypePNG, Points: len(req.Points)}, nil
}

// markerTiers splits cells (densest first) into one marker group per color,
// each holding cells whose count is within the tier's share of the maximum.
func markerTiers(cells []Cell) []maps.Marker {
	if len(cells) == 0 {
		return nil
	}
	peak := cells[0].Count
	groups := make([][]maps.LatLng, len(tierColors))
	for _, c := range cells {
		tier := len(tierColors) - 1 - (c.Count*len(tierColors)-1)/peak
		groups[tier] = append(groups[tier], maps.LatLng{Lat: c.Centroid.Lat, Lng: c.Centroid.Lng})
	}

	var markers []maps.Marker
	for i, locs := range groups {
		if len(locs) == 0 {
			continue
		}
		size := string(maps.Small)
		if i == 0 {
			size = string(maps.Mid)
		}
		markers = append(markers, maps.Marker{Color: tierColors[i], Size: size, Location: locs})
	}
	return markers
}

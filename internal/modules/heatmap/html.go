// README: HTML renderer writes a standalone Leaflet page with a heat layer.
package heatmap

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

var pageTmpl = template.Must(template.New("heatmap").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Dropoff heatmap</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet.heat@0.2.0/dist/leaflet-heat.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.Center.Lat}}, {{.Center.Lng}}], {{.Zoom}});
L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
L.heatLayer({{.Points}}, {radius: {{.Radius}}}).addTo(map);
</script>
</body>
</html>
`))

// HTMLRenderer needs no credentials; it is the default renderer.
type HTMLRenderer struct {
	OutputPath string
}

func NewHTMLRenderer(outputPath string) *HTMLRenderer {
	return &HTMLRenderer{OutputPath: outputPath}
}

func (r *HTMLRenderer) Render(ctx context.Context, req Request) (Artifact, error) {
	if len(req.Points) == 0 {
		return Artifact{}, ErrNoPoints
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	coords := make([][2]float64, len(req.Points))
	for i, p := range req.Points {
		coords[i] = [2]float64{p.Lat, p.Lng}
	}
	data := struct {
		Request
		Points [][2]float64
	}{Request: req, Points: coords}

	if err := writeFile(r.OutputPath, func(f *os.File) error {
		return pageTmpl.Execute(f, data)
	}); err != nil {
		return Artifact{}, err
	}
	return Artifact{Path: r.OutputPath, ContentType: ContentTypeHTML, Points: len(req.Points)}, nil
}

// writeFile replaces path atomically so readers never see a half-written map.
func writeFile(path string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".heatmap-*")
	if err != nil {
		return fmt.Errorf("create heatmap file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write heatmap: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close heatmap file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename heatmap file: %w", err)
	}
	return nil
}

// README: Heatmap request/artifact types shared by the renderers.
package heatmap

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"rideinsight/internal/types"
)

const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypePNG  = "image/png"
)

var (
	ErrNoPoints   = errors.New("heatmap has no points")
	ErrNoRenderer = errors.New("heatmap renderer not configured")
)

// Request asks for a density heatmap of Points around Center. Radius is the
// heat radius in screen pixels at the given Zoom.
type Request struct {
	Points []types.Point
	Center types.Point
	Zoom   int
	Radius int
}

// Artifact is the persisted map. Callers only need to hand it back to users.
type Artifact struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Points      int    `json:"points"`
}

// Renderer persists a heatmap for a request.
type Renderer interface {
	Render(ctx context.Context, req Request) (Artifact, error)
}

// NewRenderer picks the Static Maps PNG renderer when a Maps API key is set and
// the HTML renderer otherwise. The PNG goes next to outputPath with a .png extension.
func NewRenderer(mapsAPIKey, outputPath string) (Renderer, error) {
	if mapsAPIKey == "" {
		return NewHTMLRenderer(outputPath), nil
	}
	pngPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".png"
	r, err := NewStaticMapRenderer(mapsAPIKey, pngPath)
	if err != nil {
		return nil, err
	}
	return r, nil
}

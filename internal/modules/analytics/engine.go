// README: Engine dispatches a query id to its aggregate over the normalized table.
package analytics

import (
	"context"
	"fmt"

	"rideinsight/internal/modules/heatmap"
	"rideinsight/internal/modules/trips"
	"rideinsight/internal/types"
)

// HeatmapRenderer turns dropoff points into a persisted map artifact.
type HeatmapRenderer interface {
	Render(ctx context.Context, req heatmap.Request) (heatmap.Artifact, error)
}

type Settings struct {
	Center   types.Point
	Zoom     int
	Radius   int
	Currency string
}

type Engine struct {
	renderer HeatmapRenderer
	settings Settings
}

func NewEngine(renderer HeatmapRenderer, settings Settings) *Engine {
	return &Engine{renderer: renderer, settings: settings}
}

// Run computes one report. Only the heatmap query can fail, and only when the
// renderer does; every other query is total over any table.
func (e *Engine) Run(ctx context.Context, id QueryID, tbl *trips.Table) (Report, error) {
	var r Report
	switch id {
	case QueryCompletedByYear:
		r = completedByYear(tbl.Completed())
	case QueryStatusBreakdown:
		r = statusBreakdown(tbl.All())
	case QueryDropoffHeatmap:
		var err error
		if r, err = e.dropoffHeatmap(ctx, tbl.Completed()); err != nil {
			return Report{}, err
		}
	case QueryProductShare:
		r = productShare(tbl.Completed())
	case QueryTripSummary:
		r = tripSummary(tbl.Completed(), e.settings.Currency)
	case QueryFarePerKmPivot:
		r = farePerKmPivot(tbl.Completed())
	case QueryDistanceExtremes:
		r = distanceExtremes(tbl.Completed())
	case QueryLeadTime:
		r = leadTime(tbl.Completed())
	default:
		return InvalidChoice(), nil
	}
	r.Query = id
	r.Title = id.Title()
	if r.NoData && r.Message == "" {
		r.Message = NoDataMessage
	}
	return r, nil
}

func (e *Engine) dropoffHeatmap(ctx context.Context, completed []trips.Trip) (Report, error) {
	if len(completed) == 0 {
		return Report{Kind: KindArtifact, NoData: true}, nil
	}
	points := make([]types.Point, 0, len(completed))
	for _, t := range completed {
		points = append(points, types.Point{Lat: t.DropoffLat.Float64, Lng: t.DropoffLng.Float64})
	}
	if e.renderer == nil {
		return Report{}, fmt.Errorf("render heatmap: %w", heatmap.ErrNoRenderer)
	}
	art, err := e.renderer.Render(ctx, heatmap.Request{
		Points: points,
		Center: e.settings.Center,
		Zoom:   e.settings.Zoom,
		Radius: e.settings.Radius,
	})
	if err != nil {
		return Report{}, fmt.Errorf("render heatmap: %w", err)
	}
	return Report{Kind: KindArtifact, Artifact: &art, Message: HeatmapMessage}, nil
}

// README: Heatmap handler renders the dropoff heatmap and serves the artifact file.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideinsight/internal/modules/analytics"
)

type HeatmapHandler struct {
	queries *analytics.Service
}

func NewHeatmapHandler(svc *analytics.Service) *HeatmapHandler {
	return &HeatmapHandler{queries: svc}
}

// Get handles GET /api/heatmap.
func (h *HeatmapHandler) Get(c *gin.Context) {
	report, err := h.queries.Run(c.Request.Context(), analytics.QueryDropoffHeatmap)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	if report.NoData || report.Artifact == nil {
		writeError(c, http.StatusNotFound, report.Message)
		return
	}
	c.Header("Content-Type", report.Artifact.ContentType)
	c.File(report.Artifact.Path)
}

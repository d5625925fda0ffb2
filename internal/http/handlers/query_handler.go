// README: Query handlers list the menu, run one query, and report load health.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideinsight/internal/modules/analytics"
)

type QueryHandler struct {
	queries *analytics.Service
}

func NewQueryHandler(svc *analytics.Service) *QueryHandler {
	return &QueryHandler{queries: svc}
}

type queryResponse struct {
	Report analytics.Report `json:"report"`
	Text   string           `json:"text"`
}

func newQueryResponse(r analytics.Report) queryResponse {
	return queryResponse{Report: r, Text: r.Text()}
}

// List handles GET /api/queries.
func (h *QueryHandler) List(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"queries": h.queries.Queries()})
}

// Run handles POST /api/queries/:id.
func (h *QueryHandler) Run(c *gin.Context) {
	id, err := analytics.ParseQueryID(c.Param("id"))
	if err != nil {
		writeQueryError(c, err)
		return
	}
	report, err := h.queries.Run(c.Request.Context(), id)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newQueryResponse(report))
}

// Health handles GET /health.
func (h *QueryHandler) Health(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"status": "ok", "stats": h.queries.Stats()})
}

// README: Ask handler lets Gemini pick a query for a free-form question, then runs it.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"rideinsight/internal/ai"
	"rideinsight/internal/modules/analytics"
)

type AIHandler struct {
	ai      ai.LLMProvider
	queries *analytics.Service
}

// NewAIHandler accepts a nil provider; Ask then answers 503.
func NewAIHandler(provider ai.LLMProvider, svc *analytics.Service) *AIHandler {
	return &AIHandler{ai: provider, queries: svc}
}

type askReq struct {
	Question string `json:"question"`
}

type askResp struct {
	Query  analytics.QueryID `json:"query"`
	Reply  string            `json:"reply"`
	Report analytics.Report  `json:"report"`
	Text   string            `json:"text"`
}

// Ask handles POST /api/ask.
func (h *AIHandler) Ask(c *gin.Context) {
	if h.ai == nil {
		writeQueryError(c, ai.ErrNoProvider)
		return
	}
	var req askReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		writeError(c, http.StatusBadRequest, "missing question")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	intent, err := h.ai.ChooseQuery(ctx, req.Question, h.queries.Queries())
	if err != nil {
		writeQueryError(c, err)
		return
	}
	report, err := h.queries.Submit(ctx, intent.Query)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, askResp{
		Query:  report.Query,
		Reply:  intent.Reply,
		Report: report,
		Text:   report.Text(),
	})
}

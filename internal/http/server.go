// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"rideinsight/internal/ai"
	"rideinsight/internal/http/handlers"
	"rideinsight/internal/http/middleware"
	"rideinsight/internal/modules/analytics"
)

type ServerDeps struct {
	Queries *analytics.Service
	// AI is optional; nil disables /api/ask.
	AI ai.LLMProvider
}

type Server struct {
	queries *analytics.Service
	ai      ai.LLMProvider
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		queries: deps.Queries,
		ai:      deps.AI,
	}
}

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsConfig))

	formHandler := handlers.NewFormHandler(s.queries)
	r.GET("/", formHandler.Show)
	r.POST("/", formHandler.Submit)

	queryHandler := handlers.NewQueryHandler(s.queries)
	r.GET("/api/queries", queryHandler.List)
	r.POST("/api/queries/:id", queryHandler.Run)
	r.GET("/health", queryHandler.Health)

	heatmapHandler := handlers.NewHeatmapHandler(s.queries)
	r.GET("/api/heatmap", heatmapHandler.Get)

	aiHandler := handlers.NewAIHandler(s.ai, s.queries)
	r.POST("/api/ask", aiHandler.Ask)

	return r
}

package handlers

import (
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Pages     *PageHandler
	Records   *RecordsHandler
	Cards     *CardHandler
	Documents *DocumentHandler
	Health    *HealthHandler
}

// RegisterRoutes mounts the pages and the /api/v1 group. Unknown paths
// render the home page.
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/", h.Pages.Home)
	r.GET("/diagrams1", h.Pages.Diagrams1)
	r.GET("/diagrams2", h.Pages.Diagrams2)
	r.GET("/diagrams3", h.Pages.Diagrams3)
	r.GET("/contact", h.Pages.Contact)
	r.GET("/details/*name", h.Pages.Details)
	r.NoRoute(h.Pages.Home)

	api := r.Group("/api/v1")

	api.GET("/records", h.Records.GetRecords)
	api.GET("/records/options", h.Records.GetOptions)
	api.GET("/records/latest", h.Records.GetLatest)
	api.GET("/records/export", h.Records.ExportRecords)
	api.GET("/revisions/latest", h.Records.GetRevisions)
	api.POST("/panels/toggle", h.Records.TogglePanels)

	api.GET("/cards", h.Cards.ListCards)
	api.POST("/cards/:id/upload", h.Cards.Upload)
	api.GET("/cards/:id/figure", h.Cards.GetFigure)
	api.GET("/cards/:id/chart", h.Cards.GetChart)
	api.GET("/cards/:id/data", h.Cards.GetData)
	api.GET("/cards/:id/image", h.Cards.GetImage)
	api.DELETE("/cards/:id", h.Cards.ClearCard)
	api.POST("/events", h.Cards.Dispatch)

	api.GET("/documents", h.Documents.ListDocuments)
	api.GET("/documents/:side/:name/view", h.Documents.ViewDocument)
	api.GET("/documents/:side/:name/download", h.Documents.DownloadDocument)
	api.GET("/benchmark", h.Documents.GetBenchmark)
	api.GET("/benchmark/export", h.Documents.ExportBenchmark)

	api.GET("/health", h.Health.Health)
}

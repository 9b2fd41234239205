package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"pmdash/internal/chart"
	"pmdash/internal/models"
	"pmdash/internal/repository"
	"pmdash/internal/service"
	"pmdash/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templatesFS embed.FS

const appTitle = "Power Module Datasheet"

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"typeName": models.StripTypeNameMarkdown,
		"join":     strings.Join,
	}
	return template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
}

// Launcher starts the companion app and returns the feedback line.
type Launcher interface {
	Launch() (string, error)
}

type pageData struct {
	Title     string
	Active    string
	Options   repository.FilterOptions
	Revisions []models.RevisionRow
	Cards     []chart.Template
	Documents service.DocumentCatalog
	Columns   []string
	Benchmark []models.BenchmarkRow
	Feedback  string
	TypeName  string
}

type PageHandler struct {
	query     service.QueryService
	cards     service.CardService
	docs      service.DocumentService
	bench     service.BenchmarkService
	companion Launcher
}

func NewPageHandler(
	query service.QueryService,
	cards service.CardService,
	docs service.DocumentService,
	bench service.BenchmarkService,
	companion Launcher,
) *PageHandler {
	return &PageHandler{
		query:     query,
		cards:     cards,
		docs:      docs,
		bench:     bench,
		companion: companion,
	}
}

func (h *PageHandler) render(c *gin.Context, name string, data pageData) {
	data.Title = appTitle
	c.HTML(http.StatusOK, name, data)
}

func (h *PageHandler) Home(c *gin.Context) {
	h.render(c, "home.html", pageData{
		Active:    "home",
		Options:   h.query.Options(),
		Revisions: h.query.Revisions(),
	})
}

func (h *PageHandler) Diagrams1(c *gin.Context) {
	h.render(c, "diagrams1.html", pageData{Active: "diagrams", Cards: h.cards.Cards()})
}

// Diagrams2 launches the companion app on the first visit.
func (h *PageHandler) Diagrams2(c *gin.Context) {
	data := pageData{Active: "diagrams"}
	if h.companion != nil {
		feedback, err := h.companion.Launch()
		if err != nil && !errors.Is(err, worker.ErrNoCompanion) {
			log.Warn().Err(err).Msg("companion launch from diagrams page failed")
		}
		data.Feedback = feedback
	}
	h.render(c, "diagrams2.html", data)
}

func (h *PageHandler) Diagrams3(c *gin.Context) {
	h.render(c, "diagrams3.html", pageData{
		Active:    "diagrams",
		Documents: h.docs.Catalog(),
		Columns:   models.BenchmarkColumns,
		Benchmark: h.bench.Rows(),
	})
}

func (h *PageHandler) Contact(c *gin.Context) {
	h.render(c, "contact.html", pageData{Active: "contact"})
}

func (h *PageHandler) Details(c *gin.Context) {
	name := models.StripTypeNameMarkdown(strings.TrimPrefix(c.Param("name"), "/"))
	h.render(c, "details.html", pageData{TypeName: name})
}

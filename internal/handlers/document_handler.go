package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"pmdash/internal/models"
	"pmdash/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type DocumentHandler struct {
	docs  service.DocumentService
	bench service.BenchmarkService
}

func NewDocumentHandler(docs service.DocumentService, bench service.BenchmarkService) *DocumentHandler {
	return &DocumentHandler{docs: docs, bench: bench}
}

func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	c.JSON(http.StatusOK, h.docs.Catalog())
}

func (h *DocumentHandler) ViewDocument(c *gin.Context) {
	h.serveDocument(c, "inline")
}

func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	h.serveDocument(c, "attachment")
}

func (h *DocumentHandler) serveDocument(c *gin.Context, disposition string) {
	side, label := c.Param("side"), c.Param("name")

	name, data, err := h.docs.Open(c.Request.Context(), side, label)
	switch {
	case errors.Is(err, service.ErrUnknownDocument):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown document", "side": side, "name": label})
		return
	case errors.Is(err, service.ErrDocumentMissing):
		log.Warn().Err(err).Str("side", side).Str("name", label).Msg("document unavailable")
		c.Status(http.StatusNoContent)
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open document", "message": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, name))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *DocumentHandler) GetBenchmark(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"columns": models.BenchmarkColumns,
		"rows":    h.bench.Rows(),
	})
}

func (h *DocumentHandler) ExportBenchmark(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	var (
		data        []byte
		err         error
		contentType string
	)
	switch format {
	case "csv":
		data, err = h.bench.ExportCSV()
		contentType = "text/csv; charset=utf-8"
	case "xlsx":
		data, err = h.bench.ExportExcel()
		contentType = xlsxContentType
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format", "format": format})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export benchmark", "message": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, service.BenchmarkFilename, format))
	c.Data(http.StatusOK, contentType, data)
}

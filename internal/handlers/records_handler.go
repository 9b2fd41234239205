package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"pmdash/internal/repository"
	"pmdash/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RecordsHandler struct {
	query  service.QueryService
	panels service.PanelService
}

func NewRecordsHandler(query service.QueryService, panels service.PanelService) *RecordsHandler {
	return &RecordsHandler{query: query, panels: panels}
}

// filterQuery reads module, power and year. Missing values fall back to
// "All" and the newest report year.
func (h *RecordsHandler) filterQuery(c *gin.Context) (repository.FilterQuery, error) {
	q := repository.FilterQuery{
		Module: c.DefaultQuery("module", repository.AllOption),
		Power:  c.DefaultQuery("power", repository.AllOption),
		Year:   h.query.Options().DefaultYear,
	}
	if yearStr := strings.TrimSpace(c.Query("year")); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return q, fmt.Errorf("invalid year %q", yearStr)
		}
		q.Year = year
	}
	return q, nil
}

func (h *RecordsHandler) GetRecords(c *gin.Context) {
	q, err := h.filterQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultPageSize)))

	c.JSON(http.StatusOK, h.query.Records(q, page, limit))
}

func (h *RecordsHandler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.query.Options())
}

func (h *RecordsHandler) GetLatest(c *gin.Context) {
	c.JSON(http.StatusOK, h.query.Latest())
}

func (h *RecordsHandler) GetRevisions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"revisions": h.query.Revisions()})
}

func (h *RecordsHandler) ExportRecords(c *gin.Context) {
	q, err := h.filterQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := h.query.Export(q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to export records",
			"message": err.Error(),
		})
		return
	}

	filename := fmt.Sprintf("datasheet_%d.xlsx", q.Year)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

type toggleRequest struct {
	Trigger string              `json:"trigger"`
	State   service.PanelState `json:"state"`
}

func (h *RecordsHandler) TogglePanels(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid toggle request", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.panels.Toggle(req.Trigger, req.State))
}

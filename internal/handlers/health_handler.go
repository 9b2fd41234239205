package handlers

import (
	"net/http"
	"time"

	"pmdash/internal/repository"

	"github.com/gin-gonic/gin"
)

// StatsFunc reports upload store statistics. Nil means the memory store.
type StatsFunc func() (map[string]string, error)

type HealthHandler struct {
	dataset repository.DatasetRepository
	stats   StatsFunc
}

func NewHealthHandler(dataset repository.DatasetRepository, stats StatsFunc) *HealthHandler {
	return &HealthHandler{dataset: dataset, stats: stats}
}

func (h *HealthHandler) Health(c *gin.Context) {
	store := gin.H{"backend": "memory"}
	if h.stats != nil {
		stats, err := h.stats()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "degraded",
				"error":   "redis unavailable",
				"message": err.Error(),
			})
			return
		}
		store = gin.H{"backend": "redis", "stats": stats}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"records":   h.dataset.Count(),
		"uploads":   store,
	})
}

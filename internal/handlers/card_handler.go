package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pmdash/internal/chart"
	"pmdash/internal/middleware"
	"pmdash/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxImageSide = 4000

type CardHandler struct {
	cards    service.CardService
	maxBytes int64
}

func NewCardHandler(cards service.CardService, maxBytes int64) *CardHandler {
	return &CardHandler{cards: cards, maxBytes: maxBytes}
}

// cardError maps service errors onto status codes. It reports whether a
// response was written.
func cardError(c *gin.Context, err error, action string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, chart.ErrUnknownCard):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown card", "card": c.Param("id")})
	case errors.Is(err, chart.ErrBadTrigger):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trigger", "message": err.Error()})
	case errors.Is(err, chart.ErrNoData):
		c.Status(http.StatusNoContent)
	default:
		log.Error().Err(err).Str("card", c.Param("id")).Msg(action)
		c.JSON(http.StatusInternalServerError, gin.H{"error": action, "message": err.Error()})
	}
	return true
}

func (h *CardHandler) ListCards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cards": h.cards.Cards()})
}

type uploadRequest struct {
	Contents string `json:"contents"`
	Filename string `json:"filename"`
}

func (h *CardHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":     "upload too large",
				"max_bytes": h.maxBytes,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload", "message": err.Error()})
		return
	}

	res, err := h.cards.Upload(c.Request.Context(), middleware.SessionID(c), c.Param("id"), req.Contents, req.Filename)
	if cardError(c, err, "failed to store upload") {
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *CardHandler) GetFigure(c *gin.Context) {
	fig, err := h.cards.Figure(c.Request.Context(), middleware.SessionID(c), c.Param("id"))
	if cardError(c, err, "failed to build figure") {
		return
	}
	c.JSON(http.StatusOK, fig)
}

func (h *CardHandler) GetChart(c *gin.Context) {
	page, err := h.cards.ChartPage(c.Request.Context(), middleware.SessionID(c), c.Param("id"))
	if cardError(c, err, "failed to render chart") {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// GetData returns the uploaded table as an HTML fragment, or 204 when the
// card holds nothing.
func (h *CardHandler) GetData(c *gin.Context) {
	body, err := h.cards.Preview(c.Request.Context(), middleware.SessionID(c), c.Param("id"))
	if cardError(c, err, "failed to render data") {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}

func imageSide(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return def
	}
	if n > maxImageSide {
		return maxImageSide
	}
	return n
}

func (h *CardHandler) GetImage(c *gin.Context) {
	id := c.Param("id")
	width := imageSide(c, "width", chart.DefaultWidth)
	height := imageSide(c, "height", chart.DefaultHeight)

	data, err := h.cards.Image(c.Request.Context(), middleware.SessionID(c), id, width, height)
	if cardError(c, err, "failed to render image") {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.png"`, id))
	c.Data(http.StatusOK, "image/png", data)
}

func (h *CardHandler) ClearCard(c *gin.Context) {
	err := h.cards.Clear(c.Request.Context(), middleware.SessionID(c), c.Param("id"))
	if cardError(c, err, "failed to clear card") {
		return
	}
	c.Status(http.StatusNoContent)
}

type eventRequest struct {
	PropID string `json:"prop_id" binding:"required"`
}

// Dispatch handles clicks on the Data, Save Picture and Close buttons.
func (h *CardHandler) Dispatch(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event", "message": err.Error()})
		return
	}

	res, err := h.cards.Dispatch(c.Request.Context(), middleware.SessionID(c), req.PropID)
	if errors.Is(err, chart.ErrUnknownCard) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown card", "message": err.Error()})
		return
	}
	if cardError(c, err, "failed to dispatch event") {
		return
	}
	c.JSON(http.StatusOK, res)
}

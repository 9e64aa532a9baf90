package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/okravets/case-records/internal/database"
)

type caseLinkCreateRequest struct {
	CaseID    uint    `json:"caseId" binding:"required"`
	ArticleID uint    `json:"articleId" binding:"required"`
	Date      *string `json:"date"`
}

type caseLinkUpdateRequest struct {
	ArticleID *uint   `json:"articleId"`
	Date      *string `json:"date"`
}

// ListCaseLinks returns all case-to-article links; the caseId query
// parameter filters by case.
func (h *Handlers) ListCaseLinks(c *gin.Context) {
	caseID, ok := uintQuery(c, "caseId")
	if !ok {
		return
	}
	links, err := h.records.ListCaseLinks(caseID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

// GetCaseLink returns one link by id.
func (h *Handlers) GetCaseLink(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	link, err := h.records.GetCaseLink(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// CreateCaseLink charges a case under an article.
func (h *Handlers) CreateCaseLink(c *gin.Context) {
	var req caseLinkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	link := database.CaseLink{
		CaseID:    req.CaseID,
		ArticleID: req.ArticleID,
	}
	if req.Date != nil && *req.Date != "" {
		date, err := parseDate(*req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		link.Date = date
	}

	if err := h.records.CreateCaseLink(&link); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

// UpdateCaseLink changes the charged article or the attachment date.
func (h *Handlers) UpdateCaseLink(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req caseLinkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		date = &parsed
	}

	link, err := h.records.UpdateCaseLink(id, req.ArticleID, date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// DeleteCaseLink removes a charge from a case.
func (h *Handlers) DeleteCaseLink(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.records.DeleteCaseLink(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

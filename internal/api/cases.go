package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okravets/case-records/internal/records"
)

type caseCreateRequest struct {
	ConvictID      uint             `json:"convictId" binding:"required"`
	InvestigatorID uint             `json:"investigatorId" binding:"required"`
	Status         string           `json:"status" binding:"required,oneof=active closed pending"`
	ArticleID      *uint            `json:"articleId"`
	LinkDate       *string          `json:"linkDate"`
	Sentence       *sentencePayload `json:"sentence"`
}

type caseUpdateRequest struct {
	ConvictID      *uint            `json:"convictId"`
	InvestigatorID *uint            `json:"investigatorId"`
	Status         *string          `json:"status" binding:"omitempty,oneof=active closed pending"`
	Sentence       *sentencePayload `json:"sentence"`
}

// ListCases returns all cases with their participants and charges; the
// convictId query parameter filters by convict.
func (h *Handlers) ListCases(c *gin.Context) {
	convictID, ok := uintQuery(c, "convictId")
	if !ok {
		return
	}
	cases, err := h.records.ListCases(convictID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cases)
}

// GetCase returns one case with convict, investigator, charges and
// sentences expanded.
func (h *Handlers) GetCase(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	result, err := h.records.GetCase(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateCase creates a case, optionally with one initial charge and one
// sentence, as a single unit.
func (h *Handlers) CreateCase(c *gin.Context) {
	var req caseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	input := records.CaseInput{
		ConvictID:      req.ConvictID,
		InvestigatorID: req.InvestigatorID,
		Status:         req.Status,
		ArticleID:      req.ArticleID,
	}
	if req.LinkDate != nil && *req.LinkDate != "" {
		date, err := parseDate(*req.LinkDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid linkDate"})
			return
		}
		input.LinkDate = &date
	}
	if req.Sentence != nil {
		sentence, err := req.Sentence.toInput()
		if err != nil {
			h.respondError(c, err)
			return
		}
		input.Sentence = sentence
	}

	created, err := h.records.CreateCase(input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateCase updates the case's scalar fields and applies the sentence
// rule: a sentence in the payload is upserted in place, an absent one
// deletes the case's existing sentence.
func (h *Handlers) UpdateCase(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req caseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	upd := records.CaseUpdate{
		ConvictID:      req.ConvictID,
		InvestigatorID: req.InvestigatorID,
		Status:         req.Status,
	}
	if req.Sentence != nil {
		sentence, err := req.Sentence.toInput()
		if err != nil {
			h.respondError(c, err)
			return
		}
		upd.Sentence = sentence
	}

	updated, err := h.records.UpdateCase(id, upd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteCase cascade-deletes a case with its links and sentences.
func (h *Handlers) DeleteCase(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.records.DeleteCase(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

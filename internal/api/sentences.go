package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okravets/case-records/internal/database"
)

type sentenceCreateRequest struct {
	ConvictID uint `json:"convictId" binding:"required"`
	CaseID    uint `json:"caseId" binding:"required"`
	sentencePayload
}

// ListSentences returns all sentences with their convict and case
// expanded; the convictId query parameter filters by convict.
func (h *Handlers) ListSentences(c *gin.Context) {
	convictID, ok := uintQuery(c, "convictId")
	if !ok {
		return
	}
	sentences, err := h.records.ListSentences(convictID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sentences)
}

// GetSentence returns one sentence by id.
func (h *Handlers) GetSentence(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	sentence, err := h.records.GetSentence(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sentence)
}

// CreateSentence attaches a sentence to a case/convict pair.
func (h *Handlers) CreateSentence(c *gin.Context) {
	var req sentenceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.respondError(c, err)
		return
	}

	sentence := database.Sentence{
		ConvictID: req.ConvictID,
		CaseID:    req.CaseID,
		Type:      input.Type,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		TermYears: input.TermYears,
		Location:  input.Location,
	}
	if err := h.records.CreateSentence(&sentence); err != nil {
		h.respondError(c, err)
		return
	}

	full, err := h.records.GetSentence(sentence.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, full)
}

// UpdateSentence replaces a sentence's editable fields.
func (h *Handlers) UpdateSentence(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req sentencePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.respondError(c, err)
		return
	}

	sentence, err := h.records.UpdateSentence(id, *input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sentence)
}

// DeleteSentence removes a sentence.
func (h *Handlers) DeleteSentence(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.records.DeleteSentence(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okravets/case-records/internal/database"
)

type investigatorCreateRequest struct {
	FIO      string `json:"fio" binding:"required"`
	Position string `json:"position" binding:"required"`
}

type investigatorUpdateRequest struct {
	FIO      *string `json:"fio" binding:"omitempty,min=1"`
	Position *string `json:"position" binding:"omitempty,min=1"`
}

// ListInvestigators returns all investigators with their cases.
func (h *Handlers) ListInvestigators(c *gin.Context) {
	investigators, err := h.records.ListInvestigators()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, investigators)
}

// GetInvestigator returns one investigator by id.
func (h *Handlers) GetInvestigator(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	investigator, err := h.records.GetInvestigator(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, investigator)
}

// CreateInvestigator creates an investigator record.
func (h *Handlers) CreateInvestigator(c *gin.Context) {
	var req investigatorCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	investigator := database.Investigator{
		FIO:      req.FIO,
		Position: req.Position,
	}
	if err := h.records.CreateInvestigator(&investigator); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, investigator)
}

// UpdateInvestigator partially updates an investigator record.
func (h *Handlers) UpdateInvestigator(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req investigatorUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	investigator, err := h.records.UpdateInvestigator(id, req.FIO, req.Position)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, investigator)
}

// DeleteInvestigator removes an investigator; refused while cases still
// reference them.
func (h *Handlers) DeleteInvestigator(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.records.DeleteInvestigator(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

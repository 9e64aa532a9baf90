package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okravets/case-records/internal/database"
	"github.com/okravets/case-records/internal/records"
)

type convictCreateRequest struct {
	FIO       string  `json:"fio" binding:"required"`
	BirthDate *string `json:"birthDate"`
	Address   string  `json:"address"`
	Contact   *string `json:"contact"`
}

type convictUpdateRequest struct {
	FIO       *string `json:"fio" binding:"omitempty,min=1"`
	BirthDate *string `json:"birthDate"`
	Address   *string `json:"address"`
	Contact   *string `json:"contact"`
}

// ListConvicts returns all convicts ordered by name, with their cases and
// sentences expanded.
func (h *Handlers) ListConvicts(c *gin.Context) {
	convicts, err := h.records.ListConvicts()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, convicts)
}

// GetConvict returns one convict by id.
func (h *Handlers) GetConvict(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	convict, err := h.records.GetConvict(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, convict)
}

// CreateConvict creates a convict record.
func (h *Handlers) CreateConvict(c *gin.Context) {
	var req convictCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	convict := database.Convict{
		FIO:     req.FIO,
		Address: req.Address,
		Contact: req.Contact,
	}
	if req.BirthDate != nil && *req.BirthDate != "" {
		birth, err := parseDate(*req.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birthDate"})
			return
		}
		convict.BirthDate = &birth
	}

	if err := h.records.CreateConvict(&convict); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, convict)
}

// UpdateConvict partially updates a convict record.
func (h *Handlers) UpdateConvict(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req convictUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	upd := records.ConvictUpdate{
		FIO:     req.FIO,
		Address: req.Address,
		Contact: req.Contact,
	}
	if req.BirthDate != nil && *req.BirthDate != "" {
		birth, err := parseDate(*req.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birthDate"})
			return
		}
		upd.BirthDate = &birth
	}

	convict, err := h.records.UpdateConvict(id, upd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, convict)
}

// DeleteConvict cascade-deletes a convict with all their cases and
// sentences.
func (h *Handlers) DeleteConvict(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.records.DeleteConvict(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

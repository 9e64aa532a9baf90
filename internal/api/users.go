package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okravets/case-records/internal/auth"
	"github.com/okravets/case-records/internal/database"
	"github.com/okravets/case-records/internal/records"
)

type userCreateRequest struct {
	Login          string `json:"login" binding:"required"`
	Password       string `json:"password" binding:"required,min=6"`
	Role           string `json:"role" binding:"required,oneof=admin investigator"`
	InvestigatorID *uint  `json:"investigatorId"`
}

type userUpdateRequest struct {
	Login          *string `json:"login" binding:"omitempty,min=1"`
	Password       *string `json:"password" binding:"omitempty,min=6"`
	Role           *string `json:"role" binding:"omitempty,oneof=admin investigator"`
	InvestigatorID *uint   `json:"investigatorId"`
}

// ListUsers returns all accounts with their linked investigators. Password
// hashes are never serialized.
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.records.ListUsers()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns one account by id.
func (h *Handlers) GetUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	user, err := h.records.GetUser(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser creates a login account with a bcrypt-hashed password.
func (h *Handlers) CreateUser(c *gin.Context) {
	var req userCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.BcryptCost)
	if err != nil {
		h.respondError(c, err)
		return
	}

	user := database.User{
		Login:          req.Login,
		Password:       hash,
		Role:           req.Role,
		InvestigatorID: req.InvestigatorID,
	}
	if err := h.records.CreateUser(&user); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser partially updates an account; a new password is re-hashed.
func (h *Handlers) UpdateUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	upd := records.UserUpdate{
		Login:          req.Login,
		Role:           req.Role,
		InvestigatorID: req.InvestigatorID,
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password, h.cfg.BcryptCost)
		if err != nil {
			h.respondError(c, err)
			return
		}
		upd.Password = &hash
	}

	user, err := h.records.UpdateUser(id, upd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account and its sessions.
func (h *Handlers) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	// Evict the account's cached tokens before the rows go away.
	if err := h.gate.RevokeUserSessions(id); err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.records.DeleteUser(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

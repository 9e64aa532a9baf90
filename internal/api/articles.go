package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okravets/case-records/internal/database"
)

type articleCreateRequest struct {
	Number      string  `json:"number" binding:"required"`
	Description *string `json:"description"`
}

type articleUpdateRequest struct {
	Number      *string `json:"number" binding:"omitempty,min=1"`
	Description *string `json:"description"`
}

// ListArticles returns all statute articles.
func (h *Handlers) ListArticles(c *gin.Context) {
	articles, err := h.records.ListArticles()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetArticle returns one article by id.
func (h *Handlers) GetArticle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	article, err := h.records.GetArticle(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// CreateArticle creates a statute article.
func (h *Handlers) CreateArticle(c *gin.Context) {
	var req articleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	article := database.Article{
		Number:      req.Number,
		Description: req.Description,
	}
	if err := h.records.CreateArticle(&article); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// UpdateArticle partially updates an article.
func (h *Handlers) UpdateArticle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req articleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	article, err := h.records.UpdateArticle(id, req.Number, req.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// DeleteArticle removes an article and its case links.
func (h *Handlers) DeleteArticle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.records.DeleteArticle(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

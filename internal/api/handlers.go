package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/okravets/case-records/internal/auth"
	"github.com/okravets/case-records/internal/cache"
	"github.com/okravets/case-records/internal/config"
	"github.com/okravets/case-records/internal/records"
	"github.com/okravets/case-records/pkg/logger"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	records  *records.Service
	gate     *auth.Gate
	sessions cache.SessionCache
	logger   *logger.Logger
	cfg      *config.Config
}

// NewHandlers creates a new handlers instance
func NewHandlers(recordsSvc *records.Service, gate *auth.Gate, sessions cache.SessionCache, log *logger.Logger, cfg *config.Config) *Handlers {
	return &Handlers{
		records:  recordsSvc,
		gate:     gate,
		sessions: sessions,
		logger:   log,
		cfg:      cfg,
	}
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	dbHealthy := h.records.Ping() == nil

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": dbHealthy,
		"cache":    h.sessions.Stats(),
		"time":     time.Now().Unix(),
	})
}

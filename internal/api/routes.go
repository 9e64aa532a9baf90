package api

import (
	"github.com/gin-gonic/gin"

	"github.com/okravets/case-records/internal/auth"
	"github.com/okravets/case-records/internal/cache"
	"github.com/okravets/case-records/internal/config"
	"github.com/okravets/case-records/internal/database"
	"github.com/okravets/case-records/internal/records"
	"github.com/okravets/case-records/pkg/logger"
)

// SetupRoutes configures all application routes. Every route under the
// authenticated group re-checks the caller's session server-side; user and
// investigator mutations additionally require the admin role.
func SetupRoutes(router *gin.Engine, recordsSvc *records.Service, gate *auth.Gate, sessions cache.SessionCache, log *logger.Logger, cfg *config.Config) {
	h := NewHandlers(recordsSvc, gate, sessions, log, cfg)

	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.POST("/auth/login", h.Login)
	}

	authed := api.Group("", auth.RequireAuth(gate))
	{
		authed.GET("/auth/check", h.Check)
		authed.POST("/auth/logout", h.Logout)

		authed.GET("/articles", h.ListArticles)
		authed.POST("/articles", h.CreateArticle)
		authed.GET("/articles/:id", h.GetArticle)
		authed.PATCH("/articles/:id", h.UpdateArticle)
		authed.DELETE("/articles/:id", h.DeleteArticle)

		authed.GET("/convicts", h.ListConvicts)
		authed.POST("/convicts", h.CreateConvict)
		authed.GET("/convicts/:id", h.GetConvict)
		authed.PATCH("/convicts/:id", h.UpdateConvict)
		authed.DELETE("/convicts/:id", h.DeleteConvict)

		authed.GET("/cases", h.ListCases)
		authed.POST("/cases", h.CreateCase)
		authed.GET("/cases/:id", h.GetCase)
		authed.PATCH("/cases/:id", h.UpdateCase)
		authed.DELETE("/cases/:id", h.DeleteCase)

		authed.GET("/case-links", h.ListCaseLinks)
		authed.POST("/case-links", h.CreateCaseLink)
		authed.GET("/case-links/:id", h.GetCaseLink)
		authed.PATCH("/case-links/:id", h.UpdateCaseLink)
		authed.DELETE("/case-links/:id", h.DeleteCaseLink)

		authed.GET("/sentences", h.ListSentences)
		authed.POST("/sentences", h.CreateSentence)
		authed.GET("/sentences/:id", h.GetSentence)
		authed.PATCH("/sentences/:id", h.UpdateSentence)
		authed.DELETE("/sentences/:id", h.DeleteSentence)

		authed.GET("/investigators", h.ListInvestigators)
		authed.GET("/investigators/:id", h.GetInvestigator)
	}

	admin := authed.Group("", auth.RequireRole(database.RoleAdmin))
	{
		admin.POST("/investigators", h.CreateInvestigator)
		admin.PATCH("/investigators/:id", h.UpdateInvestigator)
		admin.DELETE("/investigators/:id", h.DeleteInvestigator)

		admin.GET("/users", h.ListUsers)
		admin.POST("/users", h.CreateUser)
		admin.GET("/users/:id", h.GetUser)
		admin.PATCH("/users/:id", h.UpdateUser)
		admin.DELETE("/users/:id", h.DeleteUser)
	}
}

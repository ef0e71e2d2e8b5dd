package web

import (
	"github.com/gin-gonic/gin"

	"contact-importer/auth"
	"contact-importer/ccapi"
	"contact-importer/common"
	"contact-importer/config"
	"contact-importer/exports"
	"contact-importer/imports"
	"contact-importer/tasks"
)

// NewRouter assembles the HTTP surface: the OAuth login flow, the contact
// proxy, and the import/export/task endpoints, all behind the token
// middleware except health and auth.
func NewRouter(cfg *config.Config, api *ccapi.Client) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(common.MetricsMiddleware())
	r.RedirectTrailingSlash = false

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth.RegisterRoutes(r.Group("/auth"), cfg)

	ch := &contactsHandler{api: api}
	contactsGroup := r.Group("/contacts", auth.RequireToken())
	contactsGroup.GET("", ch.listContacts)
	contactsGroup.GET("/:contact_id", ch.getContact)
	contactsGroup.DELETE("/:contact_id", ch.deleteContact)

	imports.RegisterRoutes(r.Group("/imports", auth.RequireToken()), api, cfg.UploadsDir)
	exports.RegisterRoutes(r.Group("/exports", auth.RequireToken()), api, cfg.ExportsDir)
	tasks.RegisterRoutes(r.Group("/tasks", auth.RequireToken()), api)

	return r
}

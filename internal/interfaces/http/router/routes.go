package router

import (
	"github.com/Patrickscodegit/Beconnect-sub010/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers the API is built from
type Handlers struct {
	System    *handler.SystemHandler
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Port      *handler.PortHandler
	Tariff    *handler.TariffHandler
	Article   *handler.ArticleHandler
	Pricing   *handler.PricingHandler
	Quotation *handler.QuotationHandler
	Portal    *handler.PortalHandler
	Schedule  *handler.ScheduleHandler
}

// Guards are the access checks applied per route group
type Guards struct {
	// Authenticated validates the bearer token
	Authenticated gin.HandlerFunc
	// Staff admits the admin and staff roles
	Staff gin.HandlerFunc
	// Admin admits the admin role
	Admin gin.HandlerFunc
	// Login throttles credential endpoints. Optional.
	Login gin.HandlerFunc
}

// Mount declares every route of the API on the router
func (r *Router) Mount(h Handlers, g Guards) *Router {
	health := NewDomainGroup("health", "/health")
	health.GET("", h.System.Health)
	health.GET("/ready", h.System.Ready)
	r.RegisterRoot(health)

	apiHealth := NewDomainGroup("health", "/health")
	apiHealth.GET("", h.System.Health)
	apiHealth.GET("/ready", h.System.Ready)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)

	publicAuth := NewDomainGroup("auth", "/auth")
	if g.Login != nil {
		publicAuth.Use(g.Login)
	}
	publicAuth.POST("/login", h.Auth.Login)
	publicAuth.POST("/refresh", h.Auth.Refresh)

	session := NewDomainGroup("session", "/auth").Use(g.Authenticated)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.Me)
	session.PUT("/password", h.Auth.ChangePassword)

	portal := NewDomainGroup("portal", "/portal/quotations").Use(g.Authenticated)
	portal.POST("", h.Portal.Submit)
	portal.GET("", h.Portal.List)
	portal.GET("/:number", h.Portal.Get)
	portal.POST("/:number/attachments", h.Portal.InitiateUpload)
	portal.GET("/:number/attachments", h.Portal.ListAttachments)
	portal.POST("/:number/attachments/:attachmentId/confirm", h.Portal.ConfirmUpload)

	r.Register(apiHealth, system, publicAuth, session, portal)
	r.Register(staffGroups(h, g)...)

	users := NewDomainGroup("users", "/users").Use(g.Authenticated, g.Admin)
	users.POST("", h.User.Create)
	users.GET("", h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.POST("/:id/activate", h.User.Activate)
	users.POST("/:id/deactivate", h.User.Deactivate)
	users.PUT("/:id/password", h.User.ResetPassword)
	r.Register(users)

	return r
}

func staffGroups(h Handlers, g Guards) []RouteRegistrar {
	guard := []gin.HandlerFunc{g.Authenticated, g.Staff}

	ports := NewDomainGroup("ports", "/ports").Use(guard...)
	ports.POST("", h.Port.Create)
	ports.GET("", h.Port.List)
	ports.POST("/resolve", h.Port.Resolve)
	ports.GET("/code/:code", h.Port.GetByCode)
	ports.GET("/:id", h.Port.GetByID)
	ports.PUT("/:id", h.Port.Update)
	ports.DELETE("/:id", h.Port.Delete)
	aliases := ports.Group("aliases", "/aliases")
	aliases.GET("", h.Port.ListAliases)
	aliases.POST("", h.Port.CreateAlias)
	aliases.POST("/bulk", h.Port.BulkCreateAliases)
	aliases.POST("/unresolved", h.Port.Unresolved)
	aliases.POST("/:id/toggle", h.Port.ToggleAlias)
	aliases.DELETE("/:id", h.Port.DeleteAlias)

	tariffs := NewDomainGroup("tariffs", "/tariffs").Use(guard...)
	tariffs.POST("", h.Tariff.Create)
	tariffs.GET("", h.Tariff.List)
	tariffs.PUT("/bulk", h.Tariff.BulkSave)
	tariffs.GET("/matrix/:carrier", h.Tariff.GetRateMatrix)
	tariffs.PUT("/matrix/:carrier", h.Tariff.SaveRateMatrix)
	tariffs.GET("/:id", h.Tariff.GetByID)
	tariffs.PUT("/:id", h.Tariff.Update)
	tariffs.DELETE("/:id", h.Tariff.Delete)
	tariffs.POST("/:id/sync-dates", h.Tariff.SyncDates)

	articles := NewDomainGroup("articles", "/articles").Use(guard...)
	articles.GET("", h.Article.List)
	articles.GET("/suggest", h.Article.Suggest)
	articles.POST("/sync", h.Article.TriggerSync)
	articles.GET("/sync/progress", h.Article.SyncProgress)
	articles.GET("/sync/:id", h.Article.GetSyncRun)
	articles.GET("/:id", h.Article.GetByID)
	articles.GET("/:id/additional-services", h.Article.AdditionalServices)

	pricing := NewDomainGroup("pricing", "/pricing").Use(guard...)
	pricing.POST("/preview", h.Pricing.Preview)
	pricing.GET("/vat", h.Pricing.Vat)
	rules := pricing.Group("rules", "/rules")
	rules.POST("", h.Pricing.CreateRule)
	rules.GET("", h.Pricing.ListRules)
	rules.GET("/:id", h.Pricing.GetRule)
	rules.PUT("/:id", h.Pricing.UpdateRule)
	rules.DELETE("/:id", h.Pricing.DeleteRule)
	profiles := pricing.Group("profiles", "/profiles")
	profiles.POST("", h.Pricing.CreateProfile)
	profiles.GET("", h.Pricing.ListProfiles)
	profiles.GET("/:id", h.Pricing.GetProfile)
	profiles.PUT("/:id", h.Pricing.UpdateProfile)
	profiles.DELETE("/:id", h.Pricing.DeleteProfile)

	quotations := NewDomainGroup("quotations", "/quotations").Use(guard...)
	quotations.POST("", h.Quotation.Submit)
	quotations.GET("", h.Quotation.List)
	quotations.GET("/number/:number", h.Quotation.GetByNumber)
	quotations.GET("/:id", h.Quotation.GetByID)
	quotations.PUT("/:id", h.Quotation.UpdateDetails)
	quotations.DELETE("/:id", h.Quotation.Delete)
	quotations.POST("/:id/restore", h.Quotation.Restore)
	quotations.PUT("/:id/route", h.Quotation.UpdateRoute)
	quotations.PUT("/:id/commodity-items", h.Quotation.SetCommodityItems)
	quotations.POST("/:id/articles", h.Quotation.AddArticle)
	quotations.POST("/:id/articles/auto-select", h.Quotation.AutoSelectArticles)
	quotations.PUT("/:id/articles/:lineId", h.Quotation.UpdateArticleQuantity)
	quotations.DELETE("/:id/articles/:lineId", h.Quotation.RemoveArticle)
	quotations.POST("/:id/price", h.Quotation.Price)
	quotations.POST("/:id/status", h.Quotation.ChangeStatus)
	quotations.POST("/:id/export", h.Quotation.Export)
	quotations.POST("/:id/offer-pdf", h.Quotation.RenderOffer)
	quotations.POST("/:id/attachments", h.Quotation.InitiateUpload)
	quotations.GET("/:id/attachments", h.Quotation.ListAttachments)
	quotations.POST("/:id/attachments/:attachmentId/confirm", h.Quotation.ConfirmUpload)
	quotations.GET("/:id/attachments/:attachmentId/download", h.Quotation.DownloadAttachment)
	quotations.DELETE("/:id/attachments/:attachmentId", h.Quotation.DeleteAttachment)

	schedules := NewDomainGroup("schedules", "/schedules").Use(guard...)
	schedules.POST("", h.Schedule.Create)
	schedules.GET("", h.Schedule.List)
	schedules.GET("/search", h.Schedule.Search)
	schedules.GET("/:id", h.Schedule.GetByID)
	schedules.PUT("/:id", h.Schedule.Update)
	schedules.DELETE("/:id", h.Schedule.Delete)

	return []RouteRegistrar{ports, tariffs, articles, pricing, quotations, schedules}
}

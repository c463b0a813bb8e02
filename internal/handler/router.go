package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/registrar-office/portal-api/internal/middleware"
	"github.com/registrar-office/portal-api/internal/models"
)

// Handlers groups every HTTP handler the API exposes.
type Handlers struct {
	Auth              *AuthHandler
	DocumentRequests  *DocumentRequestHandler
	Payments          *PaymentHandler
	Petitions         *PetitionHandler
	MajorApplications *MajorApplicationHandler
	Calendar          *CalendarHandler
	Notifications     *NotificationHandler
}

// RegisterRoutes mounts the API surface under the given prefix. Auth login
// and refresh are the only public routes; everything else requires a valid
// token and, where stated, a specific role.
func RegisterRoutes(r *gin.Engine, prefix string, resolver middleware.PrincipalResolver, h Handlers) {
	api := r.Group(prefix)

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)

	authed := api.Group("")
	authed.Use(middleware.JWT(resolver))

	authed.POST("/auth/logout", h.Auth.Logout)
	authed.GET("/auth/user", h.Auth.Me)

	documents := authed.Group("/document-requests")
	documents.GET("", middleware.RequireRoles(models.RoleStudent, models.RoleAdmin), h.DocumentRequests.List)
	documents.POST("", middleware.RequireRoles(models.RoleStudent), h.DocumentRequests.Create)
	documents.GET("/export", middleware.RequireRoles(models.RoleAdmin), h.DocumentRequests.Export)
	documents.GET("/:id", middleware.RequireRoles(models.RoleStudent, models.RoleAdmin), h.DocumentRequests.Get)
	documents.PATCH("/:id/status", middleware.RequireRoles(models.RoleAdmin), h.DocumentRequests.UpdateStatus)

	payments := authed.Group("/payments")
	payments.POST("", middleware.RequireRoles(models.RoleStudent), h.Payments.Process)
	payments.GET("/:id/receipt", middleware.RequireRoles(models.RoleStudent, models.RoleAdmin), h.Payments.Receipt)

	petitions := authed.Group("/petitions")
	petitions.GET("", middleware.RequireRoles(models.RoleInstructor, models.RoleAdmin), h.Petitions.List)
	petitions.POST("", middleware.RequireRoles(models.RoleInstructor), h.Petitions.Create)
	petitions.GET("/:id", middleware.RequireRoles(models.RoleInstructor, models.RoleAdmin), h.Petitions.Get)
	petitions.PATCH("/:id/status", middleware.RequireRoles(models.RoleAdmin), h.Petitions.UpdateStatus)

	majors := authed.Group("/major-applications")
	majors.GET("", middleware.RequireRoles(models.RoleStudent, models.RoleAdmin), h.MajorApplications.List)
	majors.POST("", middleware.RequireRoles(models.RoleStudent), h.MajorApplications.Create)
	majors.GET("/:id", middleware.RequireRoles(models.RoleStudent, models.RoleAdmin), h.MajorApplications.Get)
	majors.PATCH("/:id/status", middleware.RequireRoles(models.RoleAdmin), h.MajorApplications.UpdateStatus)

	calendar := authed.Group("/calendar")
	calendar.GET("", h.Calendar.List)
	calendar.POST("", middleware.RequireRoles(models.RoleAdmin), h.Calendar.Create)

	notifications := authed.Group("/notifications")
	notifications.GET("", h.Notifications.List)
	notifications.PATCH("/:id/read", h.Notifications.MarkRead)
}

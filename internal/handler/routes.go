package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Fatimapsp/unex-escuta/internal/middleware"
	"github.com/Fatimapsp/unex-escuta/internal/models"
	"github.com/Fatimapsp/unex-escuta/internal/service"
)

// Handlers bundles every HTTP handler with the auth service backing the
// token middleware.
type Handlers struct {
	Auth           *AuthHandler
	Users          *UserHandler
	Professors     *ProfessorHandler
	Disciplines    *DisciplineHandler
	Infrastructure *InfrastructureHandler
	Feedback       *FeedbackHandler
	Stats          *StatsHandler
	Metrics        *MetricsHandler

	AuthService *service.AuthService
}

// RegisterRoutes mounts the API routes under the given prefix. Catalog and
// approved-feedback reads are public; writes require a token and, for
// catalog and moderation, the admin role.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	requireAuth := middleware.JWT(h.AuthService)
	optionalAuth := middleware.OptionalJWT(h.AuthService)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", requireAuth, h.Auth.Me)
	}

	users := api.Group("/users", requireAuth)
	{
		users.GET("", adminOnly, h.Users.List)
		users.GET("/:id", middleware.RBAC("admin", "SELF"), h.Users.Get)
		users.PUT("/:id", middleware.RBAC("admin", "SELF"), h.Users.Update)
		users.PUT("/:id/password", middleware.RBAC("admin", "SELF"), h.Users.ChangePassword)
		users.POST("/:id/deactivate", adminOnly, h.Users.Deactivate)
		users.DELETE("/:id", adminOnly, h.Users.Delete)
	}

	professors := api.Group("/professors")
	{
		professors.GET("", h.Professors.List)
		professors.GET("/:id", h.Professors.Get)
		professors.POST("", requireAuth, adminOnly, h.Professors.Create)
		professors.PUT("/:id", requireAuth, adminOnly, h.Professors.Update)
		professors.DELETE("/:id", requireAuth, adminOnly, h.Professors.Delete)
	}

	disciplines := api.Group("/disciplines")
	{
		disciplines.GET("", h.Disciplines.List)
		disciplines.GET("/:id", h.Disciplines.Get)
		disciplines.POST("", requireAuth, adminOnly, h.Disciplines.Create)
		disciplines.PUT("/:id", requireAuth, adminOnly, h.Disciplines.Update)
		disciplines.DELETE("/:id", requireAuth, adminOnly, h.Disciplines.Delete)
	}

	infrastructure := api.Group("/infrastructure")
	{
		infrastructure.GET("", h.Infrastructure.List)
		infrastructure.GET("/:id", h.Infrastructure.Get)
		infrastructure.POST("", requireAuth, adminOnly, h.Infrastructure.Create)
		infrastructure.PUT("/:id", requireAuth, adminOnly, h.Infrastructure.Update)
		infrastructure.DELETE("/:id", requireAuth, adminOnly, h.Infrastructure.Delete)
	}

	feedbacks := api.Group("/feedbacks")
	{
		feedbacks.POST("", requireAuth, h.Feedback.Submit)
		feedbacks.GET("", optionalAuth, h.Feedback.List)
		feedbacks.GET("/:id", optionalAuth, h.Feedback.Get)
		feedbacks.DELETE("/:id", requireAuth, h.Feedback.Delete)
		feedbacks.PATCH("/:id/status", requireAuth, adminOnly, h.Feedback.Moderate)
	}

	stats := api.Group("/stats")
	{
		stats.GET("/types", h.Stats.ByTargetType)
		stats.GET("/semesters", h.Stats.BySemester)
		stats.GET("/ranking", h.Stats.Ranking)
		stats.GET("/ranking/export", requireAuth, adminOnly, h.Stats.ExportRanking)
		stats.GET("/types/export", requireAuth, adminOnly, h.Stats.ExportTypes)
	}
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaldash-api/internal/middleware"
	"github.com/harentsoaR/dentaldash-api/internal/models"
)

func (h *Handler) Routes(r *gin.Engine) {
	r.GET("/healthz", h.Health)

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.Login)
	}

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware(h.Tokens)) // Protect all /api routes
	{
		apiRoutes.GET("/user", h.GetCurrentUser)
		apiRoutes.PUT("/user", h.UpdateCurrentUser)

		apiRoutes.GET("/appointments", h.GetAppointments)
		apiRoutes.POST("/appointments", h.CreateAppointment)
		apiRoutes.GET("/appointments/next-slot", h.NextSlot)
		apiRoutes.GET("/appointments/:id", h.GetAppointment)
		apiRoutes.PUT("/appointments/:id", h.UpdateAppointment)

		apiRoutes.GET("/calendar", h.GetCalendar)
		apiRoutes.GET("/calendar/cell", h.GetCalendarCell)
		apiRoutes.GET("/calendar/classify", h.ClassifyTime)

		apiRoutes.GET("/expenses", h.GetExpenses)
		apiRoutes.POST("/expenses", h.CreateExpense)

		apiRoutes.GET("/labworks", h.GetLabWorks)
		apiRoutes.POST("/labworks", h.CreateLabWork)
		apiRoutes.PUT("/labworks/:id", h.UpdateLabWork)

		apiRoutes.GET("/finance/summary", h.GetFinanceSummary)
		apiRoutes.GET("/notifications", h.GetNotifications)
		apiRoutes.GET("/sync/status", h.SyncStatus)
	}

	// Sync and backup touch the whole ledger.
	adminRoutes := apiRoutes.Group("")
	adminRoutes.Use(middleware.RequireRole(models.RoleDentist, models.RoleStaff))
	{
		adminRoutes.POST("/sync", h.SyncCalendar)
		adminRoutes.GET("/backup", h.DownloadBackup)
		adminRoutes.GET("/backup/status", h.BackupStatus)
	}

	dentistRoutes := apiRoutes.Group("")
	dentistRoutes.Use(middleware.RequireRole(models.RoleDentist))
	{
		dentistRoutes.POST("/users", h.CreateUser)
	}
}

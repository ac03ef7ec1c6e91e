package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/moniquedpoliveira/licito3/controllers"
	"github.com/moniquedpoliveira/licito3/middleware"
	"github.com/moniquedpoliveira/licito3/models"
	"github.com/moniquedpoliveira/licito3/services"
)

// Controllers bundles every route handler the API mounts.
type Controllers struct {
	Auth          *controllers.AuthController
	Contratos     *controllers.ContratoController
	Checklists    *controllers.ChecklistController
	History       *controllers.HistoryController
	Signatures    *controllers.SignatureController
	Notifications *controllers.NotificationController
	Queries       *controllers.QueryController
	Chats         *controllers.ChatController
}

func SetupRoutes(router *gin.Engine, ctl Controllers, records *services.RecordStore) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", ctl.Auth.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Licito API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(records))
		{
			// User profile
			protected.GET("/profile", ctl.Auth.Profile)
			protected.PUT("/change-password", ctl.Auth.ChangePassword)

			// User directory (admin only)
			protected.GET("/users", middleware.RequireRole(models.RoleAdmin), ctl.Auth.ListUsers)
			protected.GET("/users/:id", middleware.RequireRole(models.RoleAdmin), ctl.Auth.GetUser)

			// Contratos
			contratos := protected.Group("/contratos")
			{
				contratos.GET("", ctl.Contratos.List)
				contratos.GET("/stats", ctl.Contratos.Stats)
				contratos.GET("/export", ctl.Contratos.Export)
				contratos.GET("/:id", ctl.Contratos.Get)

				// Only gestores and admins manage contracts
				contratos.POST("", middleware.RequireRole(models.RoleAdmin, models.RoleGestorContrato), ctl.Contratos.Create)
				contratos.PUT("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleGestorContrato), ctl.Contratos.Update)

				// Checklist lives under its contract
				contratos.GET("/:id/checklist", ctl.Checklists.List)
				contratos.PUT("/:id/checklist/:itemId", middleware.RequireRole(models.RoleAdmin, models.RoleFiscal), ctl.Checklists.UpdateItem)

				// Esclarecimentos
				contratos.GET("/:id/esclarecimentos", ctl.Checklists.ListEsclarecimentos)
				contratos.POST("/:id/esclarecimentos", middleware.RequireRole(models.RoleAdmin, models.RoleFiscal), ctl.Checklists.SolicitarEsclarecimento)
				contratos.PUT("/:id/esclarecimentos/:esclarecimentoId", middleware.RequireRole(models.RoleAdmin, models.RoleGestorContrato), ctl.Checklists.ResponderEsclarecimento)

				// Signatures scoped to a contract
				contratos.GET("/:id/signatures", ctl.Signatures.ForContrato)
				contratos.POST("/:id/signatures", middleware.RequireRole(models.RoleAdmin, models.RoleFiscal), ctl.Signatures.SignChecklist)
			}

			// Checklist history
			history := protected.Group("/history")
			{
				history.GET("/recent", ctl.History.Recent)
				history.GET("/contrato/:id", ctl.History.ForContrato)
				history.GET("/fiscal/:email", ctl.History.ForFiscal)

				// Only admin exports or clears the log
				history.GET("/export", middleware.RequireRole(models.RoleAdmin), ctl.History.Export)
				history.DELETE("", middleware.RequireRole(models.RoleAdmin), ctl.History.Clear)
			}

			// Signatures
			signatures := protected.Group("/signatures")
			{
				signatures.GET("/fiscal/:email", ctl.Signatures.ForFiscal)
				signatures.GET("/:id/verify", ctl.Signatures.Verify)
				signatures.POST("/:id/revoke", middleware.RequireRole(models.RoleAdmin), ctl.Signatures.Revoke)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", ctl.Notifications.List)
				notifications.GET("/unread-count", ctl.Notifications.UnreadCount)
				notifications.PUT("/:id/read", ctl.Notifications.MarkAsRead)
				notifications.PUT("/read-all", ctl.Notifications.MarkAllAsRead)

				// Only admin broadcasts, deletes or sweeps
				notifications.POST("/system-alert", middleware.RequireRole(models.RoleAdmin), ctl.Notifications.CreateSystemAlert)
				notifications.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), ctl.Notifications.Delete)
				notifications.POST("/cleanup", middleware.RequireRole(models.RoleAdmin), ctl.Notifications.Cleanup)
			}

			// Natural-language reporting
			protected.POST("/query", middleware.RequireRole(models.RoleAdmin, models.RoleGestorContrato, models.RoleOrdenadorDespesas), ctl.Queries.Generate)

			// Assistant chats
			chats := protected.Group("/chats")
			{
				chats.GET("", ctl.Chats.List)
				chats.POST("/messages", ctl.Chats.SendMessage)
				chats.GET("/:id", ctl.Chats.Get)
				chats.DELETE("/:id", ctl.Chats.Delete)
			}
		}
	}
}

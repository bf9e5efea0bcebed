package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"corpbank-portal-api/controllers"
	"corpbank-portal-api/middleware"
	"corpbank-portal-api/models"
)

func SetupRoutes(router *gin.Engine) {
	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/refresh", controllers.RefreshToken)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "CorpBank Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth management
			protected.POST("/logout", controllers.Logout)
			protected.POST("/logout-all", controllers.LogoutAllDevices)
			protected.GET("/sessions", controllers.GetActiveSessions)
			protected.DELETE("/sessions/:session_id", controllers.RevokeSession)

			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Customers
			customers := protected.Group("/customers")
			{
				customers.GET("", controllers.GetCustomers)
				customers.GET("/:id", controllers.GetCustomer)
				customers.POST("", controllers.CreateCustomer)
				customers.PUT("/:id", controllers.UpdateCustomer)
			}

			// Applications
			applications := protected.Group("/applications")
			{
				applications.GET("", controllers.GetApplications)
				applications.GET("/:id", controllers.GetApplication)
				applications.GET("/:id/history", controllers.GetApplicationHistory)
				applications.POST("", controllers.CreateApplication)
				applications.PUT("/:id", controllers.UpdateApplication)

				// All status mutations go through the one transition
				// endpoint; the workflow service decides legality and
				// permission per actor.
				applications.POST("/:id/transition", controllers.TransitionApplication)

				applications.PUT("/:id/assign-manager",
					middleware.RequireRole(models.RoleAdmin), controllers.AssignManager)
			}

			// Dashboard
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/stats", controllers.GetDashboardStats)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Account administration
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", controllers.GetUsers)
				admin.POST("/users", controllers.CreateUser)
				admin.PUT("/users/:id/active", controllers.SetUserActive)
			}
		}
	}
}

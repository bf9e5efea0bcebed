package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"corpbank-portal-api/config"
	"corpbank-portal-api/controllers"
	"corpbank-portal-api/middleware"
	"corpbank-portal-api/monitor"
	"corpbank-portal-api/routes"
	"corpbank-portal-api/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize logging before anything that writes through it
	logFile, logger := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}
	defer logger.Sync()

	// Initialize database
	config.InitDB()

	// Wire the controller layer to its services
	notifier := services.NewPortalNotifier(config.DB, logger)
	controllers.Init(config.DB, notifier, logger)

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.Logger())

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Add request metrics middleware
	router.Use(middleware.MetricsMiddleware())

	// Operator endpoints (runtime status, raw logs)
	monitor.RegisterMonitorRoutes(router)

	// Setup routes
	routes.SetupRoutes(router)

	// Start server
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("server starting",
		zap.String("port", port),
		zap.String("mode", ginMode))

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/priyank071/scooty-rental/internal/database"
	"github.com/priyank071/scooty-rental/internal/handlers"
	"github.com/priyank071/scooty-rental/internal/middleware"
	"github.com/priyank071/scooty-rental/internal/services"
	"github.com/priyank071/scooty-rental/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	// Initialize database with better error handling
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Workflow side effects: notification rows, hub pushes, SMS
	dispatch := services.NewDispatcher(db, hub, utils.NewSMSOutbound())

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored attachments
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "/app/uploads"
	}
	r.Static("/uploads", uploadDir)

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
			}

			// Fleet routes
			scooties := protected.Group("/scooties")
			{
				scooties.GET("", handlers.ListAvailableScooties(db))
				scooties.POST("", handlers.RegisterScooty(db))
				scooties.GET("/mine", handlers.GetOwnerFleet(db))
				scooties.PATCH("/:id/availability", handlers.ToggleAvailability(db))
			}

			// Booking routes
			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(db, dispatch))
				bookings.GET("/rider", handlers.GetRiderBookings(db))
				bookings.GET("/owner", handlers.GetOwnerBookings(db))
				bookings.GET("/:id", handlers.GetBookingDetail(db))
				bookings.PATCH("/:id/status", handlers.UpdateBookingStatus(db, dispatch))

				// License verification chat, one thread per booking
				bookings.GET("/:id/chat", handlers.GetThread(db))
				bookings.POST("/:id/chat/messages", handlers.PostMessage(db, dispatch))
				bookings.POST("/:id/chat/attachments", handlers.PostAttachment(db, dispatch))
			}

			// Notification routes
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", handlers.GetNotifications(db))
				notifications.GET("/unread-count", handlers.GetUnreadCount(db))
				notifications.POST("/:id/read", handlers.MarkNotificationRead(db))
				notifications.GET("/preferences", handlers.GetNotificationPreferences(db))
				notifications.PUT("/preferences", handlers.UpdateNotificationPreferences(db))
			}

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.GET("/owners/pending", handlers.GetPendingOwnerApplications(db))
				admin.POST("/owners/:id/approve", handlers.ApproveOwnerApplication(db, dispatch))
				admin.POST("/owners/:id/reject", handlers.RejectOwnerApplication(db, dispatch))
				admin.POST("/announcements", handlers.BroadcastAnnouncement(db, dispatch))
				admin.GET("/stats", handlers.GetPlatformStats(db, hub))
				admin.GET("/users", handlers.GetUsers(db))
				admin.PATCH("/users/:id/status", handlers.UpdateUserStatus(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

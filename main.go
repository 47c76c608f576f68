package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/smartschool/canteen-app/config"
	"github.com/smartschool/canteen-app/middlewares"
	"github.com/smartschool/canteen-app/models"
	"github.com/smartschool/canteen-app/router"
	"github.com/smartschool/canteen-app/utils"
	"gorm.io/gorm"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Global rate limiter (50 requests per second per IP)
	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.School{},
		&models.User{},
		&models.Shop{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.OrderingWindow{},
		&models.SeatSettings{},
		&models.CanteenTable{},
		&models.Order{},
		&models.OrderItem{},
		&models.StagedOrder{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.Receipt{},
		&models.ReceiptItem{},
		&models.DeliveryNotification{},
		&models.Notification{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"love-triangle-backend/handlers"
	"love-triangle-backend/models"
	"love-triangle-backend/services"
	"love-triangle-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — share-card uploads are the largest bodies
	})

	// Callers are anonymous browsers landing on shared links from arbitrary
	// origins, so CORS stays permissive. No credentials are ever involved.
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, User-Agent",
		MaxAge:       86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	// TranslateError lets the create path recognize duplicate-key races on
	// the share-code index as gorm.ErrDuplicatedKey
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.QuizSession{},
		&models.ShareCard{},
		&models.SupporterEvent{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	sessionService := services.NewSessionService(db)
	cardService := services.NewShareCardService(db)
	supporterService := services.NewSupporterService(db)
	artworkService := services.NewArtworkService()

	sessionService.StartExpirySweeper()

	handlers.SetupSessionRoutes(app, sessionService, cardService)
	handlers.SetupSupporterRoutes(app, supporterService)
	handlers.SetupArtworkRoutes(app, artworkService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5200"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Session expiry sweeper running (hourly)")
	log.Println("✅ CORS open — anonymous browser clients expected")

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rajat-Bansal3/Skill-Score/handlers"
	"github.com/Rajat-Bansal3/Skill-Score/middleware"
	"github.com/Rajat-Bansal3/Skill-Score/models"
	"github.com/Rajat-Bansal3/Skill-Score/services"
	"github.com/Rajat-Bansal3/Skill-Score/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	publicKeyPEM := os.Getenv("PUBLIC_KEY")
	if publicKeyPEM == "" {
		log.Fatal("PUBLIC_KEY environment variable not set")
	}
	verifier, err := middleware.NewTokenVerifier([]byte(publicKeyPEM))
	if err != nil {
		log.Fatal("failed to parse PUBLIC_KEY:", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Participant{},
		&models.Tournament{},
		&models.TournamentMember{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	registry := services.NewRegistry()
	store := services.NewGormRoomStore(db)
	roomService := services.NewRoomService(store, registry)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	handlers.SetupRoomRoutes(app, roomService, registry, verifier)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reconciler := workers.NewReconcileWorker(store, registry)
	reconciler.Start(ctx)

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Room service running on ws://localhost:%s/ws", port)

	<-ctx.Done()
	log.Println("Shutting down room service...")
	registry.CloseAll()
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

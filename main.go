package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/studyhall/studyhall-api/internal/config"
	"github.com/studyhall/studyhall-api/internal/database"
	"github.com/studyhall/studyhall-api/internal/handlers"
	"github.com/studyhall/studyhall-api/internal/routes"
	"github.com/studyhall/studyhall-api/internal/services"
	"github.com/studyhall/studyhall-api/internal/store/mongostore"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.Load()

	client, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer database.Disconnect(client)

	st := mongostore.New(client.Database(cfg.MongoDatabase))

	push := services.NewFCMPush(cfg.FCMServiceAccount, log)

	var email services.EmailSender
	if cfg.SendgridKey != "" {
		email = services.NewSendgridSender(cfg.SendgridKey, cfg.AppName, cfg.EmailFrom, log)
	} else {
		email = services.NewConsoleSender(log)
	}

	gen := services.NewGeminiClient(cfg.GeminiEndpoint, cfg.GeminiAPIKey, log)

	notifications := services.NewNotificationService(st, st, push, email, log)
	digest := services.NewEmailDigestService(st, st, st, gen, email, log)
	wiki := services.NewKnowledgeBaseService(st, gen, notifications, log)
	collab := services.NewCollaborationService(st, log)
	payments := services.NewPaymentService(st, notifications, cfg.PaymentKeySecret, log)

	hub := handlers.NewHub(log)
	h := handlers.New(cfg, st, notifications, digest, wiki, collab, payments, gen, hub, log)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.Setup(app, h, cfg.JWTSecret)

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

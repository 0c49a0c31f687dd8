package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/studyhall/studyhall-api/internal/config"
	"github.com/studyhall/studyhall-api/internal/services"
	"github.com/studyhall/studyhall-api/internal/store"
)

// Handler carries the services the HTTP layer calls into. It is constructed
// once in main and shared across routes; no package-level state.
type Handler struct {
	cfg           *config.Config
	store         store.Store
	notifications *services.NotificationService
	digest        *services.EmailDigestService
	wiki          *services.KnowledgeBaseService
	collab        *services.CollaborationService
	payments      *services.PaymentService
	gen           services.TextGenerator
	hub           *Hub
	log           zerolog.Logger
}

func New(
	cfg *config.Config,
	st store.Store,
	notifications *services.NotificationService,
	digest *services.EmailDigestService,
	wiki *services.KnowledgeBaseService,
	collab *services.CollaborationService,
	payments *services.PaymentService,
	gen services.TextGenerator,
	hub *Hub,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		cfg:           cfg,
		store:         st,
		notifications: notifications,
		digest:        digest,
		wiki:          wiki,
		collab:        collab,
		payments:      payments,
		gen:           gen,
		hub:           hub,
		log:           log.With().Str("component", "http").Logger(),
	}
}

// fail maps domain errors to HTTP statuses with the shared error body.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, store.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already exists"})
	case errors.Is(err, services.ErrRoomFull):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Room is full"})
	case errors.Is(err, services.ErrAlreadyEnrolled):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already enrolled"})
	case errors.Is(err, services.ErrInvalidSignature):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment signature"})
	case errors.Is(err, services.ErrUnknownNotificationType):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown notification type"})
	case errors.Is(err, services.ErrReviewNotAssigned):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No pending review assigned"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

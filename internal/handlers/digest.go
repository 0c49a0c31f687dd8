package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studyhall/studyhall-api/internal/middleware"
	"github.com/studyhall/studyhall-api/internal/models"
)

func digestType(s string) (models.DigestType, bool) {
	switch models.DigestType(s) {
	case models.DigestTypeWeekly:
		return models.DigestTypeWeekly, true
	case models.DigestTypeMonthly:
		return models.DigestTypeMonthly, true
	default:
		return "", false
	}
}

// PreviewDigest generates the current user's digest without emailing it.
func (h *Handler) PreviewDigest(c *fiber.Ctx) error {
	dtype, ok := digestType(c.Query("type", "weekly"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "type must be weekly or monthly",
		})
	}

	result, err := h.digest.GenerateDigest(c.Context(), middleware.GetUserID(c), dtype)
	if err != nil {
		return fail(c, err)
	}
	if !result.Success {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": result.Error})
	}
	return c.JSON(result)
}

// RunDigestBatch triggers the scheduled generation run. Wired to an admin
// route; the platform cron calls this instead of an in-process timer.
func (h *Handler) RunDigestBatch(c *fiber.Ctx) error {
	dtype, ok := digestType(c.Query("type", "weekly"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "type must be weekly or monthly",
		})
	}

	report, err := h.digest.RunDigestBatch(c.Context(), dtype)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

// CareerAdvice generates free-text guidance from the same retrying text
// client the digest uses.
func (h *Handler) CareerAdvice(c *fiber.Ctx) error {
	var req struct {
		Question string `json:"question"`
	}
	if err := c.BodyParser(&req); err != nil || req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question is required",
		})
	}

	text, err := h.gen.Generate(c.Context(),
		"You are a career mentor for students on a learning platform. Answer concisely.\n\nQuestion: "+req.Question)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Advice is temporarily unavailable, please try again later",
		})
	}
	return c.JSON(fiber.Map{"advice": text})
}

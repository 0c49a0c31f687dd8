package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/studyhall/studyhall-api/internal/middleware"
	"github.com/studyhall/studyhall-api/internal/models"
)

// GetNotifications returns the current user's notifications, newest first.
func (h *Handler) GetNotifications(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	list, err := h.notifications.GetUserNotifications(c.Context(), userID, limit)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"notifications": list,
		"count":         len(list),
	})
}

func (h *Handler) GetNotificationStats(c *fiber.Ctx) error {
	stats, err := h.notifications.GetStats(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

// SendNotification lets internal tooling and admin flows create notifications.
func (h *Handler) SendNotification(c *fiber.Ctx) error {
	var req models.SendNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.UserID == "" || req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userId and title are required",
		})
	}

	result, err := h.notifications.Send(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkAsRead(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	updated, err := h.notifications.MarkAllAsRead(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "updated": updated})
}

func (h *Handler) MarkNotificationClicked(c *fiber.Ctx) error {
	if err := h.notifications.MarkAsClicked(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) GetPreferences(c *fiber.Ctx) error {
	prefs, err := h.notifications.GetPreferences(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(prefs)
}

// SavePreferences overwrites the user's notification preferences wholesale.
func (h *Handler) SavePreferences(c *fiber.Ctx) error {
	var prefs models.NotificationPreferences
	if err := c.BodyParser(&prefs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.notifications.SavePreferences(c.Context(), middleware.GetUserID(c), &prefs); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// RegisterDeviceToken saves the FCM token for push notifications.
func (h *Handler) RegisterDeviceToken(c *fiber.Ctx) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Token is required",
		})
	}

	if err := h.store.SetFCMToken(c.Context(), middleware.GetUserID(c), req.Token); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

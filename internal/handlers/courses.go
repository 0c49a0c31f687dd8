package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studyhall/studyhall-api/internal/middleware"
	"github.com/studyhall/studyhall-api/internal/models"
)

func (h *Handler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.store.ListCourses(c.Context(), true)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"courses": courses})
}

func (h *Handler) GetCourse(c *fiber.Ctx) error {
	course, err := h.store.GetCourse(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(course)
}

func (h *Handler) ListMyEnrollments(c *fiber.Ctx) error {
	enrollments, err := h.store.ListEnrollments(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"enrollments": enrollments})
}

// CreateOrder starts the checkout for a course; the client completes the
// gateway flow and calls VerifyPayment with the signed result.
func (h *Handler) CreateOrder(c *fiber.Ctx) error {
	var req models.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil || req.CourseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "courseId is required",
		})
	}

	order, err := h.payments.CreateOrder(c.Context(), middleware.GetUserID(c), req.CourseID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *Handler) VerifyPayment(c *fiber.Ctx) error {
	var req models.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "orderId, paymentId and signature are required",
		})
	}

	enrollment, err := h.payments.VerifyPayment(c.Context(), middleware.GetUserID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "enrollment": enrollment})
}

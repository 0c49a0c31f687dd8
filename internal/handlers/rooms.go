package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/studyhall/studyhall-api/internal/middleware"
	"github.com/studyhall/studyhall-api/internal/models"
)

func (h *Handler) CreateRoom(c *fiber.Ctx) error {
	var req models.CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}

	room, err := h.collab.CreateRoom(c.Context(), middleware.GetUserID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

func (h *Handler) ListRooms(c *fiber.Ctx) error {
	rooms, err := h.collab.ListActiveRooms(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"rooms": rooms})
}

func (h *Handler) GetRoom(c *fiber.Ctx) error {
	room, err := h.collab.GetRoom(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(room)
}

func (h *Handler) JoinRoom(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	room, err := h.collab.JoinRoom(c.Context(), c.Params("id"), userID)
	if err != nil {
		return fail(c, err)
	}

	h.hub.Broadcast(room.ID, userID, WSEvent{
		Type:   EventMemberJoined,
		RoomID: room.ID,
		UserID: userID,
	})
	return c.JSON(room)
}

func (h *Handler) LeaveRoom(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	room, err := h.collab.LeaveRoom(c.Context(), c.Params("id"), userID)
	if err != nil {
		return fail(c, err)
	}

	event := EventMemberLeft
	if !room.IsActive {
		event = EventRoomClosed
	}
	h.hub.Broadcast(room.ID, userID, WSEvent{
		Type:   event,
		RoomID: room.ID,
		UserID: userID,
	})
	return c.JSON(room)
}

func (h *Handler) GetWhiteboard(c *fiber.Ctx) error {
	wb, err := h.collab.GetWhiteboard(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(wb)
}

// SaveWhiteboard persists the full element array the client accumulated
// during the stroke, then fans the new board out to the room.
func (h *Handler) SaveWhiteboard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.SaveWhiteboardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	wb, err := h.collab.SaveWhiteboard(c.Context(), c.Params("id"), userID, req.Elements)
	if err != nil {
		return fail(c, err)
	}

	h.hub.Broadcast(wb.RoomID, userID, WSEvent{
		Type:   EventWhiteboardUpdated,
		RoomID: wb.RoomID,
		UserID: userID,
		Data:   wb,
	})
	return c.JSON(wb)
}

func (h *Handler) CreateDocument(c *fiber.Ctx) error {
	var req models.CreateDocumentRequest
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	doc, err := h.collab.CreateDocument(c.Context(), c.Params("id"), middleware.GetUserID(c), req.Title)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *Handler) ListDocuments(c *fiber.Ctx) error {
	docs, err := h.collab.ListDocuments(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"documents": docs})
}

func (h *Handler) GetDocument(c *fiber.Ctx) error {
	doc, err := h.collab.GetDocument(c.Context(), c.Params("docId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(doc)
}

// SaveDocument replaces the document content (clients save on blur).
func (h *Handler) SaveDocument(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.SaveDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	doc, err := h.collab.SaveDocument(c.Context(), c.Params("docId"), userID, req)
	if err != nil {
		return fail(c, err)
	}

	h.hub.Broadcast(doc.RoomID, userID, WSEvent{
		Type:   EventDocumentUpdated,
		RoomID: doc.RoomID,
		UserID: userID,
		Data:   doc,
	})
	return c.JSON(doc)
}

func (h *Handler) PostRoomMessage(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.PostMessageRequest
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	msg, err := h.collab.PostMessage(c.Context(), c.Params("id"), userID, req.Message, "text")
	if err != nil {
		return fail(c, err)
	}

	h.hub.Broadcast(msg.RoomID, userID, WSEvent{
		Type:   EventMessagePosted,
		RoomID: msg.RoomID,
		UserID: userID,
		Data:   msg,
	})
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *Handler) GetRoomMessages(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	msgs, err := h.collab.ListMessages(c.Context(), c.Params("id"), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/studyhall/studyhall-api/internal/handlers"
	"github.com/studyhall/studyhall-api/internal/middleware"
)

func Setup(app *fiber.App, h *handlers.Handler, jwtSecret string) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)

	protected := api.Group("/", middleware.Protected(jwtSecret))

	protected.Get("/me", h.GetMe)
	protected.Put("/me", h.UpdateProfile)

	// Notifications & preferences
	notifications := protected.Group("/notifications")
	notifications.Get("/", h.GetNotifications)
	notifications.Get("/stats", h.GetNotificationStats)
	notifications.Post("/", h.SendNotification)
	notifications.Post("/read-all", h.MarkAllNotificationsRead)
	notifications.Put("/:id/read", h.MarkNotificationRead)
	notifications.Put("/:id/clicked", h.MarkNotificationClicked)
	notifications.Get("/preferences", h.GetPreferences)
	notifications.Put("/preferences", h.SavePreferences)

	// Device token for push notifications
	protected.Post("/device-token", h.RegisterDeviceToken)

	// Email digests
	digest := protected.Group("/digest")
	digest.Get("/preview", h.PreviewDigest)
	digest.Post("/run", h.RunDigestBatch)

	// AI career advice
	protected.Post("/career-advice", h.CareerAdvice)

	// Knowledge base wiki
	wiki := protected.Group("/wiki")
	wiki.Post("/", h.CreateArticle)
	wiki.Get("/search", h.SearchArticles)
	wiki.Get("/recommendations", h.GetArticleRecommendations)
	wiki.Get("/:id", h.GetArticle)
	wiki.Put("/:id", h.UpdateArticle)
	wiki.Get("/:id/revisions", h.GetArticleRevisions)
	wiki.Post("/:id/like", h.ToggleArticleLike)
	wiki.Post("/:id/review", h.SubmitForPeerReview)
	wiki.Put("/:id/review", h.SubmitPeerReview)
	wiki.Get("/:id/reviews", h.ListPeerReviews)

	// Study rooms
	rooms := protected.Group("/rooms")
	rooms.Post("/", h.CreateRoom)
	rooms.Get("/", h.ListRooms)
	rooms.Get("/:id", h.GetRoom)
	rooms.Post("/:id/join", h.JoinRoom)
	rooms.Post("/:id/leave", h.LeaveRoom)
	rooms.Get("/:id/whiteboard", h.GetWhiteboard)
	rooms.Put("/:id/whiteboard", h.SaveWhiteboard)
	rooms.Post("/:id/documents", h.CreateDocument)
	rooms.Get("/:id/documents", h.ListDocuments)
	rooms.Get("/:id/documents/:docId", h.GetDocument)
	rooms.Put("/:id/documents/:docId", h.SaveDocument)
	rooms.Post("/:id/messages", h.PostRoomMessage)
	rooms.Get("/:id/messages", h.GetRoomMessages)

	// Courses & payments
	courses := protected.Group("/courses")
	courses.Get("/", h.ListCourses)
	courses.Get("/:id", h.GetCourse)
	protected.Get("/enrollments", h.ListMyEnrollments)
	payments := protected.Group("/payments")
	payments.Post("/orders", h.CreateOrder)
	payments.Post("/verify", h.VerifyPayment)

	// WebSocket for real-time room updates
	app.Use("/ws", h.WebSocketUpgrade())
	app.Get("/ws/rooms/:id", websocket.New(h.HandleWebSocket))
}

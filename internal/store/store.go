// Package store defines the persistence interfaces the services depend on.
// The mongostore package implements them against MongoDB; memstore provides
// an in-memory implementation for tests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/studyhall/studyhall-api/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, req models.UpdateProfileRequest) error
	SetFCMToken(ctx context.Context, id, token string) error
	SavePreferences(ctx context.Context, id string, prefs *models.NotificationPreferences) error
	ListUsersByDigestFrequency(ctx context.Context, freq models.DigestFrequency) ([]models.User, error)
}

type NotificationStore interface {
	InsertNotification(ctx context.Context, n *models.Notification) error
	GetNotification(ctx context.Context, id string) (*models.Notification, error)
	// ListNotificationsOrdered returns the user's notifications newest first
	// and fails if the backing index is unavailable.
	ListNotificationsOrdered(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	// ListNotificationsByUser is the unordered full-scan fallback.
	ListNotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error)
	// AppendSentMethod array-unions a delivery method; sentMethods only grows.
	AppendSentMethod(ctx context.Context, id string, method models.DeliveryMethod) error
	MarkNotificationRead(ctx context.Context, id string, at time.Time) error
	MarkNotificationClicked(ctx context.Context, id string, at time.Time) error
	// MarkAllNotificationsRead flags every unread notification for the user
	// and returns how many were updated.
	MarkAllNotificationsRead(ctx context.Context, userID string, at time.Time) (int, error)
	CountNotifications(ctx context.Context, userID string, from, to time.Time) (total, unread int, err error)
}

// ArticleUpdate is applied atomically to one article document: scalar fields
// are set, version is incremented and the editor is array-unioned into
// contributors.
type ArticleUpdate struct {
	Title      *string
	Content    *string
	Categories []string
	Tags       []string
	Status     *models.ArticleStatus
	Editor     string
	UpdatedAt  time.Time
}

type WikiStore interface {
	InsertArticle(ctx context.Context, a *models.WikiArticle) error
	GetArticle(ctx context.Context, id string) (*models.WikiArticle, error)
	ListArticles(ctx context.Context, f models.ArticleSearchFilters) ([]models.WikiArticle, error)
	ApplyArticleUpdate(ctx context.Context, id string, upd ArticleUpdate) (*models.WikiArticle, error)
	IncrementArticleViews(ctx context.Context, id string) error
	AdjustArticleLikes(ctx context.Context, id string, delta int) error
	SetArticleReviewState(ctx context.Context, id string, state models.PeerReviewState) error

	InsertRevision(ctx context.Context, r *models.WikiRevision) error
	ListRevisions(ctx context.Context, articleID string) ([]models.WikiRevision, error)

	GetLike(ctx context.Context, id string) (*models.WikiLike, error)
	InsertLike(ctx context.Context, l *models.WikiLike) error
	DeleteLike(ctx context.Context, id string) error

	InsertPeerReview(ctx context.Context, r *models.PeerReview) error
	GetPeerReviewFor(ctx context.Context, articleID, reviewerID string) (*models.PeerReview, error)
	CompletePeerReview(ctx context.Context, id string, decision models.PeerReviewDecision, comments string, at time.Time) error
	ListPeerReviews(ctx context.Context, articleID string) ([]models.PeerReview, error)
}

type RoomStore interface {
	InsertRoom(ctx context.Context, r *models.StudyRoom) error
	GetRoom(ctx context.Context, id string) (*models.StudyRoom, error)
	ListActiveRooms(ctx context.Context) ([]models.StudyRoom, error)
	AddParticipant(ctx context.Context, roomID, userID string) error
	// RemoveParticipant pulls the user out and returns the post-removal room.
	RemoveParticipant(ctx context.Context, roomID, userID string) (*models.StudyRoom, error)
	DeactivateRoom(ctx context.Context, roomID string, at time.Time) error

	SaveWhiteboard(ctx context.Context, wb *models.Whiteboard) error
	GetWhiteboard(ctx context.Context, roomID string) (*models.Whiteboard, error)

	InsertSharedDocument(ctx context.Context, d *models.SharedDocument) error
	GetSharedDocument(ctx context.Context, id string) (*models.SharedDocument, error)
	ListSharedDocuments(ctx context.Context, roomID string) ([]models.SharedDocument, error)
	SaveSharedDocument(ctx context.Context, id string, title *string, content, userID string, at time.Time) (*models.SharedDocument, error)

	InsertRoomMessage(ctx context.Context, m *models.RoomMessage) error
	ListRoomMessages(ctx context.Context, roomID string, limit int) ([]models.RoomMessage, error)
	InsertRoomActivity(ctx context.Context, a *models.RoomActivity) error
}

// ActivityStore exposes the time-windowed counters the email digest reads.
type ActivityStore interface {
	CountLessonsCompleted(ctx context.Context, userID string, from, to time.Time) (int, error)
	CountVideosWatched(ctx context.Context, userID string, from, to time.Time) (int, error)
	// ListQuizScores returns scores newest first.
	ListQuizScores(ctx context.Context, userID string, from, to time.Time) ([]float64, error)
	CountForumPosts(ctx context.Context, userID string, from, to time.Time) (int, error)
	CountForumReplies(ctx context.Context, userID string, from, to time.Time) (int, error)
	CountAchievements(ctx context.Context, userID string, from, to time.Time) (int, error)
	CountStudyGroupJoins(ctx context.Context, userID string, from, to time.Time) (int, error)
	CountMentoringSessions(ctx context.Context, userID string, from, to time.Time) (int, error)
	CountCollaborationSessions(ctx context.Context, userID string, from, to time.Time) (int, error)
}

type CourseStore interface {
	InsertCourse(ctx context.Context, c *models.Course) error
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	ListCourses(ctx context.Context, publishedOnly bool) ([]models.Course, error)
	InsertEnrollment(ctx context.Context, e *models.Enrollment) error
	GetEnrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	ListEnrollments(ctx context.Context, userID string) ([]models.Enrollment, error)
	InsertOrder(ctx context.Context, o *models.PaymentOrder) error
	GetOrder(ctx context.Context, id string) (*models.PaymentOrder, error)
	MarkOrderPaid(ctx context.Context, id string, at time.Time) error
}

// Store is the full persistence surface, implemented by mongostore and memstore.
type Store interface {
	UserStore
	NotificationStore
	WikiStore
	RoomStore
	ActivityStore
	CourseStore
}

// Package memstore is an in-memory store.Store used by tests and local
// development. Maps guarded by one RWMutex; values are copied on the way out
// so callers cannot mutate the tables behind the lock.
package memstore

import (
	"sync"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store"
)

type Store struct {
	mu sync.RWMutex

	users           map[string]*models.User
	notifications   map[string]*models.Notification
	articles        map[string]*models.WikiArticle
	revisions       []models.WikiRevision
	likes           map[string]*models.WikiLike
	peerReviews     map[string]*models.PeerReview
	rooms           map[string]*models.StudyRoom
	whiteboards     map[string]*models.Whiteboard
	sharedDocuments map[string]*models.SharedDocument
	roomMessages    []models.RoomMessage
	roomActivities  []models.RoomActivity
	courses         map[string]*models.Course
	enrollments     map[string]*models.Enrollment
	orders          map[string]*models.PaymentOrder

	lessonProgress  []models.LessonProgress
	videoProgress   []models.VideoProgress
	quizAttempts    []models.QuizAttempt
	forumPosts      []models.ForumPost
	forumReplies    []models.ForumReply
	achievements    []models.UserAchievement
	groupJoins      []models.StudyGroupParticipation
	mentorships     []models.Mentorship
	collabSessions  []models.CollaborationSession
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:           make(map[string]*models.User),
		notifications:   make(map[string]*models.Notification),
		articles:        make(map[string]*models.WikiArticle),
		likes:           make(map[string]*models.WikiLike),
		peerReviews:     make(map[string]*models.PeerReview),
		rooms:           make(map[string]*models.StudyRoom),
		whiteboards:     make(map[string]*models.Whiteboard),
		sharedDocuments: make(map[string]*models.SharedDocument),
		courses:         make(map[string]*models.Course),
		enrollments:     make(map[string]*models.Enrollment),
		orders:          make(map[string]*models.PaymentOrder),
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func union(list []string, v string) []string {
	if contains(list, v) {
		return list
	}
	return append(list, v)
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

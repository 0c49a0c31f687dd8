// Package mongostore implements store.Store on MongoDB.
package mongostore

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studyhall/studyhall-api/internal/store"
)

// Collection names.
const (
	colUsers                   = "users"
	colNotifications           = "notifications"
	colWikiArticles            = "wikiArticles"
	colWikiRevisions           = "wikiRevisions"
	colWikiLikes               = "wikiLikes"
	colPeerReviews             = "peerReviews"
	colStudyRooms              = "studyRooms"
	colWhiteboards             = "whiteboards"
	colSharedDocuments         = "sharedDocuments"
	colRoomMessages            = "roomMessages"
	colRoomActivities          = "roomActivities"
	colCourses                 = "courses"
	colEnrollments             = "enrollments"
	colPaymentOrders           = "paymentOrders"
	colLessonProgress          = "lessonProgress"
	colVideoProgress           = "videoProgress"
	colQuizAttempts            = "quizAttempts"
	colForumPosts              = "forumPosts"
	colForumReplies            = "forumReplies"
	colUserAchievements        = "userAchievements"
	colStudyGroupParticipation = "studyGroupParticipations"
	colMentorships             = "mentorships"
	colCollaborationSessions   = "collaborationSessions"
)

type Store struct {
	db *mongo.Database
}

var _ store.Store = (*Store)(nil)

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

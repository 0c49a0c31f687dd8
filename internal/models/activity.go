package models

import (
	"time"
)

// Per-collection activity records read by the email digest. These are written
// by the learning flows and only counted here, so the shapes stay minimal.

type LessonProgress struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"userId" bson:"userId"`
	CourseID    string    `json:"courseId" bson:"courseId"`
	LessonID    string    `json:"lessonId" bson:"lessonId"`
	CompletedAt time.Time `json:"completedAt" bson:"completedAt"`
}

type VideoProgress struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	VideoID   string    `json:"videoId" bson:"videoId"`
	Seconds   int       `json:"seconds" bson:"seconds"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type QuizAttempt struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	QuizID    string    `json:"quizId" bson:"quizId"`
	Score     float64   `json:"score" bson:"score"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type ForumPost struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	Title     string    `json:"title" bson:"title"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type ForumReply struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	PostID    string    `json:"postId" bson:"postId"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type UserAchievement struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	Name      string    `json:"name" bson:"name"`
	EarnedAt  time.Time `json:"earnedAt" bson:"earnedAt"`
}

type StudyGroupParticipation struct {
	ID       string    `json:"id" bson:"_id"`
	UserID   string    `json:"userId" bson:"userId"`
	GroupID  string    `json:"groupId" bson:"groupId"`
	JoinedAt time.Time `json:"joinedAt" bson:"joinedAt"`
}

type Mentorship struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	MentorID  string    `json:"mentorId" bson:"mentorId"`
	SessionAt time.Time `json:"sessionAt" bson:"sessionAt"`
}

type CollaborationSession struct {
	ID       string    `json:"id" bson:"_id"`
	UserID   string    `json:"userId" bson:"userId"`
	RoomID   string    `json:"roomId" bson:"roomId"`
	JoinedAt time.Time `json:"joinedAt" bson:"joinedAt"`
}

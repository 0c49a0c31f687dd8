package models

import (
	"time"
)

type DigestType string

const (
	DigestTypeWeekly  DigestType = "weekly"
	DigestTypeMonthly DigestType = "monthly"
)

type TimeRange struct {
	From time.Time  `json:"from"`
	To   time.Time  `json:"to"`
	Type DigestType `json:"type"`
}

// ActivitySummary aggregates one user's activity over a digest window.
// TotalActivities is a flat sum; EngagementScore applies per-category weights
// and clamps to 100. The two numbers use different formulas on purpose.
type ActivitySummary struct {
	LessonsCompleted      int    `json:"lessonsCompleted"`
	VideosWatched         int    `json:"videosWatched"`
	QuizzesAttempted      int    `json:"quizzesAttempted"`
	AverageQuizScore      float64 `json:"averageQuizScore"`
	QuizTrend             string `json:"quizTrend"` // improving, declining, stable, insufficient-data
	PostsCreated          int    `json:"postsCreated"`
	RepliesPosted         int    `json:"repliesPosted"`
	Achievements          int    `json:"achievements"`
	GroupsJoined          int    `json:"groupsJoined"`
	MentoringSessions     int    `json:"mentoringSessions"`
	CollaborationSessions int    `json:"collaborationSessions"`
	NotificationsReceived int    `json:"notificationsReceived"`
	NotificationsUnread   int    `json:"notificationsUnread"`
	TotalActivities       int    `json:"totalActivities"`
	EngagementScore       int    `json:"engagementScore"`
}

type Digest struct {
	Subject         string          `json:"subject"`
	Content         string          `json:"content"`
	ActivitySummary ActivitySummary `json:"activitySummary"`
	GeneratedAt     time.Time       `json:"generatedAt"`
	TimeRange       TimeRange       `json:"timeRange"`
}

type DigestResult struct {
	Success bool    `json:"success"`
	Error   string  `json:"error,omitempty"`
	Data    *Digest `json:"data,omitempty"`
}

// DigestBatchReport summarizes one scheduled run across all eligible users.
type DigestBatchReport struct {
	Eligible   int `json:"eligible"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

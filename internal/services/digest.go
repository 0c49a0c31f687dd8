package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store"
)

// EmailDigestService aggregates time-windowed activity into a per-user
// summary and renders it into a digest email, with a generated-prose body
// when the text model is available and a fixed template when it is not.
type EmailDigestService struct {
	users         store.UserStore
	activity      store.ActivityStore
	notifications store.NotificationStore
	gen           TextGenerator
	email         EmailSender
	log           zerolog.Logger
	now           func() time.Time
}

func NewEmailDigestService(users store.UserStore, activity store.ActivityStore, notifications store.NotificationStore, gen TextGenerator, email EmailSender, log zerolog.Logger) *EmailDigestService {
	return &EmailDigestService{
		users:         users,
		activity:      activity,
		notifications: notifications,
		gen:           gen,
		email:         email,
		log:           log.With().Str("component", "digest").Logger(),
		now:           time.Now,
	}
}

// timeRange uses fixed windows, not calendar boundaries.
func (s *EmailDigestService) timeRange(t models.DigestType) models.TimeRange {
	now := s.now()
	days := 7
	if t == models.DigestTypeMonthly {
		days = 30
	}
	return models.TimeRange{
		From: now.Add(-time.Duration(days) * 24 * time.Hour),
		To:   now,
		Type: t,
	}
}

// GenerateDigest fails loudly only when the user cannot be found. Every
// activity fetcher degrades to zero on its own error so one collection outage
// yields a partial digest instead of none.
func (s *EmailDigestService) GenerateDigest(ctx context.Context, userID string, dtype models.DigestType) (*models.DigestResult, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return &models.DigestResult{Success: false, Error: "user profile not found"}, nil
	}

	tr := s.timeRange(dtype)
	summary := s.collectActivity(ctx, userID, tr)

	content := s.generatePersonalizedContent(ctx, user, summary, tr)

	subject := fmt.Sprintf("Your %s learning digest", dtype)
	return &models.DigestResult{
		Success: true,
		Data: &models.Digest{
			Subject:         subject,
			Content:         content,
			ActivitySummary: summary,
			GeneratedAt:     s.now(),
			TimeRange:       tr,
		},
	}, nil
}

// collectActivity runs every per-category fetcher, swallowing individual
// errors into zeroed defaults.
func (s *EmailDigestService) collectActivity(ctx context.Context, userID string, tr models.TimeRange) models.ActivitySummary {
	var sum models.ActivitySummary

	sum.LessonsCompleted = s.count(ctx, "lessons", userID, tr, s.activity.CountLessonsCompleted)
	sum.VideosWatched = s.count(ctx, "videos", userID, tr, s.activity.CountVideosWatched)
	sum.PostsCreated = s.count(ctx, "posts", userID, tr, s.activity.CountForumPosts)
	sum.RepliesPosted = s.count(ctx, "replies", userID, tr, s.activity.CountForumReplies)
	sum.Achievements = s.count(ctx, "achievements", userID, tr, s.activity.CountAchievements)
	sum.GroupsJoined = s.count(ctx, "groups", userID, tr, s.activity.CountStudyGroupJoins)
	sum.MentoringSessions = s.count(ctx, "mentoring", userID, tr, s.activity.CountMentoringSessions)
	sum.CollaborationSessions = s.count(ctx, "collaboration", userID, tr, s.activity.CountCollaborationSessions)

	scores, err := s.activity.ListQuizScores(ctx, userID, tr.From, tr.To)
	if err != nil {
		s.log.Warn().Err(err).Str("user", userID).Msg("quiz activity unavailable")
		scores = nil
	}
	sum.QuizzesAttempted = len(scores)
	sum.AverageQuizScore = average(scores)
	sum.QuizTrend = scoreTrend(scores)

	total, unread, err := s.notifications.CountNotifications(ctx, userID, tr.From, tr.To)
	if err != nil {
		s.log.Warn().Err(err).Str("user", userID).Msg("notification activity unavailable")
		total, unread = 0, 0
	}
	sum.NotificationsReceived = total
	sum.NotificationsUnread = unread

	sum.TotalActivities = sum.LessonsCompleted + sum.VideosWatched + sum.QuizzesAttempted +
		sum.PostsCreated + sum.RepliesPosted + sum.Achievements +
		sum.GroupsJoined + sum.MentoringSessions + sum.CollaborationSessions
	sum.EngagementScore = engagementScore(sum)

	return sum
}

type countFn func(ctx context.Context, userID string, from, to time.Time) (int, error)

func (s *EmailDigestService) count(ctx context.Context, what, userID string, tr models.TimeRange, fn countFn) int {
	n, err := fn(ctx, userID, tr.From, tr.To)
	if err != nil {
		s.log.Warn().Err(err).Str("user", userID).Str("category", what).Msg("activity fetch degraded to zero")
		return 0
	}
	return n
}

// engagementScore is a weighted sum clamped to 100. It deliberately uses a
// different formula than TotalActivities.
func engagementScore(sum models.ActivitySummary) int {
	score := sum.LessonsCompleted*5 +
		sum.QuizzesAttempted*3 +
		sum.PostsCreated*4 +
		sum.RepliesPosted*2 +
		sum.Achievements*10 +
		sum.GroupsJoined*8 +
		sum.MentoringSessions*15 +
		sum.CollaborationSessions*6
	if score > 100 {
		score = 100
	}
	return score
}

// scoreTrend splits the attempts chronologically in half (scores arrive
// newest first) and compares the halves' averages.
func scoreTrend(scores []float64) string {
	if len(scores) < 2 {
		return "insufficient-data"
	}
	half := len(scores) / 2
	recentAvg := average(scores[:half])
	olderAvg := average(scores[half:])

	diff := recentAvg - olderAvg
	switch {
	case diff > 5:
		return "improving"
	case diff < -5:
		return "declining"
	default:
		return "stable"
	}
}

func average(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var total float64
	for _, v := range scores {
		total += v
	}
	return total / float64(len(scores))
}

// generatePersonalizedContent asks the text model for the digest prose and
// falls back to the numeric template on any failure.
func (s *EmailDigestService) generatePersonalizedContent(ctx context.Context, user *models.User, sum models.ActivitySummary, tr models.TimeRange) string {
	prompt := buildDigestPrompt(user, sum, tr)
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.log.Warn().Err(err).Str("user", user.ID).Msg("content generation failed, using template")
		return generateFallbackContent(user, sum, tr)
	}
	return text
}

func buildDigestPrompt(user *models.User, sum models.ActivitySummary, tr models.TimeRange) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short, encouraging %s learning digest email body in HTML for %s.\n", tr.Type, user.Name)
	fmt.Fprintf(&b, "Activity between %s and %s:\n", tr.From.Format("Jan 2"), tr.To.Format("Jan 2"))
	fmt.Fprintf(&b, "- Lessons completed: %d\n", sum.LessonsCompleted)
	fmt.Fprintf(&b, "- Videos watched: %d\n", sum.VideosWatched)
	fmt.Fprintf(&b, "- Quizzes attempted: %d (average score %.1f, trend: %s)\n", sum.QuizzesAttempted, sum.AverageQuizScore, sum.QuizTrend)
	fmt.Fprintf(&b, "- Forum posts: %d, replies: %d\n", sum.PostsCreated, sum.RepliesPosted)
	fmt.Fprintf(&b, "- Achievements earned: %d\n", sum.Achievements)
	fmt.Fprintf(&b, "- Study groups joined: %d\n", sum.GroupsJoined)
	fmt.Fprintf(&b, "- Mentoring sessions: %d\n", sum.MentoringSessions)
	fmt.Fprintf(&b, "- Collaboration sessions: %d\n", sum.CollaborationSessions)
	fmt.Fprintf(&b, "- Engagement score: %d/100\n", sum.EngagementScore)
	b.WriteString("Keep it under 200 words. Do not invent numbers not listed above.")
	return b.String()
}

// generateFallbackContent builds the digest body purely from the numeric
// summary. It must stay reachable and correct without the text model.
func generateFallbackContent(user *models.User, sum models.ActivitySummary, tr models.TimeRange) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Hi %s, here is your %s summary</h2>", user.Name, tr.Type)
	fmt.Fprintf(&b, "<p>Between %s and %s you logged %d activities.</p>",
		tr.From.Format("Jan 2"), tr.To.Format("Jan 2"), sum.TotalActivities)
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li>%d lessons completed</li>", sum.LessonsCompleted)
	fmt.Fprintf(&b, "<li>%d videos watched</li>", sum.VideosWatched)
	fmt.Fprintf(&b, "<li>%d quizzes attempted (trend: %s)</li>", sum.QuizzesAttempted, sum.QuizTrend)
	fmt.Fprintf(&b, "<li>%d forum posts and %d replies</li>", sum.PostsCreated, sum.RepliesPosted)
	fmt.Fprintf(&b, "<li>%d achievements earned</li>", sum.Achievements)
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p>Your engagement score: <strong>%d/100</strong>. Keep going!</p>", sum.EngagementScore)
	return b.String()
}

// RunDigestBatch generates and emails a digest for every user whose saved
// frequency matches. Individual failures never abort the batch.
func (s *EmailDigestService) RunDigestBatch(ctx context.Context, dtype models.DigestType) (*models.DigestBatchReport, error) {
	freq := models.DigestWeekly
	if dtype == models.DigestTypeMonthly {
		freq = models.DigestMonthly
	}

	users, err := s.users.ListUsersByDigestFrequency(ctx, freq)
	if err != nil {
		return nil, fmt.Errorf("list digest users: %w", err)
	}

	report := &models.DigestBatchReport{Eligible: len(users)}
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, u := range users {
		u := u
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.generateAndSend(ctx, u, dtype)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Warn().Err(err).Str("user", u.ID).Msg("digest failed")
				report.Failed++
			} else {
				report.Successful++
			}
		}()
	}
	wg.Wait()

	s.log.Info().
		Str("type", string(dtype)).
		Int("eligible", report.Eligible).
		Int("successful", report.Successful).
		Int("failed", report.Failed).
		Msg("digest batch finished")
	return report, nil
}

func (s *EmailDigestService) generateAndSend(ctx context.Context, user models.User, dtype models.DigestType) error {
	res, err := s.GenerateDigest(ctx, user.ID, dtype)
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("generate digest: %s", res.Error)
	}
	return s.email.Send(EmailMessage{
		To:          user.Email,
		ToName:      user.Name,
		Subject:     res.Data.Subject,
		TextContent: res.Data.Content,
		HTMLContent: res.Data.Content,
	})
}

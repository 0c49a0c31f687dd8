package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store/memstore"
)

func newDigestFixture(t *testing.T, gen TextGenerator) (*EmailDigestService, *memstore.Store, *fakeEmail) {
	t.Helper()
	st := memstore.New()
	email := &fakeEmail{}
	svc := NewEmailDigestService(st, st, st, gen, email, testLogger())
	return svc, st, email
}

func TestTimeRangeWindows(t *testing.T) {
	svc, _, _ := newDigestFixture(t, failingGen())
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	svc.now = clockAt(now)

	weekly := svc.timeRange(models.DigestTypeWeekly)
	assert.Equal(t, now.Add(-7*24*time.Hour), weekly.From)
	assert.Equal(t, now, weekly.To)

	monthly := svc.timeRange(models.DigestTypeMonthly)
	assert.Equal(t, now.Add(-30*24*time.Hour), monthly.From)
}

func TestEngagementScore(t *testing.T) {
	score := engagementScore(models.ActivitySummary{
		LessonsCompleted: 2,
		QuizzesAttempted: 1,
		Achievements:     1,
	})
	assert.Equal(t, 23, score)

	clamped := engagementScore(models.ActivitySummary{MentoringSessions: 10})
	assert.Equal(t, 100, clamped)

	assert.Equal(t, 0, engagementScore(models.ActivitySummary{}))
}

func TestScoreTrend(t *testing.T) {
	cases := []struct {
		name   string
		scores []float64 // newest first
		want   string
	}{
		{"too few", []float64{80}, "insufficient-data"},
		{"empty", nil, "insufficient-data"},
		{"improving", []float64{90, 85, 50, 40}, "improving"},
		{"declining", []float64{40, 50, 85, 90}, "declining"},
		{"stable", []float64{80, 82, 79, 81}, "stable"},
		{"odd count", []float64{95, 60, 50}, "improving"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scoreTrend(tc.scores))
		})
	}
}

func TestGenerateDigestUnknownUser(t *testing.T) {
	svc, _, _ := newDigestFixture(t, failingGen())

	res, err := svc.GenerateDigest(context.Background(), "nobody", models.DigestTypeWeekly)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "user profile not found", res.Error)
	assert.Nil(t, res.Data)
}

func TestGenerateDigestFallbackContent(t *testing.T) {
	svc, st, _ := newDigestFixture(t, failingGen())
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	svc.now = clockAt(now)

	seedUser(t, st, models.User{ID: "u1", Email: "u1@example.com", Name: "Ada"})
	inWindow := now.Add(-2 * 24 * time.Hour)
	outside := now.Add(-10 * 24 * time.Hour)

	st.AddLessonProgress(models.LessonProgress{ID: "l1", UserID: "u1", CompletedAt: inWindow})
	st.AddLessonProgress(models.LessonProgress{ID: "l2", UserID: "u1", CompletedAt: inWindow})
	st.AddLessonProgress(models.LessonProgress{ID: "l3", UserID: "u1", CompletedAt: outside})
	st.AddQuizAttempt(models.QuizAttempt{ID: "q1", UserID: "u1", Score: 80, CreatedAt: inWindow})
	st.AddAchievement(models.UserAchievement{ID: "a1", UserID: "u1", EarnedAt: inWindow})
	st.AddForumPost(models.ForumPost{ID: "p1", UserID: "other", CreatedAt: inWindow})

	res, err := svc.GenerateDigest(context.Background(), "u1", models.DigestTypeWeekly)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.Data)

	sum := res.Data.ActivitySummary
	assert.Equal(t, 2, sum.LessonsCompleted)
	assert.Equal(t, 1, sum.QuizzesAttempted)
	assert.Equal(t, 80.0, sum.AverageQuizScore)
	assert.Equal(t, "insufficient-data", sum.QuizTrend)
	assert.Equal(t, 1, sum.Achievements)
	assert.Equal(t, 0, sum.PostsCreated)
	assert.Equal(t, 4, sum.TotalActivities)
	assert.Equal(t, 23, sum.EngagementScore)

	assert.Contains(t, res.Data.Content, "Hi Ada")
	assert.Contains(t, res.Data.Content, "2 lessons completed")
	assert.Contains(t, res.Data.Content, "23/100")
	assert.Equal(t, "Your weekly learning digest", res.Data.Subject)
}

func TestGenerateDigestUsesModelContent(t *testing.T) {
	gen := &fakeGen{text: "<p>Great week, Ada!</p>"}
	svc, st, _ := newDigestFixture(t, gen)
	seedUser(t, st, models.User{ID: "u1", Email: "u1@example.com", Name: "Ada"})

	res, err := svc.GenerateDigest(context.Background(), "u1", models.DigestTypeMonthly)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "<p>Great week, Ada!</p>", res.Data.Content)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "monthly")
	assert.Contains(t, gen.prompts[0], "Ada")
}

func TestGenerateDigestIncludesNotificationCounts(t *testing.T) {
	svc, st, _ := newDigestFixture(t, failingGen())
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	svc.now = clockAt(now)
	seedUser(t, st, models.User{ID: "u1", Name: "Ada"})

	require.NoError(t, st.InsertNotification(context.Background(), &models.Notification{
		ID: "n1", UserID: "u1", Type: models.TypeSystem,
		CreatedAt: now.Add(-24 * time.Hour), ExpiresAt: now.Add(720 * time.Hour),
	}))
	require.NoError(t, st.InsertNotification(context.Background(), &models.Notification{
		ID: "n2", UserID: "u1", Type: models.TypeSystem, Read: true,
		CreatedAt: now.Add(-24 * time.Hour), ExpiresAt: now.Add(720 * time.Hour),
	}))

	res, err := svc.GenerateDigest(context.Background(), "u1", models.DigestTypeWeekly)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Data.ActivitySummary.NotificationsReceived)
	assert.Equal(t, 1, res.Data.ActivitySummary.NotificationsUnread)
}

func TestRunDigestBatchIsolatesFailures(t *testing.T) {
	svc, st, email := newDigestFixture(t, failingGen())
	email.failFor = map[string]bool{"bad@example.com": true}

	weekly := models.DefaultPreferences()
	seedUser(t, st, models.User{ID: "u1", Email: "ok@example.com", Name: "Ada", Preferences: weekly})
	seedUser(t, st, models.User{ID: "u2", Email: "bad@example.com", Name: "Bob", Preferences: weekly})

	monthly := models.DefaultPreferences()
	monthly.DigestFrequency = models.DigestMonthly
	seedUser(t, st, models.User{ID: "u3", Email: "m@example.com", Name: "Cam", Preferences: monthly})

	report, err := svc.RunDigestBatch(context.Background(), models.DigestTypeWeekly)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Eligible)
	assert.Equal(t, 1, report.Successful)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{"ok@example.com"}, email.sentTo())
}

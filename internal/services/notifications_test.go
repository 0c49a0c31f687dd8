package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store/memstore"
)

func newNotificationFixture(t *testing.T) (*NotificationService, *memstore.Store, *fakePush, *fakeEmail) {
	t.Helper()
	st := memstore.New()
	push := &fakePush{}
	email := &fakeEmail{}
	svc := NewNotificationService(st, st, push, email, testLogger())
	return svc, st, push, email
}

func seedUser(t *testing.T, st *memstore.Store, u models.User) {
	t.Helper()
	require.NoError(t, st.CreateUser(context.Background(), &u))
}

func TestSendWithoutPreferencesUsesBothChannels(t *testing.T) {
	svc, st, push, email := newNotificationFixture(t)
	seedUser(t, st, models.User{ID: "u1", Email: "u1@example.com", Name: "Ada", FCMToken: "tok1"})

	res, err := svc.Send(context.Background(), models.SendNotificationRequest{
		UserID: "u1",
		Type:   models.TypeCourseUpdate,
		Title:  "New module",
		Body:   "Module 3 is live",
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.False(t, res.Blocked)
	assert.NotEmpty(t, res.NotificationID)
	assert.ElementsMatch(t, []models.DeliveryMethod{models.MethodPush, models.MethodEmail}, res.SentMethods)

	require.Len(t, push.calls, 1)
	assert.Equal(t, "tok1", push.calls[0].Token)
	assert.Equal(t, []string{"u1@example.com"}, email.sentTo())

	stored, err := st.GetNotification(context.Background(), res.NotificationID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.DeliveryMethod{models.MethodPush, models.MethodEmail}, stored.SentMethods)
	assert.Equal(t, models.PriorityNormal, stored.Priority)
}

func TestSendRejectsUnknownType(t *testing.T) {
	svc, _, _, _ := newNotificationFixture(t)

	_, err := svc.Send(context.Background(), models.SendNotificationRequest{
		UserID: "u1",
		Type:   "carrier_pigeon",
		Title:  "hi",
	})
	assert.ErrorIs(t, err, ErrUnknownNotificationType)
}

func TestSendFullyBlockedPersistsNothing(t *testing.T) {
	svc, st, push, email := newNotificationFixture(t)
	seedUser(t, st, models.User{
		ID:    "u1",
		Email: "u1@example.com",
		Preferences: &models.NotificationPreferences{
			Enabled: false,
		},
	})

	res, err := svc.Send(context.Background(), models.SendNotificationRequest{
		UserID: "u1",
		Type:   models.TypeForumReply,
		Title:  "reply",
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.True(t, res.Blocked)
	assert.Empty(t, res.NotificationID)
	assert.Empty(t, push.calls)
	assert.Empty(t, email.sent)

	list, err := st.ListNotificationsByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSendQuietHoursBlocksPushNotEmail(t *testing.T) {
	svc, st, push, email := newNotificationFixture(t)
	prefs := models.DefaultPreferences()
	prefs.QuietHours = models.QuietHours{Enabled: true, Start: "22:00", End: "08:00"}
	seedUser(t, st, models.User{ID: "u1", Email: "u1@example.com", FCMToken: "tok1", Preferences: prefs})

	svc.now = clockAt(time.Date(2026, 8, 29, 23, 30, 0, 0, time.UTC))

	res, err := svc.Send(context.Background(), models.SendNotificationRequest{
		UserID: "u1",
		Type:   models.TypeCourseUpdate,
		Title:  "late night update",
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.False(t, res.Blocked)
	assert.Equal(t, []models.DeliveryMethod{models.MethodEmail}, res.SentMethods)
	assert.Empty(t, push.calls)
	assert.Len(t, email.sent, 1)
}

func TestSendPerTypeOverride(t *testing.T) {
	svc, st, push, email := newNotificationFixture(t)
	prefs := models.DefaultPreferences()
	prefs.Types[models.TypeStudyReminder] = models.TypePreference{Push: true, Email: false}
	seedUser(t, st, models.User{ID: "u1", Email: "u1@example.com", FCMToken: "tok1", Preferences: prefs})

	res, err := svc.Send(context.Background(), models.SendNotificationRequest{
		UserID: "u1",
		Type:   models.TypeStudyReminder,
		Title:  "time to study",
	})
	require.NoError(t, err)

	assert.Equal(t, []models.DeliveryMethod{models.MethodPush}, res.SentMethods)
	assert.Len(t, push.calls, 1)
	assert.Empty(t, email.sent)
}

func TestSendDeliveryFailureStillRecordsAttempt(t *testing.T) {
	svc, st, push, _ := newNotificationFixture(t)
	push.err = errors.New("fcm down")
	prefs := models.DefaultPreferences()
	prefs.EmailEnabled = false
	seedUser(t, st, models.User{ID: "u1", FCMToken: "tok1", Preferences: prefs})

	res, err := svc.Send(context.Background(), models.SendNotificationRequest{
		UserID: "u1",
		Type:   models.TypeAchievement,
		Title:  "badge earned",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)

	stored, err := st.GetNotification(context.Background(), res.NotificationID)
	require.NoError(t, err)
	assert.Equal(t, []models.DeliveryMethod{models.MethodPush}, stored.SentMethods)
}

func TestQuietHoursWindow(t *testing.T) {
	at := func(hhmm string) time.Time {
		clock, _ := time.Parse("15:04", hhmm)
		return time.Date(2026, 8, 29, clock.Hour(), clock.Minute(), 0, 0, time.UTC)
	}

	cases := []struct {
		name    string
		qh      models.QuietHours
		now     string
		blocked bool
	}{
		{"midnight span start", models.QuietHours{Enabled: true, Start: "22:00", End: "08:00"}, "22:00", true},
		{"midnight span before", models.QuietHours{Enabled: true, Start: "22:00", End: "08:00"}, "21:00", false},
		{"midnight span end", models.QuietHours{Enabled: true, Start: "22:00", End: "08:00"}, "08:00", true},
		{"midnight span after end", models.QuietHours{Enabled: true, Start: "22:00", End: "08:00"}, "08:01", false},
		{"midnight span middle", models.QuietHours{Enabled: true, Start: "22:00", End: "08:00"}, "03:15", true},
		{"same day start", models.QuietHours{Enabled: true, Start: "09:00", End: "17:00"}, "09:00", true},
		{"same day end", models.QuietHours{Enabled: true, Start: "09:00", End: "17:00"}, "17:00", true},
		{"same day before", models.QuietHours{Enabled: true, Start: "09:00", End: "17:00"}, "08:00", false},
		{"disabled", models.QuietHours{Enabled: false, Start: "00:00", End: "23:59"}, "12:00", false},
		{"bad start format", models.QuietHours{Enabled: true, Start: "25:00", End: "08:00"}, "03:00", false},
		{"bad end format", models.QuietHours{Enabled: true, Start: "22:00", End: "eight"}, "23:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.blocked, inQuietHours(tc.qh, at(tc.now)))
		})
	}
}

type unorderedOnlyStore struct {
	*memstore.Store
}

func (s unorderedOnlyStore) ListNotificationsOrdered(context.Context, string, int) ([]models.Notification, error) {
	return nil, errors.New("index not available")
}

func TestGetUserNotificationsFallsBackToScan(t *testing.T) {
	mem := memstore.New()
	svc := NewNotificationService(unorderedOnlyStore{mem}, mem, &fakePush{}, &fakeEmail{}, testLogger())

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, mem.InsertNotification(context.Background(), &models.Notification{
			ID:        string(rune('a' + i)),
			UserID:    "u1",
			Type:      models.TypeSystem,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			ExpiresAt: base.Add(720 * time.Hour),
		}))
	}

	list, err := svc.GetUserNotifications(context.Background(), "u1", 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "e", list[0].ID)
	assert.Equal(t, "d", list[1].ID)
	assert.Equal(t, "c", list[2].ID)
}

func TestGetStatsCountsExpired(t *testing.T) {
	svc, st, _, _ := newNotificationFixture(t)
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	svc.now = clockAt(now)

	insert := func(id string, read, clicked bool, expiresAt time.Time) {
		require.NoError(t, st.InsertNotification(context.Background(), &models.Notification{
			ID: id, UserID: "u1", Type: models.TypeSystem,
			Read: read, Clicked: clicked,
			CreatedAt: now.Add(-time.Hour), ExpiresAt: expiresAt,
		}))
	}
	insert("n1", true, true, now.Add(time.Hour))
	insert("n2", false, false, now.Add(-time.Minute))
	insert("n3", false, false, now.Add(time.Hour))

	stats, err := svc.GetStats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Unread)
	assert.Equal(t, 1, stats.Clicked)
	assert.Equal(t, 1, stats.Expired)
}

func TestMarkAsReadAndClicked(t *testing.T) {
	svc, st, _, _ := newNotificationFixture(t)
	require.NoError(t, st.InsertNotification(context.Background(), &models.Notification{
		ID: "n1", UserID: "u1", Type: models.TypeSystem,
	}))

	require.NoError(t, svc.MarkAsRead(context.Background(), "n1"))
	require.NoError(t, svc.MarkAsClicked(context.Background(), "n1"))

	n, err := st.GetNotification(context.Background(), "n1")
	require.NoError(t, err)
	assert.True(t, n.Read)
	assert.True(t, n.Clicked)
	require.NotNil(t, n.ReadAt)
	require.NotNil(t, n.ClickedAt)
}

func TestMarkAllAsRead(t *testing.T) {
	svc, st, _, _ := newNotificationFixture(t)
	for _, id := range []string{"n1", "n2"} {
		require.NoError(t, st.InsertNotification(context.Background(), &models.Notification{
			ID: id, UserID: "u1", Type: models.TypeSystem,
		}))
	}
	require.NoError(t, st.InsertNotification(context.Background(), &models.Notification{
		ID: "n3", UserID: "u1", Type: models.TypeSystem, Read: true,
	}))
	require.NoError(t, st.InsertNotification(context.Background(), &models.Notification{
		ID: "other", UserID: "u2", Type: models.TypeSystem,
	}))

	updated, err := svc.MarkAllAsRead(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	stats, err := svc.GetStats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Unread)
}

func TestGetPreferencesReturnsDefaultsWhenUnset(t *testing.T) {
	svc, st, _, _ := newNotificationFixture(t)
	seedUser(t, st, models.User{ID: "u1", Email: "u1@example.com"})

	prefs, err := svc.GetPreferences(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, prefs.Enabled)
	assert.Equal(t, models.DigestWeekly, prefs.DigestFrequency)
	assert.False(t, prefs.QuietHours.Enabled)

	// Defaults are materialized, never written back.
	u, err := st.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, u.Preferences)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store"
)

var ErrUnknownNotificationType = errors.New("unknown notification type")

// NotificationService owns the notifications collection and the per-user
// preference evaluation that gates delivery.
type NotificationService struct {
	notifications store.NotificationStore
	users         store.UserStore
	push          PushSender
	email         EmailSender
	log           zerolog.Logger
	now           func() time.Time
}

func NewNotificationService(notifications store.NotificationStore, users store.UserStore, push PushSender, email EmailSender, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		push:          push,
		email:         email,
		log:           log.With().Str("component", "notifications").Logger(),
		now:           time.Now,
	}
}

// Send evaluates preferences for push and email independently. When both
// channels are blocked the call succeeds without persisting anything.
// Otherwise the record is always created; delivery is fire-and-forget and
// sentMethods records the attempt, not confirmed delivery.
func (s *NotificationService) Send(ctx context.Context, req models.SendNotificationRequest) (*models.SendNotificationResult, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNotificationType, req.Type)
	}

	user, err := s.users.GetUser(ctx, req.UserID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load user: %w", err)
	}

	var prefs *models.NotificationPreferences
	if user != nil {
		prefs = user.Preferences
	}

	now := s.now()
	allowPush := shouldSend(prefs, req.Type, models.MethodPush, now)
	allowEmail := shouldSend(prefs, req.Type, models.MethodEmail, now)

	if !allowPush && !allowEmail {
		return &models.SendNotificationResult{Success: true, Blocked: true}, nil
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}

	n := &models.Notification{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		Type:        req.Type,
		Title:       req.Title,
		Body:        req.Body,
		Data:        req.Data,
		Priority:    priority,
		SentMethods: []models.DeliveryMethod{},
		CreatedAt:   now,
		ExpiresAt:   req.Type.ExpirationFrom(now),
	}
	if err := s.notifications.InsertNotification(ctx, n); err != nil {
		return nil, err
	}

	var sent []models.DeliveryMethod
	if allowPush {
		s.deliverPush(ctx, user, n)
		sent = append(sent, models.MethodPush)
	}
	if allowEmail {
		s.deliverEmail(ctx, user, n)
		sent = append(sent, models.MethodEmail)
	}

	return &models.SendNotificationResult{
		Success:        true,
		NotificationID: n.ID,
		SentMethods:    sent,
	}, nil
}

// deliverPush attempts delivery and records the attempt. Failures are logged
// and never fed back into the stored record.
func (s *NotificationService) deliverPush(ctx context.Context, user *models.User, n *models.Notification) {
	token := ""
	if user != nil {
		token = user.FCMToken
	}
	if err := s.push.SendToToken(ctx, token, n.Title, n.Body, n.Data); err != nil {
		s.log.Warn().Err(err).Str("notification", n.ID).Msg("push delivery failed")
	}
	if err := s.notifications.AppendSentMethod(ctx, n.ID, models.MethodPush); err != nil {
		s.log.Warn().Err(err).Str("notification", n.ID).Msg("failed to record push attempt")
	}
}

func (s *NotificationService) deliverEmail(ctx context.Context, user *models.User, n *models.Notification) {
	if user != nil && user.Email != "" {
		err := s.email.Send(EmailMessage{
			To:          user.Email,
			ToName:      user.Name,
			Subject:     n.Title,
			TextContent: n.Body,
			HTMLContent: "<p>" + n.Body + "</p>",
		})
		if err != nil {
			s.log.Warn().Err(err).Str("notification", n.ID).Msg("email delivery failed")
		}
	}
	if err := s.notifications.AppendSentMethod(ctx, n.ID, models.MethodEmail); err != nil {
		s.log.Warn().Err(err).Str("notification", n.ID).Msg("failed to record email attempt")
	}
}

// shouldSend is the delivery gate, evaluated per method:
// missing preferences allow, the global switch denies, then the method
// toggle, then the per-type flag, and for push only the quiet-hours window.
func shouldSend(prefs *models.NotificationPreferences, t models.NotificationType, method models.DeliveryMethod, now time.Time) bool {
	if prefs == nil {
		return true
	}
	if !prefs.Enabled {
		return false
	}

	switch method {
	case models.MethodPush:
		if !prefs.PushEnabled {
			return false
		}
	case models.MethodEmail:
		if !prefs.EmailEnabled {
			return false
		}
	}

	if tp, ok := prefs.Types[t]; ok {
		if method == models.MethodPush && !tp.Push {
			return false
		}
		if method == models.MethodEmail && !tp.Email {
			return false
		}
	}

	if method == models.MethodPush && inQuietHours(prefs.QuietHours, now) {
		return false
	}
	return true
}

// inQuietHours compares HH:MM clock values as hours*100+minutes integers.
// A start later than end spans midnight; both bounds are inclusive.
func inQuietHours(qh models.QuietHours, now time.Time) bool {
	if !qh.Enabled {
		return false
	}
	start, okS := parseClock(qh.Start)
	end, okE := parseClock(qh.End)
	if !okS || !okE {
		return false
	}

	current := now.Hour()*100 + now.Minute()
	if start > end {
		return current >= start || current <= end
	}
	return current >= start && current <= end
}

func parseClock(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*100 + m, true
}

// MarkAsRead is an idempotent field set with the current server time.
func (s *NotificationService) MarkAsRead(ctx context.Context, id string) error {
	return s.notifications.MarkNotificationRead(ctx, id, s.now())
}

func (s *NotificationService) MarkAsClicked(ctx context.Context, id string) error {
	return s.notifications.MarkNotificationClicked(ctx, id, s.now())
}

// MarkAllAsRead flags every unread notification for the user and returns the
// number updated.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	return s.notifications.MarkAllNotificationsRead(ctx, userID, s.now())
}

// GetUserNotifications prefers the indexed ordered query and falls back to an
// unordered scan sorted client-side when the index is unavailable.
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	list, err := s.notifications.ListNotificationsOrdered(ctx, userID, limit)
	if err == nil {
		return list, nil
	}
	s.log.Warn().Err(err).Str("user", userID).Msg("ordered query failed, falling back to scan")

	list, err = s.notifications.ListNotificationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *NotificationService) GetStats(ctx context.Context, userID string) (*models.NotificationStats, error) {
	list, err := s.notifications.ListNotificationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &models.NotificationStats{Total: len(list)}
	for _, n := range list {
		if !n.Read {
			stats.Unread++
		}
		if n.Clicked {
			stats.Clicked++
		}
		if n.ExpiresAt.Before(now) {
			stats.Expired++
		}
	}
	return stats, nil
}

// GetPreferences returns the stored preferences or the hard-coded defaults
// when the user has never saved any.
func (s *NotificationService) GetPreferences(ctx context.Context, userID string) (*models.NotificationPreferences, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Preferences == nil {
		return models.DefaultPreferences(), nil
	}
	return user.Preferences, nil
}

// SavePreferences overwrites the whole preferences document.
func (s *NotificationService) SavePreferences(ctx context.Context, userID string, prefs *models.NotificationPreferences) error {
	return s.users.SavePreferences(ctx, userID, prefs)
}

package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store"
)

func (s *Store) InsertNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *n
	s.notifications[n.ID] = &cp
	return nil
}

func (s *Store) GetNotification(_ context.Context, id string) (*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (s *Store) ListNotificationsOrdered(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.byUser(userID)
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *Store) ListNotificationsByUser(_ context.Context, userID string) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byUser(userID), nil
}

func (s *Store) byUser(userID string) []models.Notification {
	var list []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			list = append(list, *n)
		}
	}
	return list
}

func (s *Store) AppendSentMethod(_ context.Context, id string, method models.DeliveryMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return store.ErrNotFound
	}
	for _, m := range n.SentMethods {
		if m == method {
			return nil
		}
	}
	n.SentMethods = append(n.SentMethods, method)
	return nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return store.ErrNotFound
	}
	n.Read = true
	n.ReadAt = &at
	return nil
}

func (s *Store) MarkNotificationClicked(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return store.ErrNotFound
	}
	n.Clicked = true
	n.ClickedAt = &at
	return nil
}

func (s *Store) MarkAllNotificationsRead(_ context.Context, userID string, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			ts := at
			n.ReadAt = &ts
			updated++
		}
	}
	return updated, nil
}

func (s *Store) CountNotifications(_ context.Context, userID string, from, to time.Time) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total, unread int
	for _, n := range s.notifications {
		if n.UserID != userID || n.CreatedAt.Before(from) || n.CreatedAt.After(to) {
			continue
		}
		total++
		if !n.Read {
			unread++
		}
	}
	return total, unread, nil
}

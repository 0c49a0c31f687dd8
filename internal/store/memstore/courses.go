package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store"
)

func (s *Store) InsertCourse(_ context.Context, c *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.courses[c.ID] = &cp
	return nil
}

func (s *Store) GetCourse(_ context.Context, id string) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListCourses(_ context.Context, publishedOnly bool) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []models.Course
	for _, c := range s.courses {
		if publishedOnly && !c.Published {
			continue
		}
		list = append(list, *c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s *Store) InsertEnrollment(_ context.Context, e *models.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.enrollments {
		if existing.UserID == e.UserID && existing.CourseID == e.CourseID {
			return store.ErrDuplicate
		}
	}
	cp := *e
	s.enrollments[e.ID] = &cp
	return nil
}

func (s *Store) GetEnrollment(_ context.Context, userID, courseID string) (*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListEnrollments(_ context.Context, userID string) ([]models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []models.Enrollment
	for _, e := range s.enrollments {
		if e.UserID == userID {
			list = append(list, *e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].EnrolledAt.After(list[j].EnrolledAt) })
	return list, nil
}

func (s *Store) InsertOrder(_ context.Context, o *models.PaymentOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *Store) GetOrder(_ context.Context, id string) (*models.PaymentOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *Store) MarkOrderPaid(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = models.OrderPaid
	o.PaidAt = &at
	return nil
}

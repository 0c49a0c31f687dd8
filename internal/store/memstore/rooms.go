package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store"
)

func (s *Store) InsertRoom(_ context.Context, r *models.StudyRoom) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *r
	cp.Participants = append([]string(nil), r.Participants...)
	s.rooms[r.ID] = &cp
	return nil
}

func (s *Store) GetRoom(_ context.Context, id string) (*models.StudyRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyRoom(r), nil
}

func (s *Store) ListActiveRooms(_ context.Context) ([]models.StudyRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []models.StudyRoom
	for _, r := range s.rooms {
		if r.IsActive {
			list = append(list, *copyRoom(r))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s *Store) AddParticipant(_ context.Context, roomID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return store.ErrNotFound
	}
	r.Participants = union(r.Participants, userID)
	return nil
}

func (s *Store) RemoveParticipant(_ context.Context, roomID, userID string) (*models.StudyRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil, store.ErrNotFound
	}
	r.Participants = remove(r.Participants, userID)
	return copyRoom(r), nil
}

func (s *Store) DeactivateRoom(_ context.Context, roomID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return store.ErrNotFound
	}
	r.IsActive = false
	r.ClosedAt = &at
	return nil
}

func copyRoom(r *models.StudyRoom) *models.StudyRoom {
	cp := *r
	cp.Participants = append([]string(nil), r.Participants...)
	return &cp
}

func (s *Store) SaveWhiteboard(_ context.Context, wb *models.Whiteboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *wb
	cp.Elements = append([]models.WhiteboardElement(nil), wb.Elements...)
	s.whiteboards[wb.RoomID] = &cp
	return nil
}

func (s *Store) GetWhiteboard(_ context.Context, roomID string) (*models.Whiteboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wb, ok := s.whiteboards[roomID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *wb
	cp.Elements = append([]models.WhiteboardElement(nil), wb.Elements...)
	return &cp, nil
}

func (s *Store) InsertSharedDocument(_ context.Context, d *models.SharedDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *d
	s.sharedDocuments[d.ID] = &cp
	return nil
}

func (s *Store) GetSharedDocument(_ context.Context, id string) (*models.SharedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.sharedDocuments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *Store) ListSharedDocuments(_ context.Context, roomID string) ([]models.SharedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []models.SharedDocument
	for _, d := range s.sharedDocuments {
		if d.RoomID == roomID {
			list = append(list, *d)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (s *Store) SaveSharedDocument(_ context.Context, id string, title *string, content, userID string, at time.Time) (*models.SharedDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.sharedDocuments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if title != nil {
		d.Title = *title
	}
	d.Content = content
	d.Version++
	d.Collaborators = union(d.Collaborators, userID)
	d.LastModified = at
	d.ModifiedBy = userID

	cp := *d
	return &cp, nil
}

func (s *Store) InsertRoomMessage(_ context.Context, m *models.RoomMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roomMessages = append(s.roomMessages, *m)
	return nil
}

func (s *Store) ListRoomMessages(_ context.Context, roomID string, limit int) ([]models.RoomMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []models.RoomMessage
	for _, m := range s.roomMessages {
		if m.RoomID == roomID {
			list = append(list, m)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Timestamp.After(list[j].Timestamp) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *Store) InsertRoomActivity(_ context.Context, a *models.RoomActivity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roomActivities = append(s.roomActivities, *a)
	return nil
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store"
)

var ErrRoomFull = errors.New("room is full")

const defaultMaxParticipants = 10

// CollaborationService owns study rooms, their whiteboard, shared documents
// and the chat stream. Realtime fan-out to connected clients happens at the
// websocket layer after these calls succeed.
type CollaborationService struct {
	rooms store.RoomStore
	log   zerolog.Logger
	now   func() time.Time
}

func NewCollaborationService(rooms store.RoomStore, log zerolog.Logger) *CollaborationService {
	return &CollaborationService{
		rooms: rooms,
		log:   log.With().Str("component", "collaboration").Logger(),
		now:   time.Now,
	}
}

// CreateRoom creates the room with the host as sole participant and eagerly
// creates an empty whiteboard when the tool is enabled.
func (s *CollaborationService) CreateRoom(ctx context.Context, hostID string, req models.CreateRoomRequest) (*models.StudyRoom, error) {
	max := req.MaxParticipants
	if max <= 0 {
		max = defaultMaxParticipants
	}
	roomType := req.RoomType
	if roomType == "" {
		roomType = models.RoomStudyGroup
	}
	privacy := req.Privacy
	if privacy == "" {
		privacy = models.RoomPublic
	}

	room := &models.StudyRoom{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Topic:           req.Topic,
		HostID:          hostID,
		Participants:    []string{hostID},
		MaxParticipants: max,
		RoomType:        roomType,
		Privacy:         privacy,
		Tools:           req.Tools,
		IsActive:        true,
		CreatedAt:       s.now(),
	}
	if err := s.rooms.InsertRoom(ctx, room); err != nil {
		return nil, err
	}

	if room.Tools.Whiteboard {
		wb := &models.Whiteboard{
			RoomID:       room.ID,
			Elements:     []models.WhiteboardElement{},
			LastModified: s.now(),
			ModifiedBy:   hostID,
		}
		if err := s.rooms.SaveWhiteboard(ctx, wb); err != nil {
			s.log.Warn().Err(err).Str("room", room.ID).Msg("failed to create whiteboard")
		}
	}

	return room, nil
}

func (s *CollaborationService) GetRoom(ctx context.Context, id string) (*models.StudyRoom, error) {
	return s.rooms.GetRoom(ctx, id)
}

func (s *CollaborationService) ListActiveRooms(ctx context.Context) ([]models.StudyRoom, error) {
	return s.rooms.ListActiveRooms(ctx)
}

// JoinRoom rejects a full room, no-ops for existing participants, and
// otherwise array-unions the user in. The capacity check is check-then-act;
// two concurrent joins can overshoot by one. Kept best-effort on purpose.
func (s *CollaborationService) JoinRoom(ctx context.Context, roomID, userID string) (*models.StudyRoom, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	for _, p := range room.Participants {
		if p == userID {
			return room, nil
		}
	}
	if len(room.Participants) >= room.MaxParticipants {
		return nil, ErrRoomFull
	}

	if err := s.rooms.AddParticipant(ctx, roomID, userID); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, roomID, userID, "joined")

	room.Participants = append(room.Participants, userID)
	return room, nil
}

// LeaveRoom array-removes the user and soft-deactivates the room when the
// last participant leaves. Room documents are never deleted here.
func (s *CollaborationService) LeaveRoom(ctx context.Context, roomID, userID string) (*models.StudyRoom, error) {
	room, err := s.rooms.RemoveParticipant(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	s.recordActivity(ctx, roomID, userID, "left")

	if len(room.Participants) == 0 {
		closedAt := s.now()
		if err := s.rooms.DeactivateRoom(ctx, roomID, closedAt); err != nil {
			return nil, err
		}
		room.IsActive = false
		room.ClosedAt = &closedAt
	}
	return room, nil
}

// SaveWhiteboard persists the entire element array, replacing whatever was
// stored. Concurrent drawers race this overwrite; last writer wins.
func (s *CollaborationService) SaveWhiteboard(ctx context.Context, roomID, userID string, elements []models.WhiteboardElement) (*models.Whiteboard, error) {
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	wb := &models.Whiteboard{
		RoomID:       roomID,
		Elements:     elements,
		LastModified: s.now(),
		ModifiedBy:   userID,
	}
	if err := s.rooms.SaveWhiteboard(ctx, wb); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, roomID, userID, "whiteboard_saved")
	return wb, nil
}

func (s *CollaborationService) GetWhiteboard(ctx context.Context, roomID string) (*models.Whiteboard, error) {
	return s.rooms.GetWhiteboard(ctx, roomID)
}

func (s *CollaborationService) CreateDocument(ctx context.Context, roomID, userID, title string) (*models.SharedDocument, error) {
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	now := s.now()
	doc := &models.SharedDocument{
		ID:            uuid.NewString(),
		RoomID:        roomID,
		Title:         title,
		Version:       1,
		Collaborators: []string{userID},
		CreatedAt:     now,
		LastModified:  now,
		ModifiedBy:    userID,
	}
	if err := s.rooms.InsertSharedDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SaveDocument replaces the content wholesale (the client persists on blur,
// not per keystroke). Concurrent edits silently overwrite each other.
func (s *CollaborationService) SaveDocument(ctx context.Context, docID, userID string, req models.SaveDocumentRequest) (*models.SharedDocument, error) {
	doc, err := s.rooms.SaveSharedDocument(ctx, docID, req.Title, req.Content, userID, s.now())
	if err != nil {
		return nil, err
	}
	s.recordActivity(ctx, doc.RoomID, userID, "document_saved")
	return doc, nil
}

func (s *CollaborationService) GetDocument(ctx context.Context, docID string) (*models.SharedDocument, error) {
	return s.rooms.GetSharedDocument(ctx, docID)
}

func (s *CollaborationService) ListDocuments(ctx context.Context, roomID string) ([]models.SharedDocument, error) {
	return s.rooms.ListSharedDocuments(ctx, roomID)
}

// PostMessage appends to the room's chat stream.
func (s *CollaborationService) PostMessage(ctx context.Context, roomID, userID, message, msgType string) (*models.RoomMessage, error) {
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	if msgType == "" {
		msgType = "text"
	}

	m := &models.RoomMessage{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		UserID:    userID,
		Message:   message,
		Type:      msgType,
		Timestamp: s.now(),
	}
	if err := s.rooms.InsertRoomMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CollaborationService) ListMessages(ctx context.Context, roomID string, limit int) ([]models.RoomMessage, error) {
	return s.rooms.ListRoomMessages(ctx, roomID, limit)
}

func (s *CollaborationService) recordActivity(ctx context.Context, roomID, userID, action string) {
	a := &models.RoomActivity{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		UserID:    userID,
		Action:    action,
		Timestamp: s.now(),
	}
	if err := s.rooms.InsertRoomActivity(ctx, a); err != nil {
		s.log.Warn().Err(err).Str("room", roomID).Str("action", action).Msg("failed to record room activity")
	}
}

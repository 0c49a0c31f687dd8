package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store"
)

func (s *Store) InsertRoom(ctx context.Context, r *models.StudyRoom) error {
	_, err := s.collection(colStudyRooms).InsertOne(ctx, r)
	if err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	return nil
}

func (s *Store) GetRoom(ctx context.Context, id string) (*models.StudyRoom, error) {
	var r models.StudyRoom
	err := s.collection(colStudyRooms).FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	return &r, nil
}

func (s *Store) ListActiveRooms(ctx context.Context) ([]models.StudyRoom, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection(colStudyRooms).Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("list active rooms: %w", err)
	}
	var list []models.StudyRoom
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode rooms: %w", err)
	}
	return list, nil
}

func (s *Store) AddParticipant(ctx context.Context, roomID, userID string) error {
	res, err := s.collection(colStudyRooms).UpdateByID(ctx, roomID, bson.M{
		"$addToSet": bson.M{"participants": userID},
	})
	if err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) RemoveParticipant(ctx context.Context, roomID, userID string) (*models.StudyRoom, error) {
	update := bson.M{"$pull": bson.M{"participants": userID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var r models.StudyRoom
	err := s.collection(colStudyRooms).FindOneAndUpdate(ctx, bson.M{"_id": roomID}, update, opts).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("remove participant: %w", err)
	}
	return &r, nil
}

func (s *Store) DeactivateRoom(ctx context.Context, roomID string, at time.Time) error {
	res, err := s.collection(colStudyRooms).UpdateByID(ctx, roomID, bson.M{
		"$set": bson.M{"isActive": false, "closedAt": at},
	})
	if err != nil {
		return fmt.Errorf("deactivate room: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SaveWhiteboard replaces the whole board document. Last writer wins.
func (s *Store) SaveWhiteboard(ctx context.Context, wb *models.Whiteboard) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection(colWhiteboards).ReplaceOne(ctx, bson.M{"_id": wb.RoomID}, wb, opts)
	if err != nil {
		return fmt.Errorf("save whiteboard: %w", err)
	}
	return nil
}

func (s *Store) GetWhiteboard(ctx context.Context, roomID string) (*models.Whiteboard, error) {
	var wb models.Whiteboard
	err := s.collection(colWhiteboards).FindOne(ctx, bson.M{"_id": roomID}).Decode(&wb)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get whiteboard: %w", err)
	}
	return &wb, nil
}

func (s *Store) InsertSharedDocument(ctx context.Context, d *models.SharedDocument) error {
	_, err := s.collection(colSharedDocuments).InsertOne(ctx, d)
	if err != nil {
		return fmt.Errorf("insert shared document: %w", err)
	}
	return nil
}

func (s *Store) GetSharedDocument(ctx context.Context, id string) (*models.SharedDocument, error) {
	var d models.SharedDocument
	err := s.collection(colSharedDocuments).FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get shared document: %w", err)
	}
	return &d, nil
}

func (s *Store) ListSharedDocuments(ctx context.Context, roomID string) ([]models.SharedDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.collection(colSharedDocuments).Find(ctx, bson.M{"roomId": roomID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list shared documents: %w", err)
	}
	var list []models.SharedDocument
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode shared documents: %w", err)
	}
	return list, nil
}

// SaveSharedDocument replaces content wholesale, bumps version and unions the
// editor into collaborators. No conflict detection.
func (s *Store) SaveSharedDocument(ctx context.Context, id string, title *string, content, userID string, at time.Time) (*models.SharedDocument, error) {
	set := bson.M{"content": content, "lastModified": at, "modifiedBy": userID}
	if title != nil {
		set["title"] = *title
	}
	update := bson.M{
		"$set":      set,
		"$inc":      bson.M{"version": 1},
		"$addToSet": bson.M{"collaborators": userID},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d models.SharedDocument
	err := s.collection(colSharedDocuments).FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("save shared document: %w", err)
	}
	return &d, nil
}

func (s *Store) InsertRoomMessage(ctx context.Context, m *models.RoomMessage) error {
	_, err := s.collection(colRoomMessages).InsertOne(ctx, m)
	if err != nil {
		return fmt.Errorf("insert room message: %w", err)
	}
	return nil
}

func (s *Store) ListRoomMessages(ctx context.Context, roomID string, limit int) ([]models.RoomMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.collection(colRoomMessages).Find(ctx, bson.M{"roomId": roomID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list room messages: %w", err)
	}
	var list []models.RoomMessage
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode room messages: %w", err)
	}
	return list, nil
}

func (s *Store) InsertRoomActivity(ctx context.Context, a *models.RoomActivity) error {
	_, err := s.collection(colRoomActivities).InsertOne(ctx, a)
	if err != nil {
		return fmt.Errorf("insert room activity: %w", err)
	}
	return nil
}

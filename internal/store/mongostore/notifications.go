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

func (s *Store) InsertNotification(ctx context.Context, n *models.Notification) error {
	_, err := s.collection(colNotifications).InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *Store) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	err := s.collection(colNotifications).FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &n, nil
}

// ListNotificationsOrdered is the indexed userId+createdAt query. It surfaces
// server errors (missing index included) so the caller can fall back to the
// unordered scan.
func (s *Store) ListNotificationsOrdered(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.collection(colNotifications).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	var list []models.Notification
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return list, nil
}

func (s *Store) ListNotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	cursor, err := s.collection(colNotifications).Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("scan notifications: %w", err)
	}
	var list []models.Notification
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return list, nil
}

func (s *Store) AppendSentMethod(ctx context.Context, id string, method models.DeliveryMethod) error {
	res, err := s.collection(colNotifications).UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"sentMethods": method},
	})
	if err != nil {
		return fmt.Errorf("append sent method: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string, at time.Time) error {
	res, err := s.collection(colNotifications).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"read": true, "readAt": at},
	})
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) MarkNotificationClicked(ctx context.Context, id string, at time.Time) error {
	res, err := s.collection(colNotifications).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"clicked": true, "clickedAt": at},
	})
	if err != nil {
		return fmt.Errorf("mark clicked: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string, at time.Time) (int, error) {
	res, err := s.collection(colNotifications).UpdateMany(ctx,
		bson.M{"userId": userID, "read": false},
		bson.M{"$set": bson.M{"read": true, "readAt": at}},
	)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return int(res.ModifiedCount), nil
}

func (s *Store) CountNotifications(ctx context.Context, userID string, from, to time.Time) (int, int, error) {
	col := s.collection(colNotifications)
	window := bson.M{"userId": userID, "createdAt": bson.M{"$gte": from, "$lte": to}}

	total, err := col.CountDocuments(ctx, window)
	if err != nil {
		return 0, 0, fmt.Errorf("count notifications: %w", err)
	}

	unreadFilter := bson.M{"userId": userID, "createdAt": bson.M{"$gte": from, "$lte": to}, "read": false}
	unread, err := col.CountDocuments(ctx, unreadFilter)
	if err != nil {
		return 0, 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return int(total), int(unread), nil
}

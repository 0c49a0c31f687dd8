package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.collection(colUsers).InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.collection(colUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.collection(colUsers).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id string, req models.UpdateProfileRequest) error {
	set := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.AvatarURL != nil {
		set["avatarUrl"] = *req.AvatarURL
	}
	if req.Bio != nil {
		set["bio"] = *req.Bio
	}

	res, err := s.collection(colUsers).UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SetFCMToken(ctx context.Context, id, token string) error {
	res, err := s.collection(colUsers).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"fcmToken": token, "updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("set fcm token: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SavePreferences overwrites the embedded preferences document wholesale.
func (s *Store) SavePreferences(ctx context.Context, id string, prefs *models.NotificationPreferences) error {
	res, err := s.collection(colUsers).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"preferences": prefs, "updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListUsersByDigestFrequency(ctx context.Context, freq models.DigestFrequency) ([]models.User, error) {
	cursor, err := s.collection(colUsers).Find(ctx, bson.M{"preferences.digestFrequency": freq})
	if err != nil {
		return nil, fmt.Errorf("list users by digest frequency: %w", err)
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

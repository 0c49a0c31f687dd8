package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) countInWindow(ctx context.Context, col, timeField, userID string, from, to time.Time) (int, error) {
	filter := bson.M{
		"userId":  userID,
		timeField: bson.M{"$gte": from, "$lte": to},
	}
	n, err := s.collection(col).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", col, err)
	}
	return int(n), nil
}

func (s *Store) CountLessonsCompleted(ctx context.Context, userID string, from, to time.Time) (int, error) {
	return s.countInWindow(ctx, colLessonProgress, "completedAt", userID, from, to)
}

func (s *Store) CountVideosWatched(ctx context.Context, userID string, from, to time.Time) (int, error) {
	return s.countInWindow(ctx, colVideoProgress, "updatedAt", userID, from, to)
}

func (s *Store) ListQuizScores(ctx context.Context, userID string, from, to time.Time) ([]float64, error) {
	filter := bson.M{
		"userId":    userID,
		"createdAt": bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection(colQuizAttempts).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list quiz scores: %w", err)
	}

	var attempts []struct {
		Score float64 `bson:"score"`
	}
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, fmt.Errorf("decode quiz scores: %w", err)
	}

	scores := make([]float64, len(attempts))
	for i, a := range attempts {
		scores[i] = a.Score
	}
	return scores, nil
}

func (s *Store) CountForumPosts(ctx context.Context, userID string, from, to time.Time) (int, error) {
	return s.countInWindow(ctx, colForumPosts, "createdAt", userID, from, to)
}

func (s *Store) CountForumReplies(ctx context.Context, userID string, from, to time.Time) (int, error) {
	return s.countInWindow(ctx, colForumReplies, "createdAt", userID, from, to)
}

func (s *Store) CountAchievements(ctx context.Context, userID string, from, to time.Time) (int, error) {
	return s.countInWindow(ctx, colUserAchievements, "earnedAt", userID, from, to)
}

func (s *Store) CountStudyGroupJoins(ctx context.Context, userID string, from, to time.Time) (int, error) {
	return s.countInWindow(ctx, colStudyGroupParticipation, "joinedAt", userID, from, to)
}

func (s *Store) CountMentoringSessions(ctx context.Context, userID string, from, to time.Time) (int, error) {
	return s.countInWindow(ctx, colMentorships, "sessionAt", userID, from, to)
}

func (s *Store) CountCollaborationSessions(ctx context.Context, userID string, from, to time.Time) (int, error) {
	return s.countInWindow(ctx, colCollaborationSessions, "joinedAt", userID, from, to)
}

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

func (s *Store) InsertArticle(ctx context.Context, a *models.WikiArticle) error {
	_, err := s.collection(colWikiArticles).InsertOne(ctx, a)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

func (s *Store) GetArticle(ctx context.Context, id string) (*models.WikiArticle, error) {
	var a models.WikiArticle
	err := s.collection(colWikiArticles).FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	return &a, nil
}

func (s *Store) ListArticles(ctx context.Context, f models.ArticleSearchFilters) ([]models.WikiArticle, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["categories"] = f.Category
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := s.collection(colWikiArticles).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	var list []models.WikiArticle
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}
	return list, nil
}

// ApplyArticleUpdate sets the changed fields, bumps version and unions the
// editor into contributors in one document update, returning the new state.
func (s *Store) ApplyArticleUpdate(ctx context.Context, id string, upd store.ArticleUpdate) (*models.WikiArticle, error) {
	set := bson.M{"updatedAt": upd.UpdatedAt}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.Categories != nil {
		set["categories"] = upd.Categories
	}
	if upd.Tags != nil {
		set["tags"] = upd.Tags
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}

	update := bson.M{
		"$set":      set,
		"$inc":      bson.M{"version": 1},
		"$addToSet": bson.M{"contributors": upd.Editor},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var a models.WikiArticle
	err := s.collection(colWikiArticles).FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	return &a, nil
}

func (s *Store) IncrementArticleViews(ctx context.Context, id string) error {
	_, err := s.collection(colWikiArticles).UpdateByID(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

func (s *Store) AdjustArticleLikes(ctx context.Context, id string, delta int) error {
	res, err := s.collection(colWikiArticles).UpdateByID(ctx, id, bson.M{"$inc": bson.M{"likes": delta}})
	if err != nil {
		return fmt.Errorf("adjust likes: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SetArticleReviewState(ctx context.Context, id string, state models.PeerReviewState) error {
	res, err := s.collection(colWikiArticles).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"peerReview": state, "updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("set review state: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) InsertRevision(ctx context.Context, r *models.WikiRevision) error {
	_, err := s.collection(colWikiRevisions).InsertOne(ctx, r)
	if err != nil {
		return fmt.Errorf("insert revision: %w", err)
	}
	return nil
}

func (s *Store) ListRevisions(ctx context.Context, articleID string) ([]models.WikiRevision, error) {
	opts := options.Find().SetSort(bson.D{{Key: "version", Value: 1}})
	cursor, err := s.collection(colWikiRevisions).Find(ctx, bson.M{"articleId": articleID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	var list []models.WikiRevision
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode revisions: %w", err)
	}
	return list, nil
}

func (s *Store) GetLike(ctx context.Context, id string) (*models.WikiLike, error) {
	var l models.WikiLike
	err := s.collection(colWikiLikes).FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get like: %w", err)
	}
	return &l, nil
}

func (s *Store) InsertLike(ctx context.Context, l *models.WikiLike) error {
	_, err := s.collection(colWikiLikes).InsertOne(ctx, l)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

func (s *Store) DeleteLike(ctx context.Context, id string) error {
	res, err := s.collection(colWikiLikes).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) InsertPeerReview(ctx context.Context, r *models.PeerReview) error {
	_, err := s.collection(colPeerReviews).InsertOne(ctx, r)
	if err != nil {
		return fmt.Errorf("insert peer review: %w", err)
	}
	return nil
}

func (s *Store) GetPeerReviewFor(ctx context.Context, articleID, reviewerID string) (*models.PeerReview, error) {
	var r models.PeerReview
	filter := bson.M{"articleId": articleID, "reviewerId": reviewerID}
	err := s.collection(colPeerReviews).FindOne(ctx, filter).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get peer review: %w", err)
	}
	return &r, nil
}

func (s *Store) CompletePeerReview(ctx context.Context, id string, decision models.PeerReviewDecision, comments string, at time.Time) error {
	res, err := s.collection(colPeerReviews).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"status":      "completed",
			"decision":    decision,
			"comments":    comments,
			"completedAt": at,
		},
	})
	if err != nil {
		return fmt.Errorf("complete peer review: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListPeerReviews(ctx context.Context, articleID string) ([]models.PeerReview, error) {
	cursor, err := s.collection(colPeerReviews).Find(ctx, bson.M{"articleId": articleID})
	if err != nil {
		return nil, fmt.Errorf("list peer reviews: %w", err)
	}
	var list []models.PeerReview
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode peer reviews: %w", err)
	}
	return list, nil
}

package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store"
)

func (s *Store) InsertArticle(_ context.Context, a *models.WikiArticle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *a
	s.articles[a.ID] = &cp
	return nil
}

func (s *Store) GetArticle(_ context.Context, id string) (*models.WikiArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) ListArticles(_ context.Context, f models.ArticleSearchFilters) ([]models.WikiArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []models.WikiArticle
	for _, a := range s.articles {
		if f.Category != "" && !contains(a.Categories, f.Category) {
			continue
		}
		if f.Tag != "" && !contains(a.Tags, f.Tag) {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		list = append(list, *a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
	return list, nil
}

func (s *Store) ApplyArticleUpdate(_ context.Context, id string, upd store.ArticleUpdate) (*models.WikiArticle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if upd.Title != nil {
		a.Title = *upd.Title
	}
	if upd.Content != nil {
		a.Content = *upd.Content
	}
	if upd.Categories != nil {
		a.Categories = upd.Categories
	}
	if upd.Tags != nil {
		a.Tags = upd.Tags
	}
	if upd.Status != nil {
		a.Status = *upd.Status
	}
	a.Version++
	a.Contributors = union(a.Contributors, upd.Editor)
	a.UpdatedAt = upd.UpdatedAt

	cp := *a
	return &cp, nil
}

func (s *Store) IncrementArticleViews(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.articles[id]; ok {
		a.Views++
	}
	return nil
}

func (s *Store) AdjustArticleLikes(_ context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return store.ErrNotFound
	}
	a.Likes += delta
	return nil
}

func (s *Store) SetArticleReviewState(_ context.Context, id string, state models.PeerReviewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return store.ErrNotFound
	}
	a.PeerReview = state
	a.UpdatedAt = time.Now()
	return nil
}

func (s *Store) InsertRevision(_ context.Context, r *models.WikiRevision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revisions = append(s.revisions, *r)
	return nil
}

func (s *Store) ListRevisions(_ context.Context, articleID string) ([]models.WikiRevision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []models.WikiRevision
	for _, r := range s.revisions {
		if r.ArticleID == articleID {
			list = append(list, r)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Version < list[j].Version })
	return list, nil
}

func (s *Store) GetLike(_ context.Context, id string) (*models.WikiLike, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.likes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *Store) InsertLike(_ context.Context, l *models.WikiLike) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.likes[l.ID]; ok {
		return store.ErrDuplicate
	}
	cp := *l
	s.likes[l.ID] = &cp
	return nil
}

func (s *Store) DeleteLike(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.likes[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.likes, id)
	return nil
}

func (s *Store) InsertPeerReview(_ context.Context, r *models.PeerReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *r
	s.peerReviews[r.ID] = &cp
	return nil
}

func (s *Store) GetPeerReviewFor(_ context.Context, articleID, reviewerID string) (*models.PeerReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.peerReviews {
		if r.ArticleID == articleID && r.ReviewerID == reviewerID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CompletePeerReview(_ context.Context, id string, decision models.PeerReviewDecision, comments string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.peerReviews[id]
	if !ok {
		return store.ErrNotFound
	}
	r.Status = "completed"
	r.Decision = &decision
	r.Comments = comments
	r.CompletedAt = &at
	return nil
}

func (s *Store) ListPeerReviews(_ context.Context, articleID string) ([]models.PeerReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []models.PeerReview
	for _, r := range s.peerReviews {
		if r.ArticleID == articleID {
			list = append(list, *r)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

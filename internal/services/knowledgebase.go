package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store"
)

var ErrReviewNotAssigned = errors.New("no pending review assigned to this reviewer")

// KnowledgeBaseService owns wiki articles, their append-only revision log,
// likes, AI-assisted search/recommendations and the peer-review workflow.
type KnowledgeBaseService struct {
	wiki     store.WikiStore
	gen      TextGenerator
	notifier *NotificationService
	log      zerolog.Logger
	now      func() time.Time
}

func NewKnowledgeBaseService(wiki store.WikiStore, gen TextGenerator, notifier *NotificationService, log zerolog.Logger) *KnowledgeBaseService {
	return &KnowledgeBaseService{
		wiki:     wiki,
		gen:      gen,
		notifier: notifier,
		log:      log.With().Str("component", "knowledgebase").Logger(),
		now:      time.Now,
	}
}

func (s *KnowledgeBaseService) CreateArticle(ctx context.Context, authorID string, req models.CreateArticleRequest) (*models.WikiArticle, error) {
	now := s.now()
	a := &models.WikiArticle{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Content:      req.Content,
		AuthorID:     authorID,
		Contributors: []string{authorID},
		Categories:   req.Categories,
		Tags:         req.Tags,
		Status:       models.ArticleDraft,
		Version:      1,
		PeerReview:   models.PeerReviewState{Status: models.ReviewNotRequested},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.wiki.InsertArticle(ctx, a); err != nil {
		return nil, err
	}

	if err := s.appendRevision(ctx, a, authorID, "Initial version"); err != nil {
		s.log.Warn().Err(err).Str("article", a.ID).Msg("failed to record initial revision")
	}
	return a, nil
}

// UpdateArticle bumps the version, unions the editor into contributors and
// appends an immutable revision row capturing the new state.
func (s *KnowledgeBaseService) UpdateArticle(ctx context.Context, id, editorID string, req models.UpdateArticleRequest) (*models.WikiArticle, error) {
	upd := store.ArticleUpdate{
		Title:      req.Title,
		Content:    req.Content,
		Categories: req.Categories,
		Tags:       req.Tags,
		Editor:     editorID,
		UpdatedAt:  s.now(),
	}
	if req.Status != nil {
		status := models.ArticleStatus(*req.Status)
		upd.Status = &status
	}

	a, err := s.wiki.ApplyArticleUpdate(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	summary := req.Summary
	if summary == "" {
		summary = "Updated article"
	}
	if err := s.appendRevision(ctx, a, editorID, summary); err != nil {
		s.log.Warn().Err(err).Str("article", a.ID).Msg("failed to record revision")
	}
	return a, nil
}

func (s *KnowledgeBaseService) appendRevision(ctx context.Context, a *models.WikiArticle, editorID, summary string) error {
	return s.wiki.InsertRevision(ctx, &models.WikiRevision{
		ID:        uuid.NewString(),
		ArticleID: a.ID,
		Version:   a.Version,
		Title:     a.Title,
		Content:   a.Content,
		Summary:   summary,
		EditorID:  editorID,
		CreatedAt: s.now(),
	})
}

// ViewArticle bumps the view counter and returns the article.
func (s *KnowledgeBaseService) ViewArticle(ctx context.Context, id string) (*models.WikiArticle, error) {
	if err := s.wiki.IncrementArticleViews(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("article", id).Msg("view count increment failed")
	}
	return s.wiki.GetArticle(ctx, id)
}

func (s *KnowledgeBaseService) ListArticles(ctx context.Context, f models.ArticleSearchFilters) ([]models.WikiArticle, error) {
	return s.wiki.ListArticles(ctx, f)
}

func (s *KnowledgeBaseService) ListRevisions(ctx context.Context, articleID string) ([]models.WikiRevision, error) {
	return s.wiki.ListRevisions(ctx, articleID)
}

// ToggleLike flips the per-user like join record and adjusts the article's
// counter by one. The two writes are separate documents, not a transaction; a
// concurrent double-click can skew the counter.
func (s *KnowledgeBaseService) ToggleLike(ctx context.Context, articleID, userID string) (bool, error) {
	likeID := articleID + "_" + userID

	_, err := s.wiki.GetLike(ctx, likeID)
	switch {
	case err == nil:
		if err := s.wiki.DeleteLike(ctx, likeID); err != nil {
			return false, err
		}
		if err := s.wiki.AdjustArticleLikes(ctx, articleID, -1); err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, store.ErrNotFound):
		like := &models.WikiLike{
			ID:        likeID,
			ArticleID: articleID,
			UserID:    userID,
			CreatedAt: s.now(),
		}
		if err := s.wiki.InsertLike(ctx, like); err != nil {
			return false, err
		}
		if err := s.wiki.AdjustArticleLikes(ctx, articleID, 1); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// Search returns the filtered list as-is for an empty query. Otherwise it
// asks the text model to rank the candidates and falls back to a
// case-insensitive substring match in original order on any failure.
func (s *KnowledgeBaseService) Search(ctx context.Context, query string, f models.ArticleSearchFilters) ([]models.WikiArticle, error) {
	list, err := s.wiki.ListArticles(ctx, f)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return list, nil
	}

	ranked, err := s.rankByModel(ctx, query, list)
	if err != nil {
		s.log.Warn().Err(err).Str("query", query).Msg("model ranking failed, using substring match")
		return substringMatch(list, query), nil
	}
	return ranked, nil
}

// rankByModel sends article metadata with a ranking prompt and maps the
// one-ID-per-line response back to articles, dropping unknown IDs.
func (s *KnowledgeBaseService) rankByModel(ctx context.Context, query string, list []models.WikiArticle) ([]models.WikiArticle, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Rank the following knowledge base articles by relevance to the query %q.\n", query)
	b.WriteString("Respond with one article ID per line, most relevant first. Output nothing else.\n\n")
	for _, a := range list {
		preview := a.Content
		if len(preview) > 300 {
			preview = preview[:300]
		}
		fmt.Fprintf(&b, "ID: %s\nTitle: %s\nTags: %s\nCategories: %s\nPreview: %s\n\n",
			a.ID, a.Title, strings.Join(a.Tags, ", "), strings.Join(a.Categories, ", "), preview)
	}

	text, err := s.gen.Generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.WikiArticle, len(list))
	for _, a := range list {
		byID[a.ID] = a
	}

	var ranked []models.WikiArticle
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		id := strings.TrimSpace(line)
		if id == "" || seen[id] {
			continue
		}
		if a, ok := byID[id]; ok {
			ranked = append(ranked, a)
			seen[id] = true
		}
	}
	return ranked, nil
}

func substringMatch(list []models.WikiArticle, query string) []models.WikiArticle {
	q := strings.ToLower(query)
	var out []models.WikiArticle
	for _, a := range list {
		if strings.Contains(strings.ToLower(a.Title), q) ||
			strings.Contains(strings.ToLower(a.Content), q) ||
			tagsContain(a.Tags, q) {
			out = append(out, a)
		}
	}
	return out
}

func tagsContain(tags []string, q string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// Recommendations suggests articles for a user, excluding the one currently
// open. Model-ranked when possible, popularity-sorted otherwise.
func (s *KnowledgeBaseService) Recommendations(ctx context.Context, userID, currentArticleID string, limit int) ([]models.WikiArticle, error) {
	list, err := s.wiki.ListArticles(ctx, models.ArticleSearchFilters{Status: models.ArticlePublished})
	if err != nil {
		return nil, err
	}

	candidates := list[:0]
	for _, a := range list {
		if a.ID != currentArticleID {
			candidates = append(candidates, a)
		}
	}
	if limit <= 0 {
		limit = 5
	}

	ranked, err := s.rankByModel(ctx, "articles this user should read next", candidates)
	if err != nil {
		s.log.Warn().Err(err).Str("user", userID).Msg("model recommendation failed, using popularity")
		ranked = append([]models.WikiArticle(nil), candidates...)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Views+ranked[i].Likes > ranked[j].Views+ranked[j].Likes
		})
	}

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// SubmitForPeerReview flags the article in-review and fans out one pending
// review document per reviewer.
func (s *KnowledgeBaseService) SubmitForPeerReview(ctx context.Context, articleID, requesterID string, reviewers []string) error {
	state := models.PeerReviewState{
		Required:  true,
		Reviewers: reviewers,
		Status:    models.ReviewInProgress,
	}
	if err := s.wiki.SetArticleReviewState(ctx, articleID, state); err != nil {
		return err
	}

	for _, reviewerID := range reviewers {
		pr := &models.PeerReview{
			ID:         uuid.NewString(),
			ArticleID:  articleID,
			ReviewerID: reviewerID,
			Status:     "pending",
			CreatedAt:  s.now(),
		}
		if err := s.wiki.InsertPeerReview(ctx, pr); err != nil {
			return fmt.Errorf("assign reviewer %s: %w", reviewerID, err)
		}

		if s.notifier != nil {
			_, err := s.notifier.Send(ctx, models.SendNotificationRequest{
				UserID:   reviewerID,
				Type:     models.TypeWikiReview,
				Title:    "Peer review requested",
				Body:     "An article is waiting for your review.",
				Data:     map[string]string{"articleId": articleID, "requestedBy": requesterID},
				Priority: models.PriorityNormal,
			})
			if err != nil {
				s.log.Warn().Err(err).Str("reviewer", reviewerID).Msg("review notification failed")
			}
		}
	}
	return nil
}

// SubmitPeerReview completes the reviewer's own review document. The parent
// article's peerReview.status is intentionally left untouched even when all
// reviews are in; see CompleteArticleReview.
func (s *KnowledgeBaseService) SubmitPeerReview(ctx context.Context, articleID, reviewerID string, req models.SubmitReviewRequest) error {
	pr, err := s.wiki.GetPeerReviewFor(ctx, articleID, reviewerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrReviewNotAssigned
		}
		return err
	}
	if pr.Status == "completed" {
		return ErrReviewNotAssigned
	}
	return s.wiki.CompletePeerReview(ctx, pr.ID, req.Decision, req.Comments, s.now())
}

func (s *KnowledgeBaseService) ListPeerReviews(ctx context.Context, articleID string) ([]models.PeerReview, error) {
	return s.wiki.ListPeerReviews(ctx, articleID)
}

// CompleteArticleReview is the explicit final transition of the article's
// review state. Nothing calls it automatically when the last reviewer
// submits; that remains a product decision.
func (s *KnowledgeBaseService) CompleteArticleReview(ctx context.Context, articleID string, approved bool) error {
	a, err := s.wiki.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}
	state := a.PeerReview
	if approved {
		state.Status = models.ReviewApproved
	} else {
		state.Status = models.ReviewRejected
	}
	return s.wiki.SetArticleReviewState(ctx, articleID, state)
}

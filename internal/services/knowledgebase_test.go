package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store/memstore"
)

func newWikiFixture(t *testing.T, gen TextGenerator) (*KnowledgeBaseService, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	notifier := NewNotificationService(st, st, &fakePush{}, &fakeEmail{}, testLogger())
	svc := NewKnowledgeBaseService(st, gen, notifier, testLogger())
	return svc, st
}

func strPtr(s string) *string { return &s }

func TestUpdateArticleVersionsAndRevisions(t *testing.T) {
	svc, _ := newWikiFixture(t, failingGen())
	ctx := context.Background()

	a, err := svc.CreateArticle(ctx, "author", models.CreateArticleRequest{
		Title:   "Goroutine leaks",
		Content: "v1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, a.Version)
	assert.Equal(t, []string{"author"}, a.Contributors)

	a, err = svc.UpdateArticle(ctx, a.ID, "editor1", models.UpdateArticleRequest{
		Content: strPtr("v2"),
		Summary: "Fixed example",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, a.Version)

	a, err = svc.UpdateArticle(ctx, a.ID, "author", models.UpdateArticleRequest{
		Content: strPtr("v3"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, a.Version)
	assert.Equal(t, []string{"author", "editor1"}, a.Contributors)

	revs, err := svc.ListRevisions(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, revs, 3)
	assert.Equal(t, "Initial version", revs[0].Summary)
	assert.Equal(t, "Fixed example", revs[1].Summary)
	assert.Equal(t, "Updated article", revs[2].Summary)
	assert.Equal(t, "v3", revs[2].Content)
	for i, rev := range revs {
		assert.Equal(t, i+1, rev.Version)
	}
}

func TestViewArticleIncrementsViews(t *testing.T) {
	svc, _ := newWikiFixture(t, failingGen())
	ctx := context.Background()

	a, err := svc.CreateArticle(ctx, "author", models.CreateArticleRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		a, err = svc.ViewArticle(ctx, a.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, a.Views)
}

func TestToggleLikeRoundTrip(t *testing.T) {
	svc, st := newWikiFixture(t, failingGen())
	ctx := context.Background()

	a, err := svc.CreateArticle(ctx, "author", models.CreateArticleRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	liked, err := svc.ToggleLike(ctx, a.ID, "u1")
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := st.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)

	liked, err = svc.ToggleLike(ctx, a.ID, "u1")
	require.NoError(t, err)
	assert.False(t, liked)

	got, err = st.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Likes)
}

func seedArticle(t *testing.T, st *memstore.Store, a models.WikiArticle) {
	t.Helper()
	if a.Status == "" {
		a.Status = models.ArticlePublished
	}
	require.NoError(t, st.InsertArticle(context.Background(), &a))
}

func TestSearchEmptyQueryReturnsFiltered(t *testing.T) {
	svc, st := newWikiFixture(t, failingGen())
	seedArticle(t, st, models.WikiArticle{ID: "a1", Title: "One", Tags: []string{"go"}})
	seedArticle(t, st, models.WikiArticle{ID: "a2", Title: "Two", Tags: []string{"sql"}})

	list, err := svc.Search(context.Background(), "  ", models.ArticleSearchFilters{Tag: "go"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ID)
}

func TestSearchModelRanking(t *testing.T) {
	gen := &fakeGen{text: "a3\nghost\na1\na3\n"}
	svc, st := newWikiFixture(t, gen)
	seedArticle(t, st, models.WikiArticle{ID: "a1", Title: "Indexes", Content: "btree"})
	seedArticle(t, st, models.WikiArticle{ID: "a2", Title: "Joins", Content: "hash join"})
	seedArticle(t, st, models.WikiArticle{ID: "a3", Title: "Query planning", Content: "cost model"})

	list, err := svc.Search(context.Background(), "how does the planner work", models.ArticleSearchFilters{})
	require.NoError(t, err)

	// Unknown and duplicate IDs from the model are dropped.
	require.Len(t, list, 2)
	assert.Equal(t, "a3", list[0].ID)
	assert.Equal(t, "a1", list[1].ID)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "one article ID per line")
}

func TestSearchFallsBackToSubstringMatch(t *testing.T) {
	svc, st := newWikiFixture(t, failingGen())
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, st, models.WikiArticle{ID: "a1", Title: "Preventing XSS", Content: "escape output", UpdatedAt: base.Add(3 * time.Hour)})
	seedArticle(t, st, models.WikiArticle{ID: "a2", Title: "CSRF tokens", Content: "unrelated", UpdatedAt: base.Add(2 * time.Hour)})
	seedArticle(t, st, models.WikiArticle{ID: "a3", Title: "Sanitizers", Content: "strips xss payloads", UpdatedAt: base.Add(1 * time.Hour)})
	seedArticle(t, st, models.WikiArticle{ID: "a4", Title: "Tagged", Tags: []string{"XSS"}, UpdatedAt: base})

	list, err := svc.Search(context.Background(), "xss", models.ArticleSearchFilters{})
	require.NoError(t, err)

	var ids []string
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	// Case-insensitive across title, content and tags, listing order preserved.
	assert.Equal(t, []string{"a1", "a3", "a4"}, ids)
}

func TestRecommendationsPopularityFallback(t *testing.T) {
	svc, st := newWikiFixture(t, failingGen())
	seedArticle(t, st, models.WikiArticle{ID: "current", Views: 999})
	seedArticle(t, st, models.WikiArticle{ID: "a1", Views: 10, Likes: 1})
	seedArticle(t, st, models.WikiArticle{ID: "a2", Views: 50, Likes: 5})
	seedArticle(t, st, models.WikiArticle{ID: "a3", Views: 20, Likes: 0})
	seedArticle(t, st, models.WikiArticle{ID: "draft", Status: models.ArticleDraft, Views: 1000})

	list, err := svc.Recommendations(context.Background(), "u1", "current", 2)
	require.NoError(t, err)

	require.Len(t, list, 2)
	assert.Equal(t, "a2", list[0].ID)
	assert.Equal(t, "a3", list[1].ID)
}

func TestPeerReviewWorkflow(t *testing.T) {
	svc, st := newWikiFixture(t, failingGen())
	ctx := context.Background()

	seedUser(t, st, models.User{ID: "rev1", Email: "rev1@example.com"})
	seedUser(t, st, models.User{ID: "rev2", Email: "rev2@example.com"})

	a, err := svc.CreateArticle(ctx, "author", models.CreateArticleRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, svc.SubmitForPeerReview(ctx, a.ID, "author", []string{"rev1", "rev2"}))

	got, err := st.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewInProgress, got.PeerReview.Status)
	assert.Equal(t, []string{"rev1", "rev2"}, got.PeerReview.Reviewers)

	reviews, err := svc.ListPeerReviews(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	for _, r := range reviews {
		assert.Equal(t, "pending", r.Status)
	}

	// Each reviewer was notified.
	for _, reviewer := range []string{"rev1", "rev2"} {
		list, err := st.ListNotificationsByUser(ctx, reviewer)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, models.TypeWikiReview, list[0].Type)
		assert.Equal(t, a.ID, list[0].Data["articleId"])
	}

	// Only an assigned reviewer can submit, and only once.
	err = svc.SubmitPeerReview(ctx, a.ID, "stranger", models.SubmitReviewRequest{Decision: models.DecisionApprove})
	assert.ErrorIs(t, err, ErrReviewNotAssigned)

	require.NoError(t, svc.SubmitPeerReview(ctx, a.ID, "rev1", models.SubmitReviewRequest{
		Decision: models.DecisionApprove,
		Comments: "looks good",
	}))
	err = svc.SubmitPeerReview(ctx, a.ID, "rev1", models.SubmitReviewRequest{Decision: models.DecisionReject})
	assert.ErrorIs(t, err, ErrReviewNotAssigned)

	require.NoError(t, svc.SubmitPeerReview(ctx, a.ID, "rev2", models.SubmitReviewRequest{Decision: models.DecisionApprove}))

	// All reviews are in; the article state does not advance on its own.
	got, err = st.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewInProgress, got.PeerReview.Status)

	require.NoError(t, svc.CompleteArticleReview(ctx, a.ID, true))
	got, err = st.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, got.PeerReview.Status)
}

func TestRankPromptTruncatesPreviews(t *testing.T) {
	gen := &fakeGen{text: "a1"}
	svc, st := newWikiFixture(t, gen)
	seedArticle(t, st, models.WikiArticle{ID: "a1", Title: "Long", Content: strings.Repeat("x", 1000)})

	_, err := svc.Search(context.Background(), "long", models.ArticleSearchFilters{})
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	assert.NotContains(t, gen.prompts[0], strings.Repeat("x", 301))
	assert.Contains(t, gen.prompts[0], strings.Repeat("x", 300))
}

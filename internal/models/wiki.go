package models

import (
	"time"
)

type ArticleStatus string

const (
	ArticleDraft     ArticleStatus = "draft"
	ArticlePublished ArticleStatus = "published"
	ArticleInReview  ArticleStatus = "review"
)

type ReviewStatus string

const (
	ReviewNotRequested ReviewStatus = "not-requested"
	ReviewInProgress   ReviewStatus = "in-review"
	ReviewApproved     ReviewStatus = "approved"
	ReviewRejected     ReviewStatus = "rejected"
)

// PeerReviewState is embedded in the article and tracks the overall workflow.
// Individual reviewer decisions live in separate PeerReview documents.
type PeerReviewState struct {
	Required  bool         `json:"required" bson:"required"`
	Reviewers []string     `json:"reviewers" bson:"reviewers"`
	Status    ReviewStatus `json:"status" bson:"status"`
}

type WikiArticle struct {
	ID           string          `json:"id" bson:"_id"`
	Title        string          `json:"title" bson:"title"`
	Content      string          `json:"content" bson:"content"`
	AuthorID     string          `json:"authorId" bson:"authorId"`
	Contributors []string        `json:"contributors" bson:"contributors"`
	Categories   []string        `json:"categories" bson:"categories"`
	Tags         []string        `json:"tags" bson:"tags"`
	Status       ArticleStatus   `json:"status" bson:"status"`
	Version      int             `json:"version" bson:"version"`
	Views        int             `json:"views" bson:"views"`
	Likes        int             `json:"likes" bson:"likes"`
	PeerReview   PeerReviewState `json:"peerReview" bson:"peerReview"`
	CreatedAt    time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// WikiRevision is an append-only snapshot written on every article update.
type WikiRevision struct {
	ID        string    `json:"id" bson:"_id"`
	ArticleID string    `json:"articleId" bson:"articleId"`
	Version   int       `json:"version" bson:"version"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	Summary   string    `json:"summary" bson:"summary"`
	EditorID  string    `json:"editorId" bson:"editorId"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// WikiLike is the join record behind the like toggle. Its ID is
// "<articleID>_<userID>" so existence can be checked with a single get.
type WikiLike struct {
	ID        string    `json:"id" bson:"_id"`
	ArticleID string    `json:"articleId" bson:"articleId"`
	UserID    string    `json:"userId" bson:"userId"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type PeerReviewDecision string

const (
	DecisionApprove PeerReviewDecision = "approve"
	DecisionReject  PeerReviewDecision = "reject"
	DecisionRevise  PeerReviewDecision = "revise"
)

// PeerReview is one reviewer's assignment for one article.
type PeerReview struct {
	ID          string              `json:"id" bson:"_id"`
	ArticleID   string              `json:"articleId" bson:"articleId"`
	ReviewerID  string              `json:"reviewerId" bson:"reviewerId"`
	Status      string              `json:"status" bson:"status"` // pending, completed
	Decision    *PeerReviewDecision `json:"decision,omitempty" bson:"decision,omitempty"`
	Comments    string              `json:"comments,omitempty" bson:"comments,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	CompletedAt *time.Time          `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// Wiki DTOs
type CreateArticleRequest struct {
	Title      string   `json:"title" validate:"required"`
	Content    string   `json:"content" validate:"required"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

type UpdateArticleRequest struct {
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
	Status     *string  `json:"status"`
	Summary    string   `json:"summary"`
}

type ArticleSearchFilters struct {
	Category string        `json:"category"`
	Tag      string        `json:"tag"`
	Status   ArticleStatus `json:"status"`
}

type SubmitReviewRequest struct {
	Decision PeerReviewDecision `json:"decision" validate:"required"`
	Comments string             `json:"comments"`
}

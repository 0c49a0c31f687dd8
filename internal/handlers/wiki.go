package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/studyhall/studyhall-api/internal/middleware"
	"github.com/studyhall/studyhall-api/internal/models"
)

func (h *Handler) CreateArticle(c *fiber.Ctx) error {
	var req models.CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Title == "" || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title and content are required",
		})
	}

	article, err := h.wiki.CreateArticle(c.Context(), middleware.GetUserID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

// GetArticle returns the article and bumps its view counter.
func (h *Handler) GetArticle(c *fiber.Ctx) error {
	article, err := h.wiki.ViewArticle(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(article)
}

func (h *Handler) UpdateArticle(c *fiber.Ctx) error {
	var req models.UpdateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	article, err := h.wiki.UpdateArticle(c.Context(), c.Params("id"), middleware.GetUserID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(article)
}

func (h *Handler) GetArticleRevisions(c *fiber.Ctx) error {
	revisions, err := h.wiki.ListRevisions(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"revisions": revisions})
}

func (h *Handler) ToggleArticleLike(c *fiber.Ctx) error {
	liked, err := h.wiki.ToggleLike(c.Context(), c.Params("id"), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// SearchArticles runs the model-ranked search with its substring fallback.
func (h *Handler) SearchArticles(c *fiber.Ctx) error {
	filters := models.ArticleSearchFilters{
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Status:   models.ArticleStatus(c.Query("status")),
	}

	articles, err := h.wiki.Search(c.Context(), c.Query("q"), filters)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"articles": articles, "count": len(articles)})
}

func (h *Handler) GetArticleRecommendations(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "5"))

	articles, err := h.wiki.Recommendations(c.Context(), middleware.GetUserID(c), c.Query("current"), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"articles": articles})
}

func (h *Handler) SubmitForPeerReview(c *fiber.Ctx) error {
	var req struct {
		Reviewers []string `json:"reviewers"`
	}
	if err := c.BodyParser(&req); err != nil || len(req.Reviewers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one reviewer is required",
		})
	}

	if err := h.wiki.SubmitForPeerReview(c.Context(), c.Params("id"), middleware.GetUserID(c), req.Reviewers); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) SubmitPeerReview(c *fiber.Ctx) error {
	var req models.SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Decision == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Decision is required",
		})
	}

	if err := h.wiki.SubmitPeerReview(c.Context(), c.Params("id"), middleware.GetUserID(c), req); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) ListPeerReviews(c *fiber.Ctx) error {
	reviews, err := h.wiki.ListPeerReviews(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}

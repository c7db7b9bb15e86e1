package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lumina-backend/internal/http/response"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/services"
)

type BlogHandler struct {
	log               *logger.Logger
	blogService       services.BlogService
	newsletterService services.NewsletterService
	pageSize          int
}

func NewBlogHandler(log *logger.Logger, blogService services.BlogService, newsletterService services.NewsletterService, pageSize int) *BlogHandler {
	return &BlogHandler{
		log:               log.With("handler", "BlogHandler"),
		blogService:       blogService,
		newsletterService: newsletterService,
		pageSize:          pageSize,
	}
}

// GET /api/blog/categories/
func (h *BlogHandler) ListCategories(c *gin.Context) {
	p, err := pageParams(c, h.pageSize)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	page, err := h.blogService.ListCategories(dbcFrom(c), p)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondPage(c, page)
}

// GET /api/blog/posts/?category=&category_slug=&status=&search=&ordering=
func (h *BlogHandler) ListPosts(c *gin.Context) {
	p, err := pageParams(c, h.pageSize)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	categoryID, err := queryUUID(c, "category")
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	page, err := h.blogService.ListPosts(dbcFrom(c), services.PostQuery{
		CategoryID:   categoryID,
		CategorySlug: c.Query("category_slug"),
		Status:       c.Query("status"),
		Search:       c.Query("search"),
		Ordering:     c.Query("ordering"),
	}, p)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondPage(c, page)
}

// GET /api/blog/posts/featured/
func (h *BlogHandler) FeaturedPosts(c *gin.Context) {
	items, err := h.blogService.FeaturedPosts(dbcFrom(c))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, items)
}

// GET /api/blog/posts/:slug/
func (h *BlogHandler) GetPost(c *gin.Context) {
	post, err := h.blogService.GetPost(dbcFrom(c), c.Param("slug"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, post)
}

// GET /api/blog/posts/:slug/comments/
func (h *BlogHandler) ListComments(c *gin.Context) {
	comments, err := h.blogService.ListComments(dbcFrom(c), c.Param("slug"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, comments)
}

// POST /api/blog/posts/:slug/comments/
func (h *BlogHandler) CreatePostComment(c *gin.Context) {
	h.createComment(c, c.Param("slug"))
}

// POST /api/blog/comments/
func (h *BlogHandler) CreateComment(c *gin.Context) {
	h.createComment(c, "")
}

func (h *BlogHandler) createComment(c *gin.Context, slug string) {
	var in services.CommentInput
	if !response.BindJSON(c, &in) {
		return
	}
	// The URL slug wins over a post id in the body.
	if slug != "" {
		in.PostSlug, in.PostID = slug, nil
	}
	comment, err := h.blogService.CreateComment(dbcFrom(c), in)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, comment)
}

// POST /api/blog/posts/:slug/featured-image/
// multipart: file
func (h *BlogHandler) UploadFeaturedImage(c *gin.Context) {
	raw, err := readUpload(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	post, err := h.blogService.UploadFeaturedImage(dbcFrom(c), c.Param("slug"), raw)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, post)
}

type newsletterRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
}

// POST /api/blog/newsletter/subscribe/
func (h *BlogHandler) Subscribe(c *gin.Context) {
	var req newsletterRequest
	if !response.BindJSON(c, &req) {
		return
	}
	if _, err := h.newsletterService.Subscribe(dbcFrom(c), req.Email); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondMessage(c, http.StatusCreated, "Successfully subscribed to newsletter!")
}

// POST /api/blog/newsletter/unsubscribe/
func (h *BlogHandler) Unsubscribe(c *gin.Context) {
	var req newsletterRequest
	if !response.BindJSON(c, &req) {
		return
	}
	if err := h.newsletterService.Unsubscribe(dbcFrom(c), req.Email); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, "Successfully unsubscribed from newsletter.")
}

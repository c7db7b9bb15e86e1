package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lumina-backend/internal/http/response"
	"github.com/yungbote/lumina-backend/internal/pkg/money"
	"github.com/yungbote/lumina-backend/internal/platform/apierr"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/services"
)

type ShopHandler struct {
	log         *logger.Logger
	shopService services.ShopService
	pageSize    int
}

func NewShopHandler(log *logger.Logger, shopService services.ShopService, pageSize int) *ShopHandler {
	return &ShopHandler{
		log:         log.With("handler", "ShopHandler"),
		shopService: shopService,
		pageSize:    pageSize,
	}
}

// GET /api/shop/categories/
func (h *ShopHandler) ListCategories(c *gin.Context) {
	p, err := pageParams(c, h.pageSize)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	page, err := h.shopService.ListCategories(dbcFrom(c), p)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondPage(c, page)
}

func queryAmount(c *gin.Context, key string) (*money.Amount, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	a, err := money.Parse(raw)
	if err != nil {
		return nil, apierr.FieldError(key, "Enter a number.")
	}
	return &a, nil
}

// GET /api/shop/products/?category=&category_slug=&status=&min_price=&max_price=&in_stock=&search=&ordering=
func (h *ShopHandler) ListProducts(c *gin.Context) {
	p, err := pageParams(c, h.pageSize)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	q := services.ProductQuery{
		CategorySlug: c.Query("category_slug"),
		Status:       c.Query("status"),
		Search:       c.Query("search"),
		Ordering:     c.Query("ordering"),
	}
	if q.CategoryID, err = queryUUID(c, "category"); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if q.MinPrice, err = queryAmount(c, "min_price"); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if q.MaxPrice, err = queryAmount(c, "max_price"); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if raw := c.Query("in_stock"); raw != "" {
		q.InStock, _ = strconv.ParseBool(raw)
	}
	page, err := h.shopService.ListProducts(dbcFrom(c), q, p)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondPage(c, page)
}

// GET /api/shop/products/featured/
func (h *ShopHandler) FeaturedProducts(c *gin.Context) {
	items, err := h.shopService.FeaturedProducts(dbcFrom(c))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, items)
}

// GET /api/shop/products/:slug/
func (h *ShopHandler) GetProduct(c *gin.Context) {
	product, err := h.shopService.GetProduct(dbcFrom(c), c.Param("slug"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, product)
}

// GET /api/shop/products/:slug/reviews/
func (h *ShopHandler) ListReviews(c *gin.Context) {
	reviews, err := h.shopService.ListReviews(dbcFrom(c), c.Param("slug"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, reviews)
}

// POST /api/shop/products/:slug/reviews/
func (h *ShopHandler) CreateProductReview(c *gin.Context) {
	h.createReview(c, c.Param("slug"))
}

// POST /api/shop/reviews/
func (h *ShopHandler) CreateReview(c *gin.Context) {
	h.createReview(c, "")
}

func (h *ShopHandler) createReview(c *gin.Context, slug string) {
	var in services.ReviewInput
	if !response.BindJSON(c, &in) {
		return
	}
	// The URL slug wins over a product id in the body.
	if slug != "" {
		in.ProductSlug, in.ProductID = slug, nil
	}
	review, err := h.shopService.CreateReview(dbcFrom(c), in)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, review)
}

// POST /api/shop/products/:slug/images/
// multipart: file, alt_text, order
func (h *ShopHandler) UploadProductImage(c *gin.Context) {
	raw, err := readUpload(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	in := services.ProductImageInput{AltText: c.PostForm("alt_text")}
	if v := strings.TrimSpace(c.PostForm("order")); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			response.RespondAPIError(c, h.log, apierr.FieldError("order", "A valid integer is required."))
			return
		}
		in.Order = n
	}
	img, err := h.shopService.UploadProductImage(dbcFrom(c), c.Param("slug"), raw, in)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, img)
}

package public

import (
	"strconv"
	"strings"

	"github.com/megano-shop/internal/http/response"
	"github.com/megano-shop/internal/models"
	"github.com/megano-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewRequest 新增评价请求
type ReviewRequest struct {
	Author string `json:"author"`
	Email  string `json:"email"`
	Text   string `json:"text"`
	Rate   int    `json:"rate"`
}

// PopularProducts 首页热门商品
func (h *Handler) PopularProducts(c *gin.Context) {
	products, err := h.ProductService.PopularProducts()
	if err != nil {
		respondWithMappedError(c, err, nil, "failed to load products")
		return
	}
	h.respondProductList(c, products)
}

// LimitedProducts 限量款商品
func (h *Handler) LimitedProducts(c *gin.Context) {
	products, err := h.ProductService.LimitedProducts()
	if err != nil {
		respondWithMappedError(c, err, nil, "failed to load products")
		return
	}
	h.respondProductList(c, products)
}

// ListCategories 推荐分类
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.ProductService.FeaturedCategories()
	if err != nil {
		respondWithMappedError(c, err, nil, "failed to load categories")
		return
	}
	response.Success(c, categories)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}
	product, err := h.ProductService.GetProduct(productID)
	if err != nil {
		respondWithMappedError(c, err, nil, "failed to load product")
		return
	}
	reviews, err := h.ProductService.CountReviews(productID)
	if err != nil {
		respondWithMappedError(c, err, nil, "failed to load product")
		return
	}
	response.Success(c, catalogProductPayload(product, reviews))
}

// ListReviews 商品评价列表
func (h *Handler) ListReviews(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}
	reviews, err := h.ProductService.ListReviews(productID)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, "failed to load reviews")
		return
	}
	response.Success(c, reviews)
}

// AddReview 新增商品评价，返回该商品的全部评价
func (h *Handler) AddReview(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "malformed request body")
		return
	}
	if _, err := h.ProductService.AddReview(productID, service.AddReviewInput{
		Author: req.Author,
		Email:  req.Email,
		Text:   req.Text,
		Rate:   req.Rate,
	}); err != nil {
		respondWithMappedError(c, err, reviewErrorRules, "failed to add review")
		return
	}
	reviews, err := h.ProductService.ListReviews(productID)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, "failed to load reviews")
		return
	}
	response.Success(c, reviews)
}

// GetCatalog 目录浏览：名称/价格区间/免运费/有货/分类过滤，支持排序与分页
func (h *Handler) GetCatalog(c *gin.Context) {
	query := service.CatalogQuery{
		Name:         strings.TrimSpace(c.Query("filter[name]")),
		FreeDelivery: c.Query("filter[freeDelivery]") == "true",
		Available:    c.Query("filter[available]") == "true",
		Sort:         c.Query("sort"),
		SortDesc:     c.DefaultQuery("sortType", "dec") == "dec",
	}
	if v, err := strconv.ParseFloat(c.Query("filter[minPrice]"), 64); err == nil && v > 0 {
		price := models.NewMoneyFromFloat(v)
		query.MinPrice = &price
	}
	if v, err := strconv.ParseFloat(c.Query("filter[maxPrice]"), 64); err == nil && v > 0 {
		price := models.NewMoneyFromFloat(v)
		query.MaxPrice = &price
	}
	if v, err := strconv.ParseUint(c.Query("category"), 10, 64); err == nil {
		query.CategoryID = uint(v)
	}
	if v, err := strconv.Atoi(c.Query("currentPage")); err == nil {
		query.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		query.Limit = v
	}

	page, err := h.ProductService.Catalog(query)
	if err != nil {
		respondWithMappedError(c, err, nil, "failed to load catalog")
		return
	}
	payloads, err := h.productListPayloads(page.Items)
	if err != nil {
		respondWithMappedError(c, err, nil, "failed to load catalog")
		return
	}
	response.Success(c, gin.H{
		"items":       payloads,
		"currentPage": page.CurrentPage,
		"lastPage":    page.LastPage,
	})
}

// ListBanners 首页横幅商品
func (h *Handler) ListBanners(c *gin.Context) {
	products, err := h.ProductService.BannerProducts()
	if err != nil {
		respondWithMappedError(c, err, nil, "failed to load banners")
		return
	}
	h.respondProductList(c, products)
}

func (h *Handler) productListPayloads(products []models.Product) ([]ProductPayload, error) {
	productIDs := make([]uint, 0, len(products))
	for i := range products {
		productIDs = append(productIDs, products[i].ID)
	}
	reviewCounts, err := h.ProductService.CountReviewsBatch(productIDs)
	if err != nil {
		return nil, err
	}
	payloads := make([]ProductPayload, 0, len(products))
	for i := range products {
		payloads = append(payloads, catalogProductPayload(&products[i], reviewCounts[products[i].ID]))
	}
	return payloads, nil
}

func (h *Handler) respondProductList(c *gin.Context, products []models.Product) {
	payloads, err := h.productListPayloads(products)
	if err != nil {
		respondWithMappedError(c, err, nil, "failed to load products")
		return
	}
	response.Success(c, payloads)
}

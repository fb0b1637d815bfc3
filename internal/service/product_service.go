package service

import (
	"strings"

	"github.com/megano-shop/internal/models"
	"github.com/megano-shop/internal/repository"
)

// AddReviewInput 新增评价输入
type AddReviewInput struct {
	Author string
	Email  string
	Text   string
	Rate   int
}

// ProductService 商品目录服务（管道眼中的 Catalog Lookup）
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	reviewRepo   repository.ReviewRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, reviewRepo repository.ReviewRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
	}
}

// CatalogQuery 目录浏览查询
type CatalogQuery struct {
	Name         string
	MinPrice     *models.Money
	MaxPrice     *models.Money
	FreeDelivery bool
	Available    bool
	CategoryID   uint
	Sort         string
	SortDesc     bool
	Page         int
	Limit        int
}

// CatalogPage 目录分页结果
type CatalogPage struct {
	Items       []models.Product
	CurrentPage int
	LastPage    int
}

// Catalog 分页浏览商品目录。页码与每页数量越界时回退默认值。
func (s *ProductService) Catalog(query CatalogQuery) (*CatalogPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}
	items, total, err := s.productRepo.ListCatalog(repository.CatalogFilter{
		Name:         query.Name,
		MinPrice:     query.MinPrice,
		MaxPrice:     query.MaxPrice,
		FreeDelivery: query.FreeDelivery,
		Available:    query.Available,
		CategoryID:   query.CategoryID,
		Sort:         query.Sort,
		SortDesc:     query.SortDesc,
		Offset:       (page - 1) * limit,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}
	lastPage := int((total + int64(limit) - 1) / int64(limit))
	if lastPage < 1 {
		lastPage = 1
	}
	return &CatalogPage{Items: items, CurrentPage: page, LastPage: lastPage}, nil
}

// BannerProducts 首页横幅商品
func (s *ProductService) BannerProducts() ([]models.Product, error) {
	return s.productRepo.ListPopular(3)
}

// GetProduct 获取商品详情
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &ProductNotFoundError{ProductID: id}
	}
	return product, nil
}

// PopularProducts 首页热门商品
func (s *ProductService) PopularProducts() ([]models.Product, error) {
	return s.productRepo.ListPopular(8)
}

// LimitedProducts 限量款商品
func (s *ProductService) LimitedProducts() ([]models.Product, error) {
	return s.productRepo.ListLimited()
}

// FeaturedCategories 首页推荐分类
func (s *ProductService) FeaturedCategories() ([]models.Category, error) {
	return s.categoryRepo.ListFeatured()
}

// ListReviews 获取商品评价
func (s *ProductService) ListReviews(productID uint) ([]models.Review, error) {
	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByProduct(productID)
}

// CountReviews 统计商品评价数
func (s *ProductService) CountReviews(productID uint) (int64, error) {
	return s.reviewRepo.CountByProduct(productID)
}

// CountReviewsBatch 批量统计评价数
func (s *ProductService) CountReviewsBatch(productIDs []uint) (map[uint]int64, error) {
	return s.reviewRepo.CountByProducts(productIDs)
}

// AddReview 新增商品评价
func (s *ProductService) AddReview(productID uint, input AddReviewInput) (*models.Review, error) {
	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Author) == "" || strings.TrimSpace(input.Text) == "" {
		return nil, ErrInvalidReview
	}
	if input.Rate < 1 || input.Rate > 5 {
		return nil, ErrInvalidReview
	}
	review := &models.Review{
		ProductID: productID,
		Author:    strings.TrimSpace(input.Author),
		Email:     strings.TrimSpace(input.Email),
		Text:      input.Text,
		Rate:      input.Rate,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

package repository

import (
	"errors"
	"strings"

	"github.com/megano-shop/internal/models"

	"gorm.io/gorm"
)

// CatalogFilter 目录浏览过滤条件
type CatalogFilter struct {
	Name         string
	MinPrice     *models.Money
	MaxPrice     *models.Money
	FreeDelivery bool
	Available    bool
	CategoryID   uint
	Sort         string // price / rating / reviews / date
	SortDesc     bool
	Offset       int
	Limit        int
}

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	ListPopular(limit int) ([]models.Product, error)
	ListLimited() ([]models.Product, error)
	ListCatalog(filter CatalogFilter) ([]models.Product, int64, error)
	WithTx(tx *gorm.DB) *GormProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// GetByID 根据 ID 获取商品（不存在返回 nil）
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListPopular 按排序权重与销量取热门商品
func (r *GormProductRepository) ListPopular(limit int) ([]models.Product, error) {
	var products []models.Product
	if limit <= 0 {
		limit = 8
	}
	if err := r.db.Preload("Category").
		Order("sort_index desc, purchase_count desc").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListCatalog 按过滤条件分页浏览商品，返回当前页与过滤后的总数
func (r *GormProductRepository) ListCatalog(filter CatalogFilter) ([]models.Product, int64, error) {
	base := func() *gorm.DB {
		query := r.db.Model(&models.Product{})
		if name := strings.TrimSpace(filter.Name); name != "" {
			query = query.Where("name LIKE ?", "%"+name+"%")
		}
		if filter.MinPrice != nil {
			query = query.Where("price >= ?", filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			query = query.Where("price <= ?", filter.MaxPrice)
		}
		if filter.FreeDelivery {
			query = query.Where("free_delivery = ?", true)
		}
		if filter.Available {
			query = query.Where("count > 0")
		}
		if filter.CategoryID != 0 {
			query = query.Where("category_id = ?", filter.CategoryID)
		}
		return query
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	direction := "asc"
	if filter.SortDesc {
		direction = "desc"
	}
	query := base()
	switch filter.Sort {
	case "price":
		query = query.Order("price " + direction)
	case "rating":
		query = query.Order("rating " + direction)
	case "reviews":
		query = query.Select("products.*").
			Joins("LEFT JOIN reviews ON reviews.product_id = products.id AND reviews.deleted_at IS NULL").
			Group("products.id").
			Order("COUNT(reviews.id) " + direction)
	default:
		query = query.Order("created_at " + direction)
	}
	query = query.Order("products.id asc")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []models.Product
	if err := query.Preload("Category").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListLimited 获取限量款商品
func (r *GormProductRepository) ListLimited() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Category").
		Where("is_limited = ?", true).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

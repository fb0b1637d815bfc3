package repository

import (
	"github.com/megano-shop/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository 商品评价数据访问接口
type ReviewRepository interface {
	Create(review *models.Review) error
	ListByProduct(productID uint) ([]models.Review, error)
	CountByProduct(productID uint) (int64, error)
	CountByProducts(productIDs []uint) (map[uint]int64, error)
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create 写入评价
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// ListByProduct 获取商品评价列表
func (r *GormReviewRepository) ListByProduct(productID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// CountByProduct 统计商品评价数
func (r *GormReviewRepository) CountByProduct(productID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Review{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByProducts 批量统计商品评价数
func (r *GormReviewRepository) CountByProducts(productIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(productIDs))
	if len(productIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		ProductID uint
		Total     int64
	}
	if err := r.db.Model(&models.Review{}).
		Select("product_id, count(*) as total").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ProductID] = row.Total
	}
	return counts, nil
}

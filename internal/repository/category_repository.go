package repository

import (
	"github.com/megano-shop/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	ListFeatured() ([]models.Category, error)
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// ListFeatured 获取首页推荐分类
func (r *GormCategoryRepository) ListFeatured() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("is_featured = ?", true).
		Order("sort_order asc, id asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

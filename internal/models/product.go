package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                               // 主键
	CategoryID    uint           `gorm:"not null;index" json:"category_id"`                  // 分类ID
	Name          string         `gorm:"not null" json:"name"`                               // 商品名称
	Description   string         `gorm:"type:text" json:"description"`                       // 商品描述
	Price         Money          `gorm:"type:decimal(10,2);not null;default:0" json:"price"` // 单价
	Count         int            `gorm:"not null;default:0" json:"count"`                    // 可售数量
	FreeDelivery  bool           `gorm:"default:false" json:"free_delivery"`                 // 是否免运费
	Images        ImageList      `gorm:"type:json" json:"images"`                            // 图片数组
	Tags          StringArray    `gorm:"type:json" json:"tags"`                              // 标签数组
	Rating        *float64       `json:"rating"`                                             // 评分（无评分为空）
	IsLimited     bool           `gorm:"default:false;index" json:"is_limited"`              // 限量款
	SortIndex     int            `gorm:"default:0;index" json:"sort_index"`                  // 排序权重
	PurchaseCount int            `gorm:"default:0" json:"purchase_count"`                    // 销量
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	// 关联
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// Review 商品评价表
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`             // 主键
	ProductID uint           `gorm:"index;not null" json:"product_id"` // 商品ID
	Author    string         `gorm:"not null" json:"author"`           // 作者
	Email     string         `json:"email"`                            // 邮箱
	Text      string         `gorm:"type:text;not null" json:"text"`   // 评价内容
	Rate      int            `gorm:"not null" json:"rate"`             // 评分（1-5）
	CreatedAt time.Time      `gorm:"index" json:"date"`                // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                   // 软删除时间
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}

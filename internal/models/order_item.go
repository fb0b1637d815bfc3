package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表（下单时的商品快照，价格不再随目录变动）
type OrderItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                // 主键
	OrderID   uint           `gorm:"index;not null" json:"order_id"`                      // 订单ID
	ProductID uint           `gorm:"index;not null" json:"product_id"`                    // 商品ID
	Quantity  int            `gorm:"not null" json:"quantity"`                            // 数量
	Price     Money          `gorm:"type:decimal(10,2);not null;default:0" json:"price"` // 下单时单价
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品（展示用）
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

package models

import "time"

// CartItem 购物车项
// 身份键二选一：登录用户用 user_id（session_token 为空串），
// 匿名用户用 session_token（user_id 为 0）。
// 减购到零与结算清空都是物理删除：行没有软删除语义，
// 删除后同一 (身份, 商品) 必须能立即重新加购。
type CartItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                                     // 主键
	UserID       uint      `gorm:"not null;default:0;uniqueIndex:idx_cart_identity_product" json:"user_id"` // 用户ID（匿名为 0）
	SessionToken string    `gorm:"not null;default:'';uniqueIndex:idx_cart_identity_product" json:"-"`      // 匿名会话令牌
	ProductID    uint      `gorm:"not null;uniqueIndex:idx_cart_identity_product" json:"product_id"`        // 商品ID
	Quantity     int       `gorm:"not null" json:"quantity"`                                                 // 数量
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                                                  // 创建时间
	UpdatedAt    time.Time `gorm:"index" json:"updated_at"`                                                  // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}

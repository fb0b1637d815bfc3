package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
// 除 status 与一对一的 Payment 外，创建后不可变。
type Order struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                    // 主键
	UserID       *uint          `gorm:"index" json:"user_id,omitempty"`                          // 用户ID（游客订单为空）
	FullName     string         `gorm:"not null" json:"full_name"`                               // 收货人姓名
	Email        string         `gorm:"not null" json:"email"`                                   // 邮箱
	Phone        string         `gorm:"not null" json:"phone"`                                   // 电话
	DeliveryType string         `gorm:"not null" json:"delivery_type"`                           // 配送类型
	PaymentType  string         `gorm:"not null" json:"payment_type"`                            // 支付方式
	TotalCost    Money          `gorm:"type:decimal(10,2);not null;default:0" json:"total_cost"` // 总金额（创建时计算，之后不再重算）
	Status       string         `gorm:"index;not null" json:"status"`                            // 订单状态
	City         string         `gorm:"not null" json:"city"`                                    // 城市
	Address      string         `gorm:"not null" json:"address"`                                 // 地址
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                 // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	// 关联
	Items   []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`   // 订单项
	Payment *Payment    `gorm:"foreignKey:OrderID" json:"payment,omitempty"` // 支付记录
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment 支付记录（与订单一对一）
type Payment struct {
	ID         uint           `gorm:"primarykey" json:"id"`                      // 主键
	OrderID    uint           `gorm:"uniqueIndex;not null" json:"order_id"`      // 订单ID
	CardNumber string         `gorm:"type:varchar(16);not null" json:"-"`        // 卡号（不对外输出）
	CardHolder string         `gorm:"not null" json:"card_holder"`               // 持卡人
	ExpMonth   string         `gorm:"type:varchar(2);not null" json:"-"`         // 有效期月
	ExpYear    string         `gorm:"type:varchar(4);not null" json:"-"`         // 有效期年
	CVV        string         `gorm:"type:varchar(3);not null" json:"-"`         // 安全码（不对外输出）
	Amount     Money          `gorm:"type:decimal(10,2);not null" json:"amount"` // 支付金额（等于订单总额）
	Status     string         `gorm:"index;not null" json:"status"`              // 支付状态
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                   // 创建时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}

// MaskedCardNumber 仅暴露卡号后 4 位
func (p Payment) MaskedCardNumber() string {
	if len(p.CardNumber) < 4 {
		return "****"
	}
	return "**** **** **** " + p.CardNumber[len(p.CardNumber)-4:]
}

package service

import (
	"strings"

	"github.com/megano-shop/internal/constants"
)

// 订单状态机：accepted → processing → completed。
// 支付流程只推进 accepted → processing；SetStatus 是管理侧覆写入口，
// 对枚举内的任意目标值直接生效（含回退）。
var orderStatuses = map[string]struct{}{
	constants.OrderStatusAccepted:   {},
	constants.OrderStatusProcessing: {},
	constants.OrderStatusCompleted:  {},
}

// ValidOrderStatus 判断状态值是否在枚举内
func ValidOrderStatus(status string) bool {
	_, ok := orderStatuses[strings.ToLower(strings.TrimSpace(status))]
	return ok
}

// NormalizeOrderStatus 归一化状态值（小写去空白）
func NormalizeOrderStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

package public

import "github.com/megano-shop/internal/provider"

// Handler 前台接口处理器入口
// 说明：该处理器覆盖商城全部对外 API（目录、购物车、订单、支付、用户）。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

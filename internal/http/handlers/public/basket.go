package public

import (
	"github.com/megano-shop/internal/http/response"
	"github.com/megano-shop/internal/repository"

	"github.com/gin-gonic/gin"
)

// BasketItemRequest 购物车增删请求
type BasketItemRequest struct {
	ID    uint `json:"id"`
	Count int  `json:"count"`
}

// GetBasket 获取购物车
func (h *Handler) GetBasket(c *gin.Context) {
	identity := h.cartIdentity(c)
	items, err := h.basketItems(identity)
	if err != nil {
		respondWithMappedError(c, err, basketErrorRules, "failed to load basket")
		return
	}
	response.Success(c, gin.H{"items": items})
}

// AddToBasket 加购；同商品数量合并
func (h *Handler) AddToBasket(c *gin.Context) {
	var req BasketItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "malformed request body")
		return
	}
	if req.ID == 0 {
		response.BadRequest(c, "product id is required")
		return
	}
	identity := h.cartIdentity(c)
	if _, err := h.CartService.AddLine(identity, req.ID, req.Count); err != nil {
		respondWithMappedError(c, err, basketErrorRules, "failed to update basket")
		return
	}
	items, err := h.basketItems(identity)
	if err != nil {
		respondWithMappedError(c, err, basketErrorRules, "failed to load basket")
		return
	}
	response.Success(c, gin.H{"items": items})
}

// RemoveFromBasket 减购；剩余数量不足时整行删除
func (h *Handler) RemoveFromBasket(c *gin.Context) {
	var req BasketItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "malformed request body")
		return
	}
	if req.ID == 0 {
		response.BadRequest(c, "product id is required")
		return
	}
	identity := h.cartIdentity(c)
	if err := h.CartService.RemoveLine(identity, req.ID, req.Count); err != nil {
		respondWithMappedError(c, err, basketErrorRules, "failed to update basket")
		return
	}
	items, err := h.basketItems(identity)
	if err != nil {
		respondWithMappedError(c, err, basketErrorRules, "failed to load basket")
		return
	}
	response.Success(c, gin.H{"items": items})
}

// basketItems 构建购物车响应：商品取目录现价，count 为购买数量
func (h *Handler) basketItems(identity repository.CartIdentity) ([]ProductPayload, error) {
	lines, err := h.CartService.ListLines(identity)
	if err != nil {
		return nil, err
	}
	productIDs := make([]uint, 0, len(lines))
	for _, line := range lines {
		productIDs = append(productIDs, line.ProductID)
	}
	reviewCounts, err := h.ProductService.CountReviewsBatch(productIDs)
	if err != nil {
		return nil, err
	}
	items := make([]ProductPayload, 0, len(lines))
	for _, line := range lines {
		items = append(items, productPayload(line.Product, line.Product.Price, line.Quantity, reviewCounts[line.ProductID]))
	}
	return items, nil
}

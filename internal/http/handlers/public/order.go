package public

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/megano-shop/internal/constants"
	"github.com/megano-shop/internal/http/response"
	"github.com/megano-shop/internal/models"
	"github.com/megano-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderProductRequest 下单商品行请求
type OrderProductRequest struct {
	ID    uint          `json:"id"`
	Price *models.Money `json:"price"`
	Count int           `json:"count"`
}

// OrderCreateRequest 下单请求。前端既可能发 {products: [...], ...}
// 对象，也可能发裸商品数组，解析入口统一归一到该结构。
type OrderCreateRequest struct {
	Products     []OrderProductRequest `json:"products"`
	FullName     string                `json:"fullName"`
	Email        string                `json:"email"`
	Phone        string                `json:"phone"`
	DeliveryType string                `json:"deliveryType"`
	PaymentType  string                `json:"paymentType"`
	City         string                `json:"city"`
	Address      string                `json:"address"`
}

// OrderPayload 订单响应结构
type OrderPayload struct {
	ID           uint             `json:"id"`
	CreatedAt    string           `json:"createdAt"`
	FullName     string           `json:"fullName"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone"`
	DeliveryType string           `json:"deliveryType"`
	PaymentType  string           `json:"paymentType"`
	TotalCost    models.Money     `json:"totalCost"`
	Status       string           `json:"status"`
	City         string           `json:"city"`
	Address      string           `json:"address"`
	Products     []ProductPayload `json:"products"`
}

// CreateOrder 创建订单。商品行为空时以当前身份的购物车为来源，
// 成功后购物车在同一事务内清空。
func (h *Handler) CreateOrder(c *gin.Context) {
	req, ok := bindOrderCreateRequest(c)
	if !ok {
		return
	}

	customer := service.CustomerInfo{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		DeliveryType: req.DeliveryType,
		PaymentType:  req.PaymentType,
		City:         req.City,
		Address:      req.Address,
	}
	userID := currentUserIDPtr(c)

	var order *models.Order
	var err error
	if len(req.Products) == 0 {
		order, err = h.OrderService.CreateOrderFromCart(h.cartIdentity(c), userID, customer)
	} else {
		lines := make([]service.CreateOrderLine, 0, len(req.Products))
		for _, p := range req.Products {
			lines = append(lines, service.CreateOrderLine{
				ProductID: p.ID,
				Quantity:  p.Count,
				Price:     p.Price,
			})
		}
		order, err = h.OrderService.CreateOrder(service.CreateOrderInput{
			UserID:   userID,
			Customer: customer,
			Lines:    lines,
		})
	}
	if err != nil {
		respondWithMappedError(c, err, orderCreateErrorRules, "failed to create order")
		return
	}

	response.Created(c, gin.H{
		"orderId":   order.ID,
		"status":    "created",
		"detailUrl": fmt.Sprintf("/order/%d", order.ID),
	})
}

// ListOrders 订单列表；登录用户只看到自己的订单，
// 游客订单（user_id 为空）不出现在任何用户的历史里。
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.OrderService.ListOrders(currentUserIDPtr(c))
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, "failed to list orders")
		return
	}
	payloads := make([]OrderPayload, 0, len(orders))
	for i := range orders {
		payload, err := h.orderPayload(&orders[i])
		if err != nil {
			respondWithMappedError(c, err, orderStatusErrorRules, "failed to list orders")
			return
		}
		payloads = append(payloads, payload)
	}
	response.Success(c, payloads)
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(orderID)
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, "failed to load order")
		return
	}
	payload, err := h.orderPayload(order)
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, "failed to load order")
		return
	}
	response.Success(c, payload)
}

// UpdateOrderStatus 覆写订单状态（管理侧覆写语义，只校验枚举闭包）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "malformed request body")
		return
	}
	order, err := h.OrderService.SetStatus(orderID, req.Status)
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, "failed to update order status")
		return
	}
	response.Success(c, gin.H{
		"orderId":   order.ID,
		"status":    "success",
		"newStatus": order.Status,
	})
}

// bindOrderCreateRequest 解析下单请求体的两种形态：裸数组与对象
func bindOrderCreateRequest(c *gin.Context) (OrderCreateRequest, bool) {
	var req OrderCreateRequest
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "malformed request body")
		return req, false
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return req, true
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &req.Products); err != nil {
			response.BadRequest(c, "malformed request body")
			return req, false
		}
		return req, true
	}
	if err := json.Unmarshal(trimmed, &req); err != nil {
		response.BadRequest(c, "malformed request body")
		return req, false
	}
	return req, true
}

// orderPayload 构建订单响应；订单行商品用下单时的快照价与购买数量
func (h *Handler) orderPayload(order *models.Order) (OrderPayload, error) {
	productIDs := make([]uint, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	reviewCounts, err := h.ProductService.CountReviewsBatch(productIDs)
	if err != nil {
		return OrderPayload{}, err
	}

	products := make([]ProductPayload, 0, len(order.Items))
	for _, item := range order.Items {
		product := item.Product
		if product == nil {
			// 商品已从目录删除，退化为纯快照数据
			product = &models.Product{ID: item.ProductID}
		}
		products = append(products, productPayload(product, item.Price, item.Quantity, reviewCounts[item.ProductID]))
	}

	return OrderPayload{
		ID:           order.ID,
		CreatedAt:    order.CreatedAt.Format(constants.OrderCreatedAtLayout),
		FullName:     order.FullName,
		Email:        order.Email,
		Phone:        order.Phone,
		DeliveryType: order.DeliveryType,
		PaymentType:  order.PaymentType,
		TotalCost:    order.TotalCost,
		Status:       order.Status,
		City:         order.City,
		Address:      order.Address,
		Products:     products,
	}, nil
}

func parseIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid order id")
		return 0, false
	}
	return uint(id), true
}

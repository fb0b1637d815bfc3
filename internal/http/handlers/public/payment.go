package public

import (
	"fmt"

	"github.com/megano-shop/internal/http/response"
	"github.com/megano-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentRequest 支付卡提交请求
type PaymentRequest struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Month  string `json:"month"`
	Year   string `json:"year"`
	Code   string `json:"code"`
}

// GetPaymentStatus 查询订单支付状态
func (h *Handler) GetPaymentStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}
	order, err := h.PaymentService.GetPaymentStatus(orderID)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, "failed to load payment status")
		return
	}
	response.Success(c, gin.H{
		"orderId":    order.ID,
		"status":     order.Status,
		"totalCost":  order.TotalCost,
		"paymentUrl": fmt.Sprintf("/payment/%d", order.ID),
	})
}

// SubmitPayment 提交支付；校验失败无副作用，重复提交被拒绝
func (h *Handler) SubmitPayment(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "malformed request body")
		return
	}
	result, err := h.PaymentService.SubmitPayment(orderID, service.PaymentInstrument{
		Number: req.Number,
		Name:   req.Name,
		Month:  req.Month,
		Year:   req.Year,
		Code:   req.Code,
	})
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, "failed to submit payment")
		return
	}
	response.Success(c, gin.H{
		"status":  "payment_processing",
		"orderId": result.OrderID,
	})
}

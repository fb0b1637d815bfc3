package public

import (
	"errors"
	"net/http"

	"github.com/megano-shop/internal/http/response"
	"github.com/megano-shop/internal/logger"
	"github.com/megano-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	status int
	msg    string
}

// respondWithMappedError 按规则表输出错误；未命中的错误按 500 兜底，
// 详情只进日志不出接口。ProductNotFoundError 带缺失商品 ID，原样透出。
func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackMsg string) {
	var productNotFound *service.ProductNotFoundError
	if errors.As(err, &productNotFound) {
		response.NotFound(c, productNotFound.Error())
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			response.Error(c, rule.status, rule.msg)
			return
		}
	}
	logger.Errorw("request_failed",
		"path", c.FullPath(),
		"method", c.Request.Method,
		"error", err,
	)
	response.Internal(c, fallbackMsg)
}

var basketErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidQuantity, status: http.StatusBadRequest, msg: "count must be a positive integer"},
	{target: service.ErrInvalidIdentity, status: http.StatusBadRequest, msg: "invalid basket identity"},
	{target: service.ErrCartLineNotFound, status: http.StatusNotFound, msg: "no such product in basket"},
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidQuantity, status: http.StatusBadRequest, msg: "count must be a positive integer"},
	{target: service.ErrInvalidPrice, status: http.StatusBadRequest, msg: "price must not be negative"},
	{target: service.ErrInvalidIdentity, status: http.StatusBadRequest, msg: "invalid basket identity"},
}

var orderStatusErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, status: http.StatusNotFound, msg: "order not found"},
	{target: service.ErrInvalidStatus, status: http.StatusBadRequest, msg: "unknown order status"},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, status: http.StatusNotFound, msg: "order not found"},
	{target: service.ErrInvalidPayment, status: http.StatusBadRequest, msg: "invalid payment data"},
	{target: service.ErrPaymentExists, status: http.StatusConflict, msg: "payment already submitted"},
	{target: service.ErrOrderNotPayable, status: http.StatusConflict, msg: "order is not payable"},
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidReview, status: http.StatusBadRequest, msg: "invalid review data"},
}

var passwordErrorRules = []mappedHandlerError{
	{target: service.ErrPasswordMismatch, status: http.StatusBadRequest, msg: "incorrect current password"},
	{target: service.ErrInvalidPassword, status: http.StatusBadRequest, msg: "new password is required"},
	{target: service.ErrUserNotFound, status: http.StatusNotFound, msg: "user not found"},
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrUserExists, status: http.StatusConflict, msg: "username already taken"},
	{target: service.ErrInvalidPassword, status: http.StatusUnauthorized, msg: "wrong username or password"},
	{target: service.ErrUserNotFound, status: http.StatusNotFound, msg: "user not found"},
}

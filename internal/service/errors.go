package service

import (
	"errors"
	"fmt"
)

// 业务错误哨兵，由各 handler 通过 errors.Is/As 映射到 HTTP 状态码
var (
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrInvalidIdentity  = errors.New("cart identity invalid")
	ErrCartLineNotFound = errors.New("cart line not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidStatus    = errors.New("invalid status value")
	ErrInvalidPayment   = errors.New("invalid payment data")
	ErrPaymentExists    = errors.New("payment already submitted")
	ErrOrderNotPayable  = errors.New("order is not payable")
	ErrInvalidPrice     = errors.New("price must be non-negative")
	ErrInvalidReview    = errors.New("invalid review data")
	ErrUserExists       = errors.New("username already taken")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidPassword  = errors.New("invalid username or password")
	ErrPasswordMismatch = errors.New("current password mismatch")
)

// ProductNotFoundError 携带缺失商品 ID 的未找到错误。
// 下单的全有或全无语义要求把具体缺失的商品 ID 透给前端。
type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with id %d not found", e.ProductID)
}

// Is 允许 errors.Is(err, ErrProductNotFound) 命中
func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

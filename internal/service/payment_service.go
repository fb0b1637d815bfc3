package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/megano-shop/internal/constants"
	"github.com/megano-shop/internal/logger"
	"github.com/megano-shop/internal/models"
	"github.com/megano-shop/internal/repository"

	"gorm.io/gorm"
)

// PaymentInstrument 支付卡信息（字段名即前端合同）
type PaymentInstrument struct {
	Number string
	Name   string
	Month  string
	Year   string
	Code   string
}

// PaymentResult 支付提交结果
type PaymentResult struct {
	OrderID uint
	Status  string
}

// PaymentService 支付处理：校验卡信息、落支付记录并推进订单状态
type PaymentService struct {
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
}

// NewPaymentService 创建支付服务
func NewPaymentService(orderRepo repository.OrderRepository, paymentRepo repository.PaymentRepository) *PaymentService {
	return &PaymentService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
	}
}

// SubmitPayment 提交支付。
// 校验失败无任何副作用；重复检查、支付记录与 accepted→processing
// 状态推进在同一事务内完成。重复提交返回 ErrPaymentExists（拒绝策略），
// 并发提交输掉 order_id 唯一索引的一方同样归一为 ErrPaymentExists。
func (s *PaymentService) SubmitPayment(orderID uint, instrument PaymentInstrument) (*PaymentResult, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	now := time.Now()
	payment := &models.Payment{
		OrderID:    order.ID,
		CardNumber: instrument.Number,
		CardHolder: instrument.Name,
		ExpMonth:   instrument.Month,
		ExpYear:    instrument.Year,
		CVV:        instrument.Code,
		Amount:     order.TotalCost,
		Status:     constants.PaymentStatusPending,
		CreatedAt:  now,
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := s.paymentRepo.WithTx(tx).GetByOrderID(order.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrPaymentExists
		}
		if order.Status != constants.OrderStatusAccepted {
			return ErrOrderNotPayable
		}
		if err := validateInstrument(instrument); err != nil {
			return err
		}
		if err := s.paymentRepo.WithTx(tx).Create(payment); err != nil {
			return err
		}
		return s.orderRepo.WithTx(tx).UpdateStatus(order.ID, constants.OrderStatusProcessing, map[string]interface{}{
			"updated_at": now,
		})
	})
	if err != nil {
		if !errors.Is(err, ErrPaymentExists) && !errors.Is(err, ErrOrderNotPayable) && !errors.Is(err, ErrInvalidPayment) {
			if existing, checkErr := s.paymentRepo.GetByOrderID(order.ID); checkErr == nil && existing != nil {
				return nil, ErrPaymentExists
			}
		}
		return nil, err
	}

	logger.Infow("payment_submitted",
		"order_id", order.ID,
		"amount", payment.Amount.String(),
		"card", payment.MaskedCardNumber(),
	)
	return &PaymentResult{
		OrderID: order.ID,
		Status:  constants.OrderStatusProcessing,
	}, nil
}

// GetPaymentStatus 获取订单支付状态视图
func (s *PaymentService) GetPaymentStatus(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// validateInstrument 卡信息校验：卡号 16 位数字、持卡人非空、
// 月份 1-12、年份 4 位数字、安全码 3 位数字。
func validateInstrument(in PaymentInstrument) error {
	if !digitsOfLen(in.Number, 16) {
		return ErrInvalidPayment
	}
	if len(in.Name) == 0 {
		return ErrInvalidPayment
	}
	month, err := strconv.Atoi(in.Month)
	if err != nil || month < 1 || month > 12 {
		return ErrInvalidPayment
	}
	if !digitsOfLen(in.Year, 4) {
		return ErrInvalidPayment
	}
	if !digitsOfLen(in.Code, 3) {
		return ErrInvalidPayment
	}
	return nil
}

func digitsOfLen(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

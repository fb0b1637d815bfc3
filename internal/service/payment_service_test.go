package service

import (
	"errors"
	"testing"

	"github.com/megano-shop/internal/constants"
	"github.com/megano-shop/internal/models"
	"github.com/megano-shop/internal/repository"

	"gorm.io/gorm"
)

func validInstrument() PaymentInstrument {
	return PaymentInstrument{
		Number: "1234567812345678",
		Name:   "ALICE EXAMPLE",
		Month:  "12",
		Year:   "2030",
		Code:   "123",
	}
}

func newPaymentServiceForTest(t *testing.T, name string) (*PaymentService, *OrderService, *gorm.DB) {
	db := setupPipelineTest(t, name)
	orderSvc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewCartRepository(db),
	)
	paymentSvc := NewPaymentService(
		repository.NewOrderRepository(db),
		repository.NewPaymentRepository(db),
	)
	return paymentSvc, orderSvc, db
}

func createAcceptedOrder(t *testing.T, orderSvc *OrderService, db *gorm.DB) *models.Order {
	t.Helper()

	a := createTestProduct(t, db, "Product A", 10.00, 50)
	b := createTestProduct(t, db, "Product B", 5.50, 50)
	order, err := orderSvc.CreateOrder(CreateOrderInput{
		Lines: []CreateOrderLine{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestSubmitPaymentHappyPath(t *testing.T) {
	paymentSvc, orderSvc, db := newPaymentServiceForTest(t, "payment_service_ok")
	order := createAcceptedOrder(t, orderSvc, db)

	result, err := paymentSvc.SubmitPayment(order.ID, validInstrument())
	if err != nil {
		t.Fatalf("submit payment failed: %v", err)
	}
	if result.OrderID != order.ID || result.Status != constants.OrderStatusProcessing {
		t.Fatalf("result want order=%d status=processing got %+v", order.ID, result)
	}

	updated, err := orderSvc.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if updated.Status != constants.OrderStatusProcessing {
		t.Fatalf("order status want processing got %s", updated.Status)
	}

	var payment models.Payment
	if err := db.Where("order_id = ?", order.ID).First(&payment).Error; err != nil {
		t.Fatalf("payment row missing: %v", err)
	}
	if payment.Amount.String() != "25.50" {
		t.Fatalf("payment amount want 25.50 got %s", payment.Amount.String())
	}
	if payment.Status != constants.PaymentStatusPending {
		t.Fatalf("payment status want pending got %s", payment.Status)
	}
	if payment.MaskedCardNumber() != "**** **** **** 5678" {
		t.Fatalf("masked card want **** **** **** 5678 got %s", payment.MaskedCardNumber())
	}
}

func TestSubmitPaymentValidation(t *testing.T) {
	paymentSvc, orderSvc, db := newPaymentServiceForTest(t, "payment_service_validation")
	order := createAcceptedOrder(t, orderSvc, db)

	cases := []struct {
		name   string
		mutate func(*PaymentInstrument)
	}{
		{name: "15-digit number", mutate: func(in *PaymentInstrument) { in.Number = "123456781234567" }},
		{name: "letters in number", mutate: func(in *PaymentInstrument) { in.Number = "12345678abcd5678" }},
		{name: "empty holder", mutate: func(in *PaymentInstrument) { in.Name = "" }},
		{name: "non-numeric month", mutate: func(in *PaymentInstrument) { in.Month = "ab" }},
		{name: "month out of range", mutate: func(in *PaymentInstrument) { in.Month = "13" }},
		{name: "3-digit year", mutate: func(in *PaymentInstrument) { in.Year = "203" }},
		{name: "2-digit code", mutate: func(in *PaymentInstrument) { in.Code = "12" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			instrument := validInstrument()
			tc.mutate(&instrument)
			if _, err := paymentSvc.SubmitPayment(order.ID, instrument); !errors.Is(err, ErrInvalidPayment) {
				t.Fatalf("want ErrInvalidPayment got %v", err)
			}
		})
	}

	// 校验失败无任何副作用
	var paymentCount int64
	if err := db.Model(&models.Payment{}).Count(&paymentCount).Error; err != nil {
		t.Fatalf("count payments failed: %v", err)
	}
	if paymentCount != 0 {
		t.Fatalf("rejected submissions must not create payments, got %d", paymentCount)
	}
	current, err := orderSvc.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if current.Status != constants.OrderStatusAccepted {
		t.Fatalf("rejected submissions must not advance status, got %s", current.Status)
	}
}

func TestSubmitPaymentRejectsResubmission(t *testing.T) {
	paymentSvc, orderSvc, db := newPaymentServiceForTest(t, "payment_service_resubmit")
	order := createAcceptedOrder(t, orderSvc, db)

	if _, err := paymentSvc.SubmitPayment(order.ID, validInstrument()); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if _, err := paymentSvc.SubmitPayment(order.ID, validInstrument()); !errors.Is(err, ErrPaymentExists) {
		t.Fatalf("second submission want ErrPaymentExists got %v", err)
	}

	var paymentCount int64
	if err := db.Model(&models.Payment{}).Count(&paymentCount).Error; err != nil {
		t.Fatalf("count payments failed: %v", err)
	}
	if paymentCount != 1 {
		t.Fatalf("exactly one payment row expected, got %d", paymentCount)
	}
}

func TestSubmitPaymentForNonPayableOrder(t *testing.T) {
	paymentSvc, orderSvc, db := newPaymentServiceForTest(t, "payment_service_not_payable")
	order := createAcceptedOrder(t, orderSvc, db)

	if _, err := orderSvc.SetStatus(order.ID, constants.OrderStatusCompleted); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if _, err := paymentSvc.SubmitPayment(order.ID, validInstrument()); !errors.Is(err, ErrOrderNotPayable) {
		t.Fatalf("completed order want ErrOrderNotPayable got %v", err)
	}
}

func TestSubmitPaymentUnknownOrder(t *testing.T) {
	paymentSvc, _, _ := newPaymentServiceForTest(t, "payment_service_unknown")

	if _, err := paymentSvc.SubmitPayment(4242, validInstrument()); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("unknown order want ErrOrderNotFound got %v", err)
	}
}

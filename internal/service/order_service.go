package service

import (
	"strings"
	"time"

	"github.com/megano-shop/internal/constants"
	"github.com/megano-shop/internal/logger"
	"github.com/megano-shop/internal/models"
	"github.com/megano-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerInfo 下单联系与配送信息；缺失字段用占位值补齐而不拒单
type CustomerInfo struct {
	FullName     string
	Email        string
	Phone        string
	DeliveryType string
	PaymentType  string
	City         string
	Address      string
}

// CreateOrderLine 下单行：Price 为空时以目录现价为快照，
// 非空时按前端展示价锁定（不重新定价）。
type CreateOrderLine struct {
	ProductID uint
	Quantity  int
	Price     *models.Money
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID   *uint
	Customer CustomerInfo
	Lines    []CreateOrderLine
}

// OrderService 订单服务：把购物车或前端行单转成不可变订单快照
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, cartRepo repository.CartRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

// CreateOrder 从行单创建订单。
// 全有或全无：任何一行引用不存在的商品则整单回滚，错误里带上缺失的商品 ID。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	return s.createOrder(input, nil)
}

// CreateOrderFromCart 从购物车创建订单，成功后同事务清空购物车。
// 购物车行不存价格，这里以目录现价做快照。
func (s *OrderService) CreateOrderFromCart(identity repository.CartIdentity, userID *uint, customer CustomerInfo) (*models.Order, error) {
	if !identity.Valid() {
		return nil, ErrInvalidIdentity
	}
	items, err := s.cartRepo.ListByIdentity(identity)
	if err != nil {
		return nil, err
	}
	lines := make([]CreateOrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CreateOrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return s.createOrder(CreateOrderInput{
		UserID:   userID,
		Customer: customer,
		Lines:    lines,
	}, &identity)
}

func (s *OrderService) createOrder(input CreateOrderInput, clearCart *repository.CartIdentity) (*models.Order, error) {
	lines := mergeOrderLines(input.Lines)
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if line.Price != nil && line.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
	}
	customer := applyCustomerDefaults(input.Customer)

	now := time.Now()
	order := &models.Order{
		UserID:       input.UserID,
		FullName:     customer.FullName,
		Email:        customer.Email,
		Phone:        customer.Phone,
		DeliveryType: customer.DeliveryType,
		PaymentType:  customer.PaymentType,
		Status:       constants.OrderStatusAccepted,
		City:         customer.City,
		Address:      customer.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			product, err := productRepo.GetByID(line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return &ProductNotFoundError{ProductID: line.ProductID}
			}
			price := product.Price
			if line.Price != nil {
				price = *line.Price
			}
			total = total.Add(price.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     price,
				CreatedAt: now,
				Product:   product,
			})
		}
		order.TotalCost = models.NewMoneyFromDecimal(total)
		if err := s.orderRepo.WithTx(tx).Create(order, items); err != nil {
			return err
		}
		if clearCart != nil {
			if err := s.cartRepo.WithTx(tx).ClearByIdentity(*clearCart); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"total_cost", order.TotalCost.String(),
		"items", len(order.Items),
	)
	return order, nil
}

// GetOrder 获取订单详情
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 获取订单列表；userID 为空时返回全部订单（保持来源端行为），
// 指定用户时游客订单（user_id 为空）永远不会出现在结果里。
func (s *OrderService) ListOrders(userID *uint) ([]models.Order, error) {
	return s.orderRepo.List(repository.OrderListFilter{UserID: userID})
}

// SetStatus 覆写订单状态。只校验枚举闭包，不强制推进方向（管理侧覆写语义）。
func (s *OrderService) SetStatus(orderID uint, status string) (*models.Order, error) {
	normalized := NormalizeOrderStatus(status)
	if !ValidOrderStatus(normalized) {
		return nil, ErrInvalidStatus
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := s.orderRepo.UpdateStatus(order.ID, normalized, map[string]interface{}{
		"updated_at": time.Now(),
	}); err != nil {
		return nil, err
	}
	order.Status = normalized
	return order, nil
}

// mergeOrderLines 合并同一商品的重复行（数量相加，价格以首行为准）
func mergeOrderLines(lines []CreateOrderLine) []CreateOrderLine {
	merged := make([]CreateOrderLine, 0, len(lines))
	index := make(map[uint]int, len(lines))
	for _, line := range lines {
		if at, ok := index[line.ProductID]; ok {
			merged[at].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

// applyCustomerDefaults 补齐缺失的收货信息
func applyCustomerDefaults(customer CustomerInfo) CustomerInfo {
	if strings.TrimSpace(customer.FullName) == "" {
		customer.FullName = constants.DefaultFullName
	}
	if strings.TrimSpace(customer.Email) == "" {
		customer.Email = constants.DefaultEmail
	}
	if strings.TrimSpace(customer.Phone) == "" {
		customer.Phone = constants.DefaultPhone
	}
	if strings.TrimSpace(customer.DeliveryType) == "" {
		customer.DeliveryType = constants.DeliveryTypeOrdinary
	}
	if strings.TrimSpace(customer.PaymentType) == "" {
		customer.PaymentType = constants.PaymentTypeOnline
	}
	if strings.TrimSpace(customer.City) == "" {
		customer.City = constants.DefaultCity
	}
	if strings.TrimSpace(customer.Address) == "" {
		customer.Address = constants.DefaultAddress
	}
	return customer
}

package service

import (
	"errors"

	"github.com/megano-shop/internal/models"
	"github.com/megano-shop/internal/repository"

	"gorm.io/gorm"
)

// CartLineDetail 购物车行详情（读取时用目录现价充实，价格不做快照）
type CartLineDetail struct {
	ProductID uint
	Quantity  int
	Product   *models.Product
}

// AddLineResult 加购结果
type AddLineResult struct {
	Line      *models.CartItem
	LineCount int64
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ListLines 按插入顺序获取购物车行，附带商品现价与展示信息
func (s *CartService) ListLines(identity repository.CartIdentity) ([]CartLineDetail, error) {
	if !identity.Valid() {
		return nil, ErrInvalidIdentity
	}
	items, err := s.cartRepo.ListByIdentity(identity)
	if err != nil {
		return nil, err
	}
	details := make([]CartLineDetail, 0, len(items))
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 {
			p, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			product = p
		}
		if product == nil {
			// 商品已下架，连带清掉对应的购物车行
			if _, err := s.cartRepo.RemoveQuantity(identity, item.ProductID, item.Quantity); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			continue
		}
		details = append(details, CartLineDetail{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   product,
		})
	}
	return details, nil
}

// AddLine 加购；已有同商品行时数量合并而非覆盖
func (s *CartService) AddLine(identity repository.CartIdentity, productID uint, quantity int) (*AddLineResult, error) {
	if !identity.Valid() {
		return nil, ErrInvalidIdentity
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &ProductNotFoundError{ProductID: productID}
	}

	line, err := s.cartRepo.AddQuantity(identity, productID, quantity)
	if err != nil {
		return nil, err
	}
	count, err := s.cartRepo.CountLines(identity)
	if err != nil {
		return nil, err
	}
	return &AddLineResult{Line: line, LineCount: count}, nil
}

// RemoveLine 减购；剩余数量不足时整行删除
func (s *CartService) RemoveLine(identity repository.CartIdentity, productID uint, quantity int) error {
	if !identity.Valid() {
		return ErrInvalidIdentity
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if _, err := s.cartRepo.RemoveQuantity(identity, productID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartLineNotFound
		}
		return err
	}
	return nil
}

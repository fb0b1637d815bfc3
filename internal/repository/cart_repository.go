package repository

import (
	"errors"
	"time"

	"github.com/megano-shop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartIdentity 购物车身份键：登录用户 user_id 与匿名 session_token 二选一
type CartIdentity struct {
	UserID       uint
	SessionToken string
}

// Valid 身份键必须恰好设置一个
func (i CartIdentity) Valid() bool {
	return (i.UserID != 0) != (i.SessionToken != "")
}

func (i CartIdentity) scope(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ? AND session_token = ?", i.UserID, i.SessionToken)
}

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByIdentity(identity CartIdentity) ([]models.CartItem, error)
	AddQuantity(identity CartIdentity, productID uint, quantity int) (*models.CartItem, error)
	RemoveQuantity(identity CartIdentity, productID uint, quantity int) (deleted bool, err error)
	CountLines(identity CartIdentity) (int64, error)
	ClearByIdentity(identity CartIdentity) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByIdentity 按插入顺序获取购物车项
func (r *GormCartRepository) ListByIdentity(identity CartIdentity) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := identity.scope(r.db).
		Preload("Product").
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddQuantity 合并增加数量；无既有行时新建。
// 用单条 INSERT ... ON CONFLICT 落在 (user_id, session_token, product_id)
// 唯一索引上，并发首次加购也不会有 UPDATE 未命中再 INSERT 撞索引的窗口。
func (r *GormCartRepository) AddQuantity(identity CartIdentity, productID uint, quantity int) (*models.CartItem, error) {
	now := time.Now()
	line := models.CartItem{
		UserID:       identity.UserID,
		SessionToken: identity.SessionToken,
		ProductID:    productID,
		Quantity:     quantity,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "session_token"},
				{Name: "product_id"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
				"updated_at": now,
			}),
		}).Create(&line).Error; err != nil {
			return err
		}
		return identity.scope(tx).Where("product_id = ?", productID).First(&line).Error
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// RemoveQuantity 减少数量；剩余数量归零（或不足）时删除整行。
// 行级锁定读后写，保证并发删除不重复计数。
func (r *GormCartRepository) RemoveQuantity(identity CartIdentity, productID uint, quantity int) (bool, error) {
	var deleted bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var line models.CartItem
		if err := identity.scope(tx.Clauses(clause.Locking{Strength: "UPDATE"})).
			Where("product_id = ?", productID).
			First(&line).Error; err != nil {
			return err
		}
		if line.Quantity <= quantity {
			deleted = true
			return tx.Delete(&line).Error
		}
		return tx.Model(&line).Updates(map[string]interface{}{
			"quantity":   line.Quantity - quantity,
			"updated_at": time.Now(),
		}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, gorm.ErrRecordNotFound
	}
	return deleted, err
}

// CountLines 统计购物车行数
func (r *GormCartRepository) CountLines(identity CartIdentity) (int64, error) {
	var count int64
	if err := identity.scope(r.db.Model(&models.CartItem{})).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ClearByIdentity 清空购物车
func (r *GormCartRepository) ClearByIdentity(identity CartIdentity) error {
	return identity.scope(r.db).Delete(&models.CartItem{}).Error
}

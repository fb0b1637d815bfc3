package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/megano-shop/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupPipelineTest 打开独立内存库并接管 models.DB
// （订单与支付服务的事务直接走全局连接）。
func setupPipelineTest(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Review{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	prev := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = prev })
	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64, count int) models.Product {
	t.Helper()

	product := models.Product{
		CategoryID: 1,
		Name:       name,
		Price:      models.NewMoneyFromFloat(price),
		Count:      count,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create test product failed: %v", err)
	}
	return product
}

package main

import (
	"github.com/megano-shop/internal/config"
	"github.com/megano-shop/internal/logger"
	"github.com/megano-shop/internal/models"
)

// 演示数据填充工具：建表并写入示例分类与商品，商品已存在时跳过。
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns: cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns: cfg.Database.Pool.MaxIdleConns,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	var count int64
	if err := models.DB.Model(&models.Product{}).Count(&count).Error; err != nil {
		stdLog.Fatalf("统计商品失败: %v", err)
	}
	if count > 0 {
		stdLog.Printf("商品表非空（%d 条），跳过填充", count)
		return
	}

	categories := []models.Category{
		{Name: "Phones", IsFeatured: true, SortOrder: 1},
		{Name: "Laptops", IsFeatured: true, SortOrder: 2},
		{Name: "Accessories", IsFeatured: false, SortOrder: 3},
	}
	if err := models.DB.Create(&categories).Error; err != nil {
		stdLog.Fatalf("写入分类失败: %v", err)
	}

	rating := func(v float64) *float64 { return &v }
	products := []models.Product{
		{
			CategoryID:    categories[0].ID,
			Name:          "Nebula X2",
			Description:   "6.4-inch smartphone with dual camera",
			Price:         models.NewMoneyFromFloat(499.00),
			Count:         25,
			FreeDelivery:  true,
			Images:        models.ImageList{{Src: "/uploads/nebula-x2.png", Alt: "Nebula X2"}},
			Tags:          models.StringArray{"phone", "android"},
			Rating:        rating(4.6),
			SortIndex:     10,
			PurchaseCount: 120,
		},
		{
			CategoryID:    categories[0].ID,
			Name:          "Nebula X2 Mini",
			Description:   "Compact edition of the Nebula X2",
			Price:         models.NewMoneyFromFloat(349.50),
			Count:         40,
			Images:        models.ImageList{{Src: "/uploads/nebula-x2-mini.png", Alt: "Nebula X2 Mini"}},
			Tags:          models.StringArray{"phone", "compact"},
			Rating:        rating(4.2),
			SortIndex:     8,
			PurchaseCount: 75,
		},
		{
			CategoryID:    categories[1].ID,
			Name:          "Aurora Book 14",
			Description:   "Lightweight 14-inch laptop, 16GB RAM",
			Price:         models.NewMoneyFromFloat(1099.99),
			Count:         12,
			FreeDelivery:  true,
			Images:        models.ImageList{{Src: "/uploads/aurora-book-14.png", Alt: "Aurora Book 14"}},
			Tags:          models.StringArray{"laptop", "ultrabook"},
			Rating:        rating(4.8),
			IsLimited:     true,
			SortIndex:     9,
			PurchaseCount: 60,
		},
		{
			CategoryID:    categories[2].ID,
			Name:          "Volt USB-C Charger",
			Description:   "65W fast charger",
			Price:         models.NewMoneyFromFloat(29.90),
			Count:         200,
			Images:        models.ImageList{{Src: "/uploads/volt-charger.png", Alt: "Volt USB-C Charger"}},
			Tags:          models.StringArray{"charger", "usb-c"},
			SortIndex:     3,
			PurchaseCount: 310,
		},
	}
	if err := models.DB.Create(&products).Error; err != nil {
		stdLog.Fatalf("写入商品失败: %v", err)
	}

	stdLog.Printf("填充完成: %d 个分类, %d 个商品", len(categories), len(products))
}

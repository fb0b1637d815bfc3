package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/megano-shop/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:product_repository_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.Review{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewProductRepository(db), db
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, name string, price float64, categoryID uint, rating float64) models.Product {
	t.Helper()

	product := models.Product{CategoryID: categoryID, Name: name, Price: models.NewMoneyFromFloat(price), Count: 10, Rating: &rating}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func TestListCatalogCategoryFilter(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	inCat := seedCatalogProduct(t, db, "Product A", 10.00, 1, 4.0)
	seedCatalogProduct(t, db, "Product B", 20.00, 2, 3.0)

	items, total, err := repo.ListCatalog(CatalogFilter{CategoryID: 1})
	if err != nil {
		t.Fatalf("list catalog failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != inCat.ID {
		t.Fatalf("category filter want only %d, got total=%d items=%+v", inCat.ID, total, items)
	}
}

func TestListCatalogRatingSort(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	low := seedCatalogProduct(t, db, "Product A", 10.00, 1, 2.0)
	high := seedCatalogProduct(t, db, "Product B", 20.00, 1, 4.5)

	items, _, err := repo.ListCatalog(CatalogFilter{Sort: "rating", SortDesc: true})
	if err != nil {
		t.Fatalf("list catalog failed: %v", err)
	}
	if len(items) != 2 || items[0].ID != high.ID || items[1].ID != low.ID {
		t.Fatalf("rating sort want [%d %d] got %+v", high.ID, low.ID, items)
	}
}

func TestListCatalogReviewsSort(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	quiet := seedCatalogProduct(t, db, "Product A", 10.00, 1, 4.0)
	talked := seedCatalogProduct(t, db, "Product B", 20.00, 1, 4.0)
	for i := 0; i < 3; i++ {
		review := models.Review{ProductID: talked.ID, Author: "bob", Text: "good", Rate: 5}
		if err := db.Create(&review).Error; err != nil {
			t.Fatalf("seed review failed: %v", err)
		}
	}

	items, total, err := repo.ListCatalog(CatalogFilter{Sort: "reviews", SortDesc: true})
	if err != nil {
		t.Fatalf("list catalog failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("total want 2 got %d", total)
	}
	// 评论被连接进来也不能让商品行翻倍
	if len(items) != 2 || items[0].ID != talked.ID || items[1].ID != quiet.ID {
		t.Fatalf("reviews sort want [%d %d] got %+v", talked.ID, quiet.ID, items)
	}
}

func TestListCatalogPriceRange(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	seedCatalogProduct(t, db, "Product A", 5.00, 1, 3.0)
	inRange := seedCatalogProduct(t, db, "Product B", 15.00, 1, 3.0)
	seedCatalogProduct(t, db, "Product C", 50.00, 1, 3.0)

	minPrice := models.NewMoneyFromFloat(10)
	maxPrice := models.NewMoneyFromFloat(20)
	items, total, err := repo.ListCatalog(CatalogFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})
	if err != nil {
		t.Fatalf("list catalog failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != inRange.ID {
		t.Fatalf("price range want only %d, got total=%d items=%+v", inRange.ID, total, items)
	}
}

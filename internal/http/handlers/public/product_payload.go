package public

import "github.com/megano-shop/internal/models"

// TagPayload 标签响应结构
type TagPayload struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductPayload 商品响应结构（目录、购物车、订单行共用同一形状）
type ProductPayload struct {
	ID           uint             `json:"id"`
	Category     uint             `json:"category"`
	Price        models.Money     `json:"price"`
	Count        int              `json:"count"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	FreeDelivery bool             `json:"freeDelivery"`
	Images       models.ImageList `json:"images"`
	Tags         []TagPayload     `json:"tags"`
	Reviews      int64            `json:"reviews"`
	Rating       *float64         `json:"rating"`
}

// productPayload 构建商品响应。price 与 count 由调用方决定取现价
// 还是快照价（订单行里 count 表示购买数量而非库存）。
func productPayload(p *models.Product, price models.Money, count int, reviews int64) ProductPayload {
	tags := make([]TagPayload, 0, len(p.Tags))
	for i, name := range p.Tags {
		tags = append(tags, TagPayload{ID: i + 1, Name: name})
	}
	images := p.Images
	if images == nil {
		images = models.ImageList{}
	}
	return ProductPayload{
		ID:           p.ID,
		Category:     p.CategoryID,
		Price:        price,
		Count:        count,
		Title:        p.Name,
		Description:  p.Description,
		FreeDelivery: p.FreeDelivery,
		Images:       images,
		Tags:         tags,
		Reviews:      reviews,
		Rating:       p.Rating,
	}
}

func catalogProductPayload(p *models.Product, reviews int64) ProductPayload {
	return productPayload(p, p.Price, p.Count, reviews)
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// StringArray 字符串数组类型，用于存储 tags 等
type StringArray []string

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// Image 商品图片
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// ImageList 图片数组类型
type ImageList []Image

// Value 实现 driver.Valuer 接口
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan 实现 sql.Scanner 接口
func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = ImageList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Category 分类表
type Category struct {
	ID         uint           `gorm:"primarykey" json:"id"`              // 主键
	Name       string         `gorm:"not null" json:"name"`              // 分类名称
	IsFeatured bool           `gorm:"default:false;index" json:"-"`      // 是否首页推荐
	SortOrder  int            `gorm:"default:0;index" json:"sort_order"` // 排序权重
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

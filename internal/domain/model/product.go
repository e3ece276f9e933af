package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品。ストアフロントからは読み取り専用。
type Product struct {
	ID            string              `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string              `gorm:"type:varchar(255);not null" json:"title"`
	Slug          string              `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Description   string              `gorm:"type:text" json:"description"`
	Price         decimal.Decimal     `gorm:"type:numeric(10,2);not null" json:"price"`
	ComparePrice  decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"compare_price"`
	CategoryID    *string             `gorm:"type:uuid;index" json:"category_id"`
	Images        []string            `gorm:"serializer:json;type:jsonb" json:"images"`
	StockQuantity int64               `gorm:"not null;default:0" json:"stock_quantity"`
	SKU           string              `gorm:"type:varchar(100)" json:"sku"`
	IsActive      bool                `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time           `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 一覧・明細で使う先頭画像（無ければ空）
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

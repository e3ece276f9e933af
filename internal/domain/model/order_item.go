package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細
// 商品の現在値とは切り離したスナップショット。
type OrderItem struct {
	ID           string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID      string          `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID    string          `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductTitle string          `gorm:"type:varchar(255);not null" json:"product_title"`
	ProductImage string          `gorm:"type:text" json:"product_image"`
	Quantity     int64           `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	TotalPrice   decimal.Decimal `gorm:"type:numeric;not null" json:"total_price"`
	CreatedAt    time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

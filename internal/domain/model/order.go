package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const PaymentStatusPending PaymentStatus = "pending"

// 決済ゲートウェイは無いので固定
const PaymentMethodCard = "card"

// 注文ヘッダ。作成後は管理者のステータス変更以外で書き換えない。
type Order struct {
	ID              string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderNumber     string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_number"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	Subtotal        decimal.Decimal `gorm:"type:numeric;not null" json:"subtotal"`
	DiscountAmount  decimal.Decimal `gorm:"type:numeric;not null" json:"discount_amount"`
	TaxAmount       decimal.Decimal `gorm:"type:numeric;not null" json:"tax_amount"`
	ShippingAmount  decimal.Decimal `gorm:"type:numeric;not null" json:"shipping_amount"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric;not null" json:"total_amount"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null" json:"payment_status"`
	PaymentMethod   string          `gorm:"type:varchar(20);not null" json:"payment_method"`
	ShippingAddress ShippingAddress `gorm:"serializer:json;type:jsonb;not null" json:"shipping_address"`
	BillingAddress  ShippingAddress `gorm:"serializer:json;type:jsonb;not null" json:"billing_address"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

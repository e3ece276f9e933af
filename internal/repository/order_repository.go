package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *string
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	// 明細込み
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	// 明細込み・新しい順
	ListByUserID(ctx context.Context, userID string) ([]model.Order, error)
	Create(ctx context.Context, order *model.Order) error
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}

// 注文番号の採番。形式は採番側の責任で、呼び出し側は不透明な文字列として扱う。
type OrderNumberGenerator interface {
	Next(ctx context.Context) (string, error)
}

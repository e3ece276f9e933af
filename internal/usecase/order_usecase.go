package usecase

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/session"
)

// 注文履歴（自分の注文だけ）
type OrderUsecase struct {
	orders repo.OrderRepository
}

func NewOrderUsecase(orders repo.OrderRepository) *OrderUsecase {
	return &OrderUsecase{orders: orders}
}

// 新しい順・明細込み
func (u *OrderUsecase) ListMyOrders(ctx context.Context, sess session.Session) ([]model.Order, error) {
	userID, ok := sess.UserID()
	if !ok {
		return []model.Order{}, errSignInRequired
	}

	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return []model.Order{}, backendError(err)
	}
	return orders, nil
}

// 他人の注文は存在しない扱い（404）
func (u *OrderUsecase) GetMyOrder(ctx context.Context, sess session.Session, orderID string) (model.Order, error) {
	userID, ok := sess.UserID()
	if !ok {
		return model.Order{}, errSignInRequired
	}
	if orderID == "" {
		return model.Order{}, NewError(KindValidation, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewError(KindNotFound, "order not found")
	}
	if err != nil {
		return model.Order{}, backendError(err)
	}

	if o.UserID != userID {
		return model.Order{}, NewError(KindNotFound, "order not found")
	}
	return o, nil
}

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository/repotest"
	"storefront/internal/session"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededOrders() *repotest.Orders {
	orders := repotest.NewOrders()
	orders.Seed(
		model.Order{ID: "o-1", UserID: "user-alice", OrderNumber: "ORD-1", Status: model.OrderStatusPending, CreatedAt: testNow.Add(-time.Hour)},
		model.Order{ID: "o-2", UserID: "user-alice", OrderNumber: "ORD-2", Status: model.OrderStatusShipped, CreatedAt: testNow},
		model.Order{ID: "o-3", UserID: "user-bob", OrderNumber: "ORD-3", Status: model.OrderStatusPending, CreatedAt: testNow},
	)
	return orders
}

func TestOrders_ListMyOrders_NewestFirst(t *testing.T) {
	uc := usecase.NewOrderUsecase(seededOrders())

	out, err := uc.ListMyOrders(context.Background(), alice())

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "o-2", out[0].ID)
	assert.Equal(t, "o-1", out[1].ID)
}

func TestOrders_SignedOut(t *testing.T) {
	uc := usecase.NewOrderUsecase(seededOrders())

	_, err := uc.ListMyOrders(context.Background(), session.Anonymous())
	assert.True(t, usecase.IsKind(err, usecase.KindUnauthenticated))

	_, err = uc.GetMyOrder(context.Background(), session.Anonymous(), "o-1")
	assert.True(t, usecase.IsKind(err, usecase.KindUnauthenticated))
}

func TestOrders_GetMyOrder(t *testing.T) {
	uc := usecase.NewOrderUsecase(seededOrders())

	o, err := uc.GetMyOrder(context.Background(), alice(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", o.OrderNumber)
}

func TestOrders_GetMyOrder_OtherUsersOrderIsNotFound(t *testing.T) {
	uc := usecase.NewOrderUsecase(seededOrders())

	_, err := uc.GetMyOrder(context.Background(), alice(), "o-3")
	assert.True(t, usecase.IsKind(err, usecase.KindNotFound))

	_, err = uc.GetMyOrder(context.Background(), alice(), "missing")
	assert.True(t, usecase.IsKind(err, usecase.KindNotFound))
}

func TestOrders_BackendError(t *testing.T) {
	orders := seededOrders()
	orders.ListErr = errors.New("connection reset")
	uc := usecase.NewOrderUsecase(orders)

	out, err := uc.ListMyOrders(context.Background(), alice())

	assert.True(t, usecase.IsKind(err, usecase.KindBackend))
	assert.Empty(t, out)
}

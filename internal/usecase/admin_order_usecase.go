package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/session"

	"go.uber.org/zap"
)

// 許可するステータス遷移（delivered / cancelled は終端）
var orderTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:    {model.OrderStatusProcessing, model.OrderStatusCancelled},
	model.OrderStatusProcessing: {model.OrderStatusShipped, model.OrderStatusCancelled},
	model.OrderStatusShipped:    {model.OrderStatusDelivered},
}

func canTransition(from, to model.OrderStatus) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func parseOrderStatus(s string) (model.OrderStatus, bool) {
	st := model.OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case model.OrderStatusPending, model.OrderStatusProcessing, model.OrderStatusShipped,
		model.OrderStatusDelivered, model.OrderStatusCancelled:
		return st, true
	}
	return "", false
}

type AdminOrderUsecase struct {
	orders repo.OrderRepository
	audits repo.AuditLogRepository
	tx     repo.TransactionManager
	clock  Clock
	log    *zap.Logger
}

func NewAdminOrderUsecase(
	orders repo.OrderRepository,
	audits repo.AuditLogRepository,
	tx repo.TransactionManager,
	clock Clock,
	log *zap.Logger,
) *AdminOrderUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminOrderUsecase{orders: orders, audits: audits, tx: tx, clock: clock, log: log}
}

type AdminOrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type AdminUpdateOrderStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderListOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return AdminOrderListOutput{}, NewError(KindValidation, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return AdminOrderListOutput{}, NewError(KindValidation, "invalid limit")
	}
	if f.Status != "" {
		st, ok := parseOrderStatus(f.Status)
		if !ok {
			return AdminOrderListOutput{}, NewError(KindValidation, "invalid status")
		}
		f.Status = string(st)
	}

	orders, total, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return AdminOrderListOutput{}, backendError(err)
	}

	return AdminOrderListOutput{Items: orders, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// ステータス更新（監査ログも同じTxで書く）
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor session.Session, orderID string, in AdminUpdateOrderStatusInput) (model.Order, error) {
	actorID, ok := actor.UserID()
	if !ok {
		return model.Order{}, errSignInRequired
	}
	if !actor.IsAdmin() {
		return model.Order{}, NewError(KindForbidden, "forbidden")
	}
	if orderID == "" {
		return model.Order{}, NewError(KindValidation, "invalid id")
	}

	newStatus, ok := parseOrderStatus(in.Status)
	if !ok {
		return model.Order{}, NewError(KindValidation, "invalid status")
	}

	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "order not found")
		}
		if err != nil {
			return backendError(err)
		}

		// すでに同じなら何もしない
		if o.Status == newStatus {
			out = o
			return nil
		}
		if !canTransition(o.Status, newStatus) {
			return NewError(KindConflict, "cannot change "+string(o.Status)+" order to "+string(newStatus))
		}

		beforeStatus := o.Status
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewError(KindNotFound, "order not found")
			}
			return backendError(err)
		}

		// 監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON, _ := json.Marshal(map[string]string{"status": string(beforeStatus)})
		afterJSON, _ := json.Marshal(map[string]string{"status": string(newStatus)})
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   string(beforeJSON),
			AfterJSON:    string(afterJSON),
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return backendError(err)
		}

		o.Status = newStatus
		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	u.log.Info("order status updated",
		zap.String("actor_user_id", actorID),
		zap.String("order_id", orderID),
		zap.String("status", string(newStatus)),
	)
	return out, nil
}

// 注文ステータス変更の履歴（新しい順）
func (u *AdminOrderUsecase) ListStatusHistory(ctx context.Context, orderID string) ([]model.AuditLog, error) {
	filter := repo.AuditLogFilter{Limit: 200}
	if orderID != "" {
		filter.ResourceID = &orderID
	}
	resource := model.AuditResourceOrder
	filter.ResourceType = &resource

	logs, err := u.audits.List(ctx, filter)
	if err != nil {
		return []model.AuditLog{}, backendError(err)
	}
	return logs, nil
}

package usecase

import (
	"context"
	"errors"
	"sync"

	"storefront/internal/domain/model"
	"storefront/internal/metrics"
	"storefront/internal/pricing"
	repo "storefront/internal/repository"
	"storefront/internal/session"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CartDeps struct {
	Items   repo.CartItemRepository
	IDs     IDGenerator
	Clock   Clock
	Log     *zap.Logger
	Metrics *metrics.Metrics
}

// CartStore はセッション1つ分のカートの表示状態。
// 変更は必ずDBに書いてから読み直す（ClearCartだけは読み直さない）。
type CartStore struct {
	deps CartDeps

	mu    sync.RWMutex
	sess  session.Session
	items []model.CartItem
}

// 表示用のカート
type CartView struct {
	Items     []model.CartItem       `json:"items"`
	ItemCount int64                  `json:"item_count"`
	Summary   pricing.DisplaySummary `json:"summary"`
}

func NewCartStore(sess session.Session, deps CartDeps) *CartStore {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &CartStore{deps: deps, sess: sess, items: []model.CartItem{}}
}

// Load はDBから読み直す。失敗時はログに残し、前の状態のままエラーを返す。
func (s *CartStore) Load(ctx context.Context) error {
	userID, ok := s.session().UserID()
	if !ok {
		s.clearLocal()
		return nil
	}

	items, err := s.deps.Items.ListByUserID(ctx, userID)
	if err != nil {
		s.deps.Log.Warn("fetch cart failed", zap.String("user_id", userID), zap.Error(err))
		return backendError(err)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// 変更後の読み直し。書き込みは済んでいるので失敗はログだけ
func (s *CartStore) refetch(ctx context.Context) {
	_ = s.Load(ctx)
}

// 同じ商品は数量を加算する（DB側で原子的に）
func (s *CartStore) AddToCart(ctx context.Context, productID string, quantity int64) error {
	userID, ok := s.session().UserID()
	if !ok {
		return NewError(KindUnauthenticated, "please sign in to add items to cart")
	}
	if productID == "" {
		return NewError(KindValidation, "invalid product_id")
	}
	if quantity < 1 {
		return NewError(KindValidation, "invalid quantity")
	}

	now := s.deps.Clock.Now()
	err := s.deps.Items.IncrementOrCreate(ctx, model.CartItem{
		ID:        s.deps.IDs.NewID(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	})
	s.deps.Metrics.CartMutation("add", err)
	if errors.Is(err, repo.ErrNotFound) {
		return NewError(KindNotFound, "product not found")
	}
	if err != nil {
		s.deps.Log.Error("add to cart failed", zap.String("user_id", userID), zap.String("product_id", productID), zap.Error(err))
		return backendError(err)
	}

	s.refetch(ctx)
	return nil
}

// 0以下は削除と同じ
func (s *CartStore) UpdateQuantity(ctx context.Context, cartItemID string, quantity int64) error {
	userID, ok := s.session().UserID()
	if !ok {
		return nil
	}
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, cartItemID)
	}

	err := s.deps.Items.UpdateQuantity(ctx, userID, cartItemID, quantity, s.deps.Clock.Now())
	s.deps.Metrics.CartMutation("update", err)
	if errors.Is(err, repo.ErrNotFound) {
		return NewError(KindNotFound, "cart item not found")
	}
	if err != nil {
		s.deps.Log.Error("update cart quantity failed", zap.String("cart_item_id", cartItemID), zap.Error(err))
		return backendError(err)
	}

	s.refetch(ctx)
	return nil
}

func (s *CartStore) RemoveFromCart(ctx context.Context, cartItemID string) error {
	userID, ok := s.session().UserID()
	if !ok {
		return nil
	}

	err := s.deps.Items.DeleteByID(ctx, userID, cartItemID)
	s.deps.Metrics.CartMutation("remove", err)
	if errors.Is(err, repo.ErrNotFound) {
		return NewError(KindNotFound, "cart item not found")
	}
	if err != nil {
		s.deps.Log.Error("remove from cart failed", zap.String("cart_item_id", cartItemID), zap.Error(err))
		return backendError(err)
	}

	s.refetch(ctx)
	return nil
}

// 何度呼んでも空になるだけ
func (s *CartStore) ClearCart(ctx context.Context) error {
	userID, ok := s.session().UserID()
	if !ok {
		return nil
	}

	err := s.deps.Items.DeleteByUserID(ctx, userID)
	s.deps.Metrics.CartMutation("clear", err)
	if err != nil {
		s.deps.Log.Error("clear cart failed", zap.String("user_id", userID), zap.Error(err))
		return backendError(err)
	}

	s.clearLocal()
	return nil
}

// SetSession はログイン状態の変化を反映する。
// ログアウトはメモリだけ空にし、ログインしたら読み直す。
func (s *CartStore) SetSession(ctx context.Context, sess session.Session) error {
	s.mu.Lock()
	s.sess = sess
	s.mu.Unlock()

	if !sess.Authenticated() {
		s.clearLocal()
		return nil
	}
	return s.Load(ctx)
}

func (s *CartStore) Session() session.Session {
	return s.session()
}

// Items は現在の明細のコピー
func (s *CartStore) Items() []model.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// 商品が取れなかった明細は0円で数える
func (s *CartStore) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, it := range s.items {
		if it.Product == nil {
			continue
		}
		total = total.Add(pricing.LineTotal(it.Product.Price, it.Quantity))
	}
	return total
}

func (s *CartStore) ItemCount() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *CartStore) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0
}

func (s *CartStore) Summary() pricing.Summary {
	return pricing.Calculate(s.Total())
}

func (s *CartStore) View() CartView {
	return CartView{
		Items:     s.Items(),
		ItemCount: s.ItemCount(),
		Summary:   s.Summary().Display(),
	}
}

func (s *CartStore) session() session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess
}

func (s *CartStore) clearLocal() {
	s.mu.Lock()
	s.items = []model.CartItem{}
	s.mu.Unlock()
}

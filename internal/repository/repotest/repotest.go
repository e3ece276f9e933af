// Package repotest はテスト用のインメモリ repository。
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// CartItems は cart_items と products のJOINを真似る（公開商品だけ付く）。
type CartItems struct {
	mu       sync.Mutex
	Products map[string]model.Product
	items    []model.CartItem

	ListErr      error
	IncrementErr error
	UpdateErr    error
	DeleteErr    error
	ClearErr     error

	ListCalls  int
	ClearCalls int
}

func NewCartItems(products ...model.Product) *CartItems {
	c := &CartItems{Products: map[string]model.Product{}}
	for _, p := range products {
		c.Products[p.ID] = p
	}
	return c
}

func (c *CartItems) ListByUserID(ctx context.Context, userID string) ([]model.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ListCalls++
	if c.ListErr != nil {
		return []model.CartItem{}, c.ListErr
	}

	out := []model.CartItem{}
	for _, it := range c.items {
		if it.UserID != userID {
			continue
		}
		if p, ok := c.Products[it.ProductID]; ok && p.IsActive {
			p := p
			it.Product = &p
		}
		out = append(out, it)
	}
	return out, nil
}

func (c *CartItems) IncrementOrCreate(ctx context.Context, item model.CartItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.IncrementErr != nil {
		return c.IncrementErr
	}
	if _, ok := c.Products[item.ProductID]; !ok {
		return fmt.Errorf("%w: cart_items_product_id_fkey", repo.ErrNotFound)
	}

	for i := range c.items {
		if c.items[i].UserID == item.UserID && c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity += item.Quantity
			c.items[i].UpdatedAt = item.UpdatedAt
			return nil
		}
	}
	item.Product = nil
	c.items = append(c.items, item)
	return nil
}

func (c *CartItems) UpdateQuantity(ctx context.Context, userID, cartItemID string, qty int64, now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.UpdateErr != nil {
		return c.UpdateErr
	}
	for i := range c.items {
		if c.items[i].ID == cartItemID && c.items[i].UserID == userID {
			c.items[i].Quantity = qty
			c.items[i].UpdatedAt = now
			return nil
		}
	}
	return repo.ErrNotFound
}

func (c *CartItems) DeleteByID(ctx context.Context, userID, cartItemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.DeleteErr != nil {
		return c.DeleteErr
	}
	for i := range c.items {
		if c.items[i].ID == cartItemID && c.items[i].UserID == userID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (c *CartItems) DeleteByUserID(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ClearCalls++
	if c.ClearErr != nil {
		return c.ClearErr
	}
	kept := c.items[:0]
	for _, it := range c.items {
		if it.UserID != userID {
			kept = append(kept, it)
		}
	}
	c.items = kept
	return nil
}

// Count はユーザーの行数（商品JOIN無し）
func (c *CartItems) Count(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		if it.UserID == userID {
			n++
		}
	}
	return n
}

// Deactivate は商品を非公開にする（明細は残る）。
func (c *CartItems) Deactivate(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.Products[productID]; ok {
		p.IsActive = false
		c.Products[productID] = p
	}
}

// Seed は行を直接入れる。
func (c *CartItems) Seed(items ...model.CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, items...)
}

func (c *CartItems) snapshot() func() {
	c.mu.Lock()
	saved := append([]model.CartItem(nil), c.items...)
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		c.items = saved
		c.mu.Unlock()
	}
}

// Orders は orders（明細は OrderItems から付ける）
type Orders struct {
	mu     sync.Mutex
	orders map[string]model.Order
	Items  *OrderItems

	CreateErr error
	FindErr   error
	ListErr   error
	UpdateErr error

	CreateCalls int
}

func NewOrders() *Orders {
	o := &Orders{orders: map[string]model.Order{}}
	o.Items = &OrderItems{items: map[string][]model.OrderItem{}}
	return o
}

func (o *Orders) Create(ctx context.Context, order *model.Order) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.CreateCalls++
	if o.CreateErr != nil {
		return o.CreateErr
	}
	for _, ex := range o.orders {
		if ex.OrderNumber == order.OrderNumber {
			return fmt.Errorf("%w: orders_order_number_key", repo.ErrConflict)
		}
	}
	stored := *order
	stored.Items = nil
	o.orders[order.ID] = stored
	return nil
}

func (o *Orders) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.FindErr != nil {
		return model.Order{}, o.FindErr
	}
	ord, ok := o.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	ord.Items = o.Items.list(orderID)
	return ord, nil
}

func (o *Orders) ListByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ListErr != nil {
		return []model.Order{}, o.ListErr
	}
	out := []model.Order{}
	for _, ord := range o.orders {
		if ord.UserID == userID {
			ord.Items = o.Items.list(ord.ID)
			out = append(out, ord)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (o *Orders) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.UpdateErr != nil {
		return o.UpdateErr
	}
	ord, ok := o.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	ord.Status = status
	o.orders[orderID] = ord
	return nil
}

func (o *Orders) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ListErr != nil {
		return []model.Order{}, 0, o.ListErr
	}
	matched := []model.Order{}
	for _, ord := range o.orders {
		if f.Status != "" && string(ord.Status) != f.Status {
			continue
		}
		if f.UserID != nil && ord.UserID != *f.UserID {
			continue
		}
		ord.Items = o.Items.list(ord.ID)
		matched = append(matched, ord)
	}
	sortNewestFirst(matched)

	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// Seed は注文を直接入れる。
func (o *Orders) Seed(orders ...model.Order) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, ord := range orders {
		o.orders[ord.ID] = ord
	}
}

func (o *Orders) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.orders)
}

func (o *Orders) snapshot() func() {
	o.mu.Lock()
	saved := make(map[string]model.Order, len(o.orders))
	for k, v := range o.orders {
		saved[k] = v
	}
	o.mu.Unlock()
	restoreItems := o.Items.snapshot()
	return func() {
		o.mu.Lock()
		o.orders = saved
		o.mu.Unlock()
		restoreItems()
	}
}

func sortNewestFirst(orders []model.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

type OrderItems struct {
	mu    sync.Mutex
	items map[string][]model.OrderItem

	CreateErr error
}

func (r *OrderItems) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	for _, it := range items {
		it.OrderID = orderID
		r.items[orderID] = append(r.items[orderID], it)
	}
	return nil
}

func (r *OrderItems) list(orderID string) []model.OrderItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.OrderItem(nil), r.items[orderID]...)
}

func (r *OrderItems) snapshot() func() {
	r.mu.Lock()
	saved := make(map[string][]model.OrderItem, len(r.items))
	for k, v := range r.items {
		saved[k] = append([]model.OrderItem(nil), v...)
	}
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		r.items = saved
		r.mu.Unlock()
	}
}

type AuditLogs struct {
	mu   sync.Mutex
	logs []model.AuditLog

	CreateErr error
}

func (a *AuditLogs) Create(ctx context.Context, log model.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.CreateErr != nil {
		return a.CreateErr
	}
	log.ID = int64(len(a.logs) + 1)
	a.logs = append(a.logs, log)
	return nil
}

func (a *AuditLogs) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []model.AuditLog{}
	for i := len(a.logs) - 1; i >= 0; i-- {
		l := a.logs[i]
		if f.ResourceID != nil && l.ResourceID != *f.ResourceID {
			continue
		}
		if f.ResourceType != nil && l.ResourceType != *f.ResourceType {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (a *AuditLogs) All() []model.AuditLog {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.AuditLog(nil), a.logs...)
}

func (a *AuditLogs) snapshot() func() {
	a.mu.Lock()
	saved := append([]model.AuditLog(nil), a.logs...)
	a.mu.Unlock()
	return func() {
		a.mu.Lock()
		a.logs = saved
		a.mu.Unlock()
	}
}

// TxManager はエラー時に各フェイクを元に戻す。
type TxManager struct {
	OrdersRepo    *Orders
	CartItemsRepo *CartItems
	AuditLogsRepo *AuditLogs

	Calls int
}

func NewTxManager(orders *Orders, cartItems *CartItems, audits *AuditLogs) *TxManager {
	if audits == nil {
		audits = &AuditLogs{}
	}
	return &TxManager{OrdersRepo: orders, CartItemsRepo: cartItems, AuditLogsRepo: audits}
}

type txRepos struct{ tm *TxManager }

func (r txRepos) Orders() repo.OrderRepository         { return r.tm.OrdersRepo }
func (r txRepos) OrderItems() repo.OrderItemRepository { return r.tm.OrdersRepo.Items }
func (r txRepos) CartItems() repo.CartItemRepository   { return r.tm.CartItemsRepo }
func (r txRepos) AuditLogs() repo.AuditLogRepository   { return r.tm.AuditLogsRepo }

func (tm *TxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	tm.Calls++

	restores := []func(){tm.OrdersRepo.snapshot(), tm.AuditLogsRepo.snapshot()}
	if tm.CartItemsRepo != nil {
		restores = append(restores, tm.CartItemsRepo.snapshot())
	}

	if err := fn(txRepos{tm: tm}); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// OrderNumbers は ORD-TEST-000001 から順に返す。
type OrderNumbers struct {
	mu    sync.Mutex
	n     int
	Err   error
	Calls int
}

func (g *OrderNumbers) Next(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls++
	if g.Err != nil {
		return "", g.Err
	}
	g.n++
	return fmt.Sprintf("ORD-TEST-%06d", g.n), nil
}

// Users はメールで引ける users。
type Users struct {
	mu    sync.Mutex
	users map[string]*model.User

	FindErr error
}

func NewUsers(users ...model.User) *Users {
	u := &Users{users: map[string]*model.User{}}
	for i := range users {
		user := users[i]
		u.users[user.ID] = &user
	}
	return u
}

func (u *Users) Create(ctx context.Context, user *model.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, ex := range u.users {
		if ex.Email == user.Email {
			return fmt.Errorf("%w: users_email_key", repo.ErrConflict)
		}
	}
	cp := *user
	u.users[user.ID] = &cp
	return nil
}

func (u *Users) FindByID(ctx context.Context, userID string) (*model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.FindErr != nil {
		return nil, u.FindErr
	}
	user, ok := u.users[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.FindErr != nil {
		return nil, u.FindErr
	}
	for _, user := range u.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (u *Users) Update(ctx context.Context, user *model.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.users[user.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *user
	u.users[user.ID] = &cp
	return nil
}

func (u *Users) IncrementTokenVersion(ctx context.Context, userID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[userID]
	if !ok {
		return repo.ErrNotFound
	}
	user.TokenVersion++
	return nil
}

// SeqIDs は id-1, id-2, ... を返す。
type SeqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *SeqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// FixedClock は常に同じ時刻を返す。
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

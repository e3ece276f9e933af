package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/metrics"
	"storefront/internal/pricing"
	repo "storefront/internal/repository"
	"storefront/internal/validator"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CheckoutState string

const (
	CheckoutCollecting CheckoutState = "collecting"
	CheckoutSubmitting CheckoutState = "submitting"
	CheckoutComplete   CheckoutState = "complete"
	CheckoutFailed     CheckoutState = "failed"
)

// 遷移先
const (
	RedirectCart   = "/cart"
	RedirectOrders = "/orders"
)

const checkoutFailedMessage = "Failed to place order. Please try again."

// 配送先フォーム（全項目必須）
type ShippingDetails struct {
	FullName string `json:"full_name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,notblank"`
	Phone    string `json:"phone" validate:"required,notblank"`
	Address  string `json:"address" validate:"required,notblank"`
	City     string `json:"city" validate:"required,notblank"`
	State    string `json:"state" validate:"required,notblank"`
	ZipCode  string `json:"zip_code" validate:"required,notblank"`
	Country  string `json:"country" validate:"required,notblank"`
}

func (d ShippingDetails) address() model.ShippingAddress {
	return model.ShippingAddress{
		Name:    d.FullName,
		Phone:   d.Phone,
		Address: d.Address,
		City:    d.City,
		State:   d.State,
		ZipCode: d.ZipCode,
		Country: d.Country,
	}
}

type CheckoutResult struct {
	Order       model.Order            `json:"order"`
	OrderNumber string                 `json:"order_number"`
	Summary     pricing.DisplaySummary `json:"summary"`
	Message     string                 `json:"message"`
	Redirect    string                 `json:"redirect"`
}

type StructValidator interface {
	Validate(i interface{}) error
}

type CheckoutDeps struct {
	Tx           repo.TransactionManager
	OrderNumbers repo.OrderNumberGenerator
	IDs          IDGenerator
	Clock        Clock
	Validator    StructValidator
	Log          *zap.Logger
	Metrics      *metrics.Metrics
}

// Checkout はカートから注文を作る。
// Collecting → Submitting → Complete / Failed（Failed からは再送できる）
type Checkout struct {
	cart *CartStore
	deps CheckoutDeps

	mu    sync.Mutex
	state CheckoutState
}

func NewCheckout(cart *CartStore, deps CheckoutDeps) *Checkout {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	return &Checkout{cart: cart, deps: deps, state: CheckoutCollecting}
}

func (c *Checkout) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Enter はカートを読み、空ならカート画面へ戻す。
// 未ログインのカートは常に空なので同じくカート画面へ。
func (c *Checkout) Enter(ctx context.Context) error {
	if err := c.cart.Load(ctx); err != nil {
		return err
	}
	if c.cart.IsEmpty() {
		return cartEmptyError()
	}
	return nil
}

func (c *Checkout) Summary() pricing.Summary {
	return c.cart.Summary()
}

// Submit は注文を作る。金額はここでカートから計算し直す。
func (c *Checkout) Submit(ctx context.Context, details ShippingDetails) (CheckoutResult, error) {
	userID, ok := c.cart.Session().UserID()
	if !ok {
		c.deps.Metrics.Checkout(metrics.CheckoutRejected)
		return CheckoutResult{}, NewError(KindUnauthenticated, "please sign in to place an order")
	}
	if err := c.deps.Validator.Validate(details); err != nil {
		c.deps.Metrics.Checkout(metrics.CheckoutRejected)
		return CheckoutResult{}, WrapError(KindValidation, validationMessage(err), err)
	}

	if err := c.begin(); err != nil {
		return CheckoutResult{}, err
	}

	if err := c.cart.Load(ctx); err != nil {
		return CheckoutResult{}, c.fail(userID, "fetch cart", err)
	}
	if c.cart.IsEmpty() {
		c.setState(CheckoutCollecting)
		c.deps.Metrics.Checkout(metrics.CheckoutRejected)
		return CheckoutResult{}, cartEmptyError()
	}

	lines := c.cart.Items()
	summary := pricing.Calculate(c.cart.Total())

	number, err := c.deps.OrderNumbers.Next(ctx)
	if err != nil {
		return CheckoutResult{}, c.fail(userID, "order number", err)
	}

	now := c.deps.Clock.Now()
	addr := details.address()
	order := model.Order{
		ID:              c.deps.IDs.NewID(),
		UserID:          userID,
		OrderNumber:     number,
		Status:          model.OrderStatusPending,
		Subtotal:        summary.Subtotal,
		DiscountAmount:  decimal.Zero,
		TaxAmount:       summary.Tax,
		ShippingAmount:  summary.Shipping,
		TotalAmount:     summary.Total,
		PaymentStatus:   model.PaymentStatusPending,
		PaymentMethod:   model.PaymentMethodCard,
		ShippingAddress: addr,
		BillingAddress:  addr,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	items := c.snapshotItems(order.ID, lines, now)

	//注文・明細・カート削除は1トランザクション
	err = c.deps.Tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().Create(ctx, &order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := r.OrderItems().CreateBulk(ctx, order.ID, items); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}
		if err := r.CartItems().DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return CheckoutResult{}, c.fail(userID, "place order", err)
	}

	c.cart.clearLocal()
	c.setState(CheckoutComplete)
	c.deps.Metrics.Checkout(metrics.CheckoutSucceeded)
	c.deps.Log.Info("order placed",
		zap.String("user_id", userID),
		zap.String("order_id", order.ID),
		zap.String("order_number", number),
		zap.String("total", summary.Total.String()),
	)

	order.Items = items
	return CheckoutResult{
		Order:       order,
		OrderNumber: number,
		Summary:     summary.Display(),
		Message:     "Order placed successfully! Order number: " + number,
		Redirect:    RedirectOrders,
	}, nil
}

// 明細は商品の現在値を写し取る（商品が取れない行は0円・空タイトル）
func (c *Checkout) snapshotItems(orderID string, lines []model.CartItem, now time.Time) []model.OrderItem {
	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		it := model.OrderItem{
			ID:        c.deps.IDs.NewID(),
			OrderID:   orderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: decimal.Zero,
			CreatedAt: now,
		}
		if line.Product != nil {
			it.ProductTitle = line.Product.Title
			it.ProductImage = line.Product.PrimaryImage()
			it.UnitPrice = line.Product.Price
		}
		it.TotalPrice = pricing.LineTotal(it.UnitPrice, it.Quantity)
		items = append(items, it)
	}
	return items
}

func (c *Checkout) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case CheckoutCollecting, CheckoutFailed:
		c.state = CheckoutSubmitting
		return nil
	case CheckoutSubmitting:
		return NewError(KindConflict, "order is already being placed")
	default:
		return NewError(KindConflict, "order already placed")
	}
}

func (c *Checkout) setState(s CheckoutState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// 失敗は原因をログに残し、利用者には共通メッセージだけ返す。
func (c *Checkout) fail(userID, step string, err error) error {
	c.setState(CheckoutFailed)
	c.deps.Metrics.Checkout(metrics.CheckoutFailed)
	c.deps.Log.Error("checkout failed",
		zap.String("user_id", userID),
		zap.String("step", step),
		zap.Error(err),
	)
	return WrapError(KindBackend, checkoutFailedMessage, err)
}

func cartEmptyError() error {
	return &Error{Kind: KindCartEmpty, Message: "cart is empty", Redirect: RedirectCart}
}

func validationMessage(err error) string {
	if ve, ok := validator.AsValidationError(err); ok {
		return ve.Error()
	}
	return "invalid input"
}

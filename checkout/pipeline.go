package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Athah222/Label-Athah/events"
	"github.com/Athah222/Label-Athah/gateway"
	"github.com/Athah222/Label-Athah/models"
	"github.com/Athah222/Label-Athah/notify"
	"github.com/Athah222/Label-Athah/store"
)

var (
	ErrInvalidAddress    = errors.New("all shipping address fields are required")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrAttemptNotFound   = errors.New("checkout attempt not found or expired")
	ErrSignatureMismatch = errors.New("payment verification failed: signature mismatch")
	// ErrPersistence means payment was captured but the order write failed.
	// There is no automatic reconciliation; the user must contact support.
	ErrPersistence = errors.New("payment captured but order could not be saved")
)

const (
	freeShippingThreshold = 5000.0
	flatShippingFee       = 50.0
	defaultCallbackWait   = 15 * time.Minute
)

// ShippingCost is free above the threshold, a flat fee otherwise.
func ShippingCost(subtotal float64) float64 {
	if subtotal > freeShippingThreshold {
		return 0
	}
	return flatShippingFee
}

// MinorUnits converts a rupee amount to paise for the gateway.
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CouponResolver is the slice of coupon.Resolver the pipeline needs.
type CouponResolver interface {
	Apply(ctx context.Context, code string, subtotal float64) (models.Coupon, float64, error)
}

// OrderRepo persists completed checkouts. Persist must be idempotent on the
// gateway payment id: a retry returns the already-written order.
type OrderRepo interface {
	Persist(ctx context.Context, order models.Order) (models.Order, error)
	UserEmail(ctx context.Context, userID string) (string, error)
}

// Broadcaster pushes a persisted order to live admin dashboards.
type Broadcaster interface {
	BroadcastOrder(order models.Order)
}

// PaymentCallback carries what the hosted payment UI reports back after the
// user completes (or forges) a payment.
type PaymentCallback struct {
	GatewayOrderID   string `json:"razorpay_order_id" binding:"required"`
	GatewayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature        string `json:"razorpay_signature" binding:"required"`
}

// BeginResult is handed to the client so it can open the payment UI.
type BeginResult struct {
	AttemptID   string  `json:"attempt_id"`
	OrderID     string  `json:"gateway_order_id"`
	AmountMinor int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Subtotal    float64 `json:"subtotal"`
	Shipping    float64 `json:"shipping_cost"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

// Result is the outcome of a confirmed attempt.
type Result struct {
	Order models.Order
	Err   error
}

type attempt struct {
	id          string
	userID      string
	lines       []store.CartLine
	address     models.Address
	couponCode  string
	subtotal    float64
	shipping    float64
	discount    float64
	total       float64
	remoteOrder gateway.RemoteOrder
	callback    chan PaymentCallback
	result      chan Result
}

// Pipeline drives a single checkout attempt through
// address validation -> remote order -> payment callback -> signature
// verification -> order persistence -> best-effort notification.
// One goroutine per attempt suspends on the callback channel; an abandoned
// payment UI simply times the attempt out with no side effects.
type Pipeline struct {
	repo      OrderRepo
	gw        gateway.Client
	coupons   CouponResolver
	carts     store.Backend
	mailer    notify.Mailer
	publisher events.Publisher
	hub       Broadcaster
	wait      time.Duration

	mu       sync.Mutex
	attempts map[string]*attempt
}

func NewPipeline(repo OrderRepo, gw gateway.Client, coupons CouponResolver, carts store.Backend) *Pipeline {
	return &Pipeline{
		repo:     repo,
		gw:       gw,
		coupons:  coupons,
		carts:    carts,
		wait:     defaultCallbackWait,
		attempts: make(map[string]*attempt),
	}
}

// WithNotifiers attaches the best-effort fan-out targets. Any of them may be
// nil; the pipeline skips what is missing.
func (p *Pipeline) WithNotifiers(mailer notify.Mailer, publisher events.Publisher, hub Broadcaster) *Pipeline {
	p.mailer = mailer
	p.publisher = publisher
	p.hub = hub
	return p
}

// WithCallbackWait bounds how long an attempt waits for the payment UI.
func (p *Pipeline) WithCallbackWait(d time.Duration) *Pipeline {
	if d > 0 {
		p.wait = d
	}
	return p
}

// Begin validates the address, prices the cart and creates the remote
// gateway order. No order exists on our side yet; the attempt is held in
// memory until Confirm delivers the payment callback or the wait expires.
func (p *Pipeline) Begin(ctx context.Context, userID string, address models.Address, couponCode string) (BeginResult, error) {
	if !address.Complete() {
		return BeginResult{}, ErrInvalidAddress
	}

	cart := store.Load(userID, p.carts)
	lines := cart.Lines()
	if len(lines) == 0 {
		return BeginResult{}, ErrEmptyCart
	}
	_, subtotal := cart.Totals()

	shipping := ShippingCost(subtotal)
	var discount float64
	if couponCode != "" {
		var err error
		_, discount, err = p.coupons.Apply(ctx, couponCode, subtotal)
		if err != nil {
			return BeginResult{}, err
		}
	}
	total := subtotal + shipping - discount

	receipt := fmt.Sprintf("receipt_order_%d", time.Now().UnixMilli())
	remote, err := p.gw.CreateOrder(ctx, MinorUnits(total), "INR", receipt)
	if err != nil {
		return BeginResult{}, err
	}

	a := &attempt{
		id:          uuid.NewString(),
		userID:      userID,
		lines:       lines,
		address:     address,
		couponCode:  couponCode,
		subtotal:    subtotal,
		shipping:    shipping,
		discount:    discount,
		total:       total,
		remoteOrder: remote,
		callback:    make(chan PaymentCallback, 1),
		result:      make(chan Result, 1),
	}

	p.mu.Lock()
	p.attempts[a.id] = a
	p.mu.Unlock()
	go p.await(a)

	log.Info().
		Str("attempt_id", a.id).
		Str("user_id", userID).
		Str("gateway_order_id", remote.ID).
		Float64("total", total).
		Msg("checkout attempt started")

	return BeginResult{
		AttemptID:   a.id,
		OrderID:     remote.ID,
		AmountMinor: remote.Amount,
		Currency:    remote.Currency,
		Subtotal:    subtotal,
		Shipping:    shipping,
		Discount:    discount,
		Total:       total,
	}, nil
}

// Confirm delivers the payment callback to the suspended attempt and waits
// for the outcome.
func (p *Pipeline) Confirm(ctx context.Context, attemptID string, cb PaymentCallback) (models.Order, error) {
	p.mu.Lock()
	a, ok := p.attempts[attemptID]
	p.mu.Unlock()
	if !ok {
		return models.Order{}, ErrAttemptNotFound
	}

	select {
	case a.callback <- cb:
	default:
		// Callback already delivered once; this is a duplicate confirm.
		return models.Order{}, ErrAttemptNotFound
	}

	select {
	case res := <-a.result:
		return res.Order, res.Err
	case <-ctx.Done():
		return models.Order{}, ctx.Err()
	}
}

// await is the suspension point of the pipeline. The attempt holds no
// external resources, so an expired wait just drops it.
func (p *Pipeline) await(a *attempt) {
	defer func() {
		p.mu.Lock()
		delete(p.attempts, a.id)
		p.mu.Unlock()
	}()

	select {
	case cb := <-a.callback:
		a.result <- p.complete(a, cb)
	case <-time.After(p.wait):
		// A confirm that lands between the timeout firing and the attempt
		// being deleted still gets an answer off this buffered channel.
		a.result <- Result{Err: ErrAttemptNotFound}
		log.Info().Str("attempt_id", a.id).Msg("checkout attempt abandoned, discarding")
	}
}

func (p *Pipeline) complete(a *attempt, cb PaymentCallback) Result {
	if cb.GatewayOrderID != a.remoteOrder.ID ||
		!p.gw.VerifySignature(cb.GatewayOrderID, cb.GatewayPaymentID, cb.Signature) {
		log.Warn().
			Str("attempt_id", a.id).
			Str("gateway_order_id", cb.GatewayOrderID).
			Msg("payment signature mismatch, no order written")
		return Result{Err: ErrSignatureMismatch}
	}

	items := make([]models.OrderItem, 0, len(a.lines))
	for _, line := range a.lines {
		items = append(items, models.OrderItem{
			ProductID:    line.Product.ID,
			ProductName:  line.Product.Name,
			ProductImage: line.Product.Image,
			Price:        line.Product.Price,
			Size:         line.Size,
			Quantity:     line.Quantity,
		})
	}

	order := models.Order{
		OrderRef:         time.Now().Format("20060102150405") + "-" + uuid.NewString(),
		UserID:           a.userID,
		Items:            items,
		Subtotal:         a.subtotal,
		ShippingCost:     a.shipping,
		Discount:         a.discount,
		CouponCode:       a.couponCode,
		TotalAmount:      a.total,
		Status:           models.OrderStatusProcessing,
		ShippingAddress:  a.address,
		BillingAddress:   a.address,
		GatewayOrderID:   cb.GatewayOrderID,
		GatewayPaymentID: cb.GatewayPaymentID,
		CreatedAt:        time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	saved, err := p.repo.Persist(ctx, order)
	if err != nil {
		// Money has moved; do not clear the cart, surface "contact support".
		log.Error().Err(err).
			Str("gateway_payment_id", cb.GatewayPaymentID).
			Msg("order persistence failed after captured payment")
		return Result{Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
	}

	if err := store.Load(a.userID, p.carts).Clear(); err != nil {
		log.Warn().Err(err).Str("user_id", a.userID).Msg("failed to clear cart after checkout")
	}

	go p.notify(saved)

	log.Info().
		Str("order_ref", saved.OrderRef).
		Str("gateway_payment_id", saved.GatewayPaymentID).
		Float64("total", saved.TotalAmount).
		Msg("order persisted")
	return Result{Order: saved}
}

// notify fans the new order out to email, the event bus and the live feed.
// Everything here is fire-and-forget.
func (p *Pipeline) notify(order models.Order) {
	if p.hub != nil {
		p.hub.BroadcastOrder(order)
	}
	if p.publisher != nil {
		if err := p.publisher.PublishOrderEvent(events.RouteOrderPlaced, order); err != nil {
			log.Warn().Err(err).Str("order_ref", order.OrderRef).Msg("order.placed publish failed")
		}
	}
	if p.mailer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		email, err := p.repo.UserEmail(ctx, order.UserID)
		cancel()
		if err != nil || email == "" {
			log.Warn().Err(err).Str("user_id", order.UserID).Msg("no email for confirmation")
			return
		}
		if err := p.mailer.SendOrderConfirmation(order, email); err != nil {
			log.Warn().Err(err).Str("order_ref", order.OrderRef).Msg("confirmation email failed")
		}
	}
}

package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sanmiadewale/modaville-backend/internal/cart"
	"github.com/sanmiadewale/modaville-backend/internal/orders"
	"github.com/sanmiadewale/modaville-backend/pkg/config"
	"github.com/sanmiadewale/modaville-backend/pkg/db/models"
	"github.com/sanmiadewale/modaville-backend/pkg/enums"
	pkgerrors "github.com/sanmiadewale/modaville-backend/pkg/errors"
	"github.com/sanmiadewale/modaville-backend/pkg/metrics"
	"github.com/sanmiadewale/modaville-backend/pkg/paystack"
	"github.com/sanmiadewale/modaville-backend/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// paymentMethod tags every order produced by this flow.
const paymentMethod = "paystack"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// gateway is the slice of the Paystack client the reconciler needs.
type gateway interface {
	InitializeTransaction(ctx context.Context, req paystack.InitializeTransactionRequest) (*paystack.InitializedTransaction, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.VerifiedTransaction, error)
}

// cartAccess is the slice of the cart service checkout needs: a snapshot to
// freeze at Begin time and a clear once the order is confirmed.
type cartAccess interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*cart.DTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// pendingAccess is the Begin/Confirm hand-off storage.
type pendingAccess interface {
	Save(ctx context.Context, pending *PendingOrder) error
	Load(ctx context.Context, userID uuid.UUID) (*PendingOrder, error)
	TempReference(ctx context.Context, userID uuid.UUID) (string, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// BeginInput starts a checkout for the authenticated shopper.
type BeginInput struct {
	UserID          uuid.UUID
	Email           string
	ShippingAddress types.ShippingAddress
}

// BeginResult hands the hosted payment page back to the client.
type BeginResult struct {
	AuthorizationURL string          `json:"authorization_url"`
	AccessCode       string          `json:"access_code"`
	Reference        string          `json:"reference"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
}

// ConfirmInput identifies which transaction to reconcile and which path
// asked for it. The webhook path supplies the user id from transaction
// metadata rather than an authenticated session.
type ConfirmInput struct {
	UserID    uuid.UUID
	Reference string
	Trigger   string
}

// ConfirmResult is the reconciled order. Replayed marks confirmations that
// found the order already persisted by the racing trigger.
type ConfirmResult struct {
	Order    *orders.OrderDTO `json:"order"`
	Replayed bool             `json:"replayed"`
}

// Service drives a cart snapshot through payment to a persisted order.
type Service interface {
	Begin(ctx context.Context, input BeginInput) (*BeginResult, error)
	Confirm(ctx context.Context, input ConfirmInput) (*ConfirmResult, error)
	Abandon(ctx context.Context, userID uuid.UUID) error
	Lookup(ctx context.Context, userID uuid.UUID, reference string) (*ConfirmResult, error)
}

type service struct {
	carts     cartAccess
	orderRepo *orders.Repository
	pending   pendingAccess
	gateway   gateway
	tx        txRunner
	metrics   *metrics.CheckoutMetrics
	taxRate   decimal.Decimal
	currency  string
	callback  string
	now       func() time.Time
}

// NewService constructs the checkout reconciler.
func NewService(
	carts cartAccess,
	orderRepo *orders.Repository,
	pending pendingAccess,
	gw gateway,
	tx txRunner,
	checkoutMetrics *metrics.CheckoutMetrics,
	cfg config.CheckoutConfig,
) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if pending == nil {
		return nil, fmt.Errorf("pending store required")
	}
	if gw == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	taxRate, err := cfg.TaxRateDecimal()
	if err != nil {
		return nil, err
	}
	return &service{
		carts:     carts,
		orderRepo: orderRepo,
		pending:   pending,
		gateway:   gw,
		tx:        tx,
		metrics:   checkoutMetrics,
		taxRate:   taxRate,
		currency:  cfg.Currency,
		callback:  cfg.CallbackURL,
		now:       time.Now,
	}, nil
}

// Begin validates the shipping form, freezes the cart with its surcharge
// totals into a pending payload, and opens the hosted payment page.
func (s *service) Begin(ctx context.Context, input BeginInput) (*BeginResult, error) {
	if missing := input.ShippingAddress.MissingFields(); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address incomplete").
			WithDetails(map[string]any{"missing_fields": missing})
	}

	snapshot, err := s.carts.GetCart(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	subtotal := snapshot.TotalAmount
	tax := subtotal.Mul(s.taxRate).Round(2)
	total := subtotal.Add(tax)
	amountMinor := total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	tempReference := fmt.Sprintf("TEMP-%d", s.now().UTC().UnixMilli())

	pending := &PendingOrder{
		UserID:          input.UserID,
		TempReference:   tempReference,
		Items:           make([]PendingItem, 0, len(snapshot.Items)),
		Subtotal:        subtotal,
		Tax:             tax,
		Total:           total,
		AmountMinor:     amountMinor,
		Currency:        s.currency,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   paymentMethod,
		CreatedAt:       s.now().UTC(),
	}
	for _, item := range snapshot.Items {
		pending.Items = append(pending.Items, PendingItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Category:  item.Category,
			Brand:     item.Brand,
			Image:     item.Image,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
			Total:     item.LineTotal,
		})
	}
	if err := s.pending.Save(ctx, pending); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist pending order")
	}

	initialized, err := s.gateway.InitializeTransaction(ctx, paystack.InitializeTransactionRequest{
		Email:       input.Email,
		AmountMinor: amountMinor,
		Currency:    s.currency,
		Reference:   tempReference,
		CallbackURL: s.callbackURLFor(tempReference),
		Metadata: &paystack.TransactionMetadata{
			TempReference: tempReference,
			UserID:        input.UserID.String(),
		},
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncBegun()

	return &BeginResult{
		AuthorizationURL: initialized.AuthorizationURL,
		AccessCode:       initialized.AccessCode,
		Reference:        tempReference,
		Subtotal:         subtotal,
		Tax:              tax,
		Total:            total,
	}, nil
}

// Confirm reconciles a payment into exactly one persisted order. The call is
// idempotent keyed by payment reference: callback, webhook, and lookup may
// all race here and every one of them lands on the same row.
func (s *service) Confirm(ctx context.Context, input ConfirmInput) (*ConfirmResult, error) {
	started := s.now()
	result, err := s.confirm(ctx, input)
	elapsed := s.now().Sub(started)
	switch {
	case err != nil:
		s.metrics.IncOutcome(metrics.OutcomeFailed, input.Trigger)
	case result.Replayed:
		s.metrics.IncOutcome(metrics.OutcomeReplayed, input.Trigger)
		s.metrics.ObserveConfirmDuration(input.Trigger, elapsed)
	default:
		s.metrics.IncOutcome(metrics.OutcomeConfirmed, input.Trigger)
		s.metrics.ObserveConfirmDuration(input.Trigger, elapsed)
	}
	return result, err
}

func (s *service) confirm(ctx context.Context, input ConfirmInput) (*ConfirmResult, error) {
	reference := strings.TrimSpace(input.Reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference required")
	}

	if existing, err := s.orderRepo.FindByPaymentReference(ctx, reference); err == nil {
		return &ConfirmResult{Order: orders.NewOrderDTO(existing), Replayed: true}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order by reference")
	}

	// The temp-reference key gates the payload read: a reference that was
	// never issued for this user is rejected without decoding the payload.
	storedRef, err := s.pending.TempReference(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, ErrPendingNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order data not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load temp reference")
	}
	if storedRef != reference {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order data not found")
	}

	pending, err := s.pending.Load(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, ErrPendingNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order data not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pending order")
	}

	verified, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !verified.Status.IsPaid() {
		return nil, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("payment not successful: %s", verified.Status),
		)
	}
	if verified.AmountMinor != pending.AmountMinor {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "payment amount does not match order total")
	}

	order := buildOrder(pending, verified)
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Create(ctx, order)
	}); err != nil {
		if isDuplicateKey(err) {
			// The racing trigger won; serve its row.
			winner, lookupErr := s.orderRepo.FindByPaymentReference(ctx, reference)
			if lookupErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, lookupErr, "lookup winning order")
			}
			s.cleanup(ctx, pending.UserID)
			return &ConfirmResult{Order: orders.NewOrderDTO(winner), Replayed: true}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
	}

	s.cleanup(ctx, pending.UserID)
	return &ConfirmResult{Order: orders.NewOrderDTO(order)}, nil
}

// Abandon records that the shopper closed the payment page. The pending
// payload stays put so a late webhook can still reconcile; the TTL reclaims
// it otherwise.
func (s *service) Abandon(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.pending.Load(ctx, userID); err != nil {
		if errors.Is(err, ErrPendingNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no checkout in progress")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pending order")
	}
	s.metrics.IncOutcome(metrics.OutcomeAbandoned, metrics.TriggerCallback)
	return nil
}

// Lookup resolves a confirmation by payment or temp reference. When only a
// pending payload exists it verifies with the gateway and reconciles on the
// spot instead of trusting the reference alone.
func (s *service) Lookup(ctx context.Context, userID uuid.UUID, reference string) (*ConfirmResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference required")
	}

	if order, err := s.orderRepo.FindByPaymentReference(ctx, reference); err == nil {
		if order.UserID != userID {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return &ConfirmResult{Order: orders.NewOrderDTO(order), Replayed: true}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order by reference")
	}

	if order, err := s.orderRepo.FindByTempReference(ctx, reference); err == nil {
		if order.UserID != userID {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return &ConfirmResult{Order: orders.NewOrderDTO(order), Replayed: true}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order by temp reference")
	}

	return s.Confirm(ctx, ConfirmInput{
		UserID:    userID,
		Reference: reference,
		Trigger:   metrics.TriggerCallback,
	})
}

// cleanup drops the session keys and empties the cart after a confirmed
// order. Failures here never fail the confirmation; the order is already
// durable and the keys expire on their own.
func (s *service) cleanup(ctx context.Context, userID uuid.UUID) {
	_ = s.pending.Clear(ctx, userID)
	_ = s.carts.Clear(ctx, userID)
}

func (s *service) callbackURLFor(reference string) string {
	if s.callback == "" {
		return ""
	}
	separator := "?"
	if strings.Contains(s.callback, "?") {
		separator = "&"
	}
	return s.callback + separator + "reference=" + url.QueryEscape(reference)
}

func buildOrder(pending *PendingOrder, verified *paystack.VerifiedTransaction) *models.Order {
	var channel *enums.PaymentChannel
	if parsed, err := enums.ParsePaymentChannel(verified.Channel); err == nil {
		channel = &parsed
	}
	paidAt := verified.PaidAt
	currency := enums.Currency(pending.Currency)

	order := &models.Order{
		UserID:           pending.UserID,
		PaymentReference: verified.Reference,
		TempReference:    pending.TempReference,
		Status:           enums.OrderStatusPaid,
		PaymentStatus:    enums.PaymentStatusPaid,
		PaymentMethod:    pending.PaymentMethod,
		PaymentChannel:   channel,
		Currency:         currency,
		Subtotal:         pending.Subtotal,
		Tax:              pending.Tax,
		Total:            pending.Total,
		ShippingAddress:  pending.ShippingAddress,
		PaidAt:           paidAt,
	}
	for _, item := range pending.Items {
		productID := item.ProductID
		order.Items = append(order.Items, models.OrderLineItem{
			ProductID: &productID,
			Name:      item.Name,
			Category:  item.Category,
			Brand:     item.Brand,
			Image:     item.Image,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
		})
	}
	return order
}

// isDuplicateKey detects the unique-index violation raised when two
// reconciliation triggers insert the same payment reference.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// The sqlite driver used in tests reports the constraint by name.
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

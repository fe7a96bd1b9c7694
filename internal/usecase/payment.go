package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/domain"
	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/metrics"
	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/pricing"
	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/repository"
)

// PaymentService is the order gateway and payment state machine. It is
// the only writer of attendee payment state.
type PaymentService struct {
	store    repository.Store
	provider OrderCreator
	verifier SignatureVerifier
	coupons  *CouponService
	events   EventPublisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewPaymentService(store repository.Store, provider OrderCreator, verifier SignatureVerifier, coupons *CouponService, events EventPublisher, m *metrics.Metrics, logger *slog.Logger) *PaymentService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &PaymentService{
		store:    store,
		provider: provider,
		verifier: verifier,
		coupons:  coupons,
		events:   events,
		metrics:  m,
		logger:   logger,
	}
}

// CreateOrderInput carries the checkout parameters. CouponCode is
// optional; when set, one coupon use is consumed atomically with the
// order binding.
type CreateOrderInput struct {
	AttendeeID     string
	TicketType     domain.TicketType
	DiscountAmount float64
	CustomTotal    float64
	CouponCode     string
}

// errOrderRaced signals that another request bound an order to the
// attendee between our read and our write.
var errOrderRaced = errors.New("provider order bound concurrently")

// CreateOrder resolves the attendee, quotes the charge and mints a
// provider order scoped to receipt_<attendeeID>.
//
// An attendee who already holds an unpaid order gets that order back
// instead of a second live one; a paid attendee is rejected outright.
// The attendee record is only modified after the provider call
// succeeds, and the coupon use is consumed in the same transaction
// that binds the order id, so neither outlives a failure of the other.
func (s *PaymentService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.ProviderOrder, error) {
	attendee, err := s.store.GetAttendee(ctx, in.AttendeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrAttendeeNotFound
		}
		return nil, err
	}
	if attendee.HasPaid {
		return nil, domain.ErrAlreadyPaid
	}

	amount, err := pricing.Quote(in.TicketType, in.DiscountAmount, in.CustomTotal)
	if err != nil {
		return nil, err
	}

	receipt := receiptFor(in.AttendeeID)
	if attendee.ProviderOrderID != nil {
		s.logger.Info("reusing existing provider order",
			"attendee_id", in.AttendeeID, "order_id", *attendee.ProviderOrderID)
		return &domain.ProviderOrder{
			ID:       *attendee.ProviderOrderID,
			Amount:   amount,
			Currency: pricing.Currency,
			Receipt:  receipt,
		}, nil
	}

	// Resolve the coupon before spending a provider round-trip on a
	// code that cannot possibly redeem.
	var couponCode string
	if in.CouponCode != "" {
		offer, err := s.coupons.Validate(ctx, in.CouponCode)
		if err != nil {
			return nil, err
		}
		couponCode = offer.Code
	}

	order, err := s.provider.CreateOrder(ctx, amount, pricing.Currency, receipt)
	if err != nil {
		return nil, err
	}

	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		if couponCode != "" {
			rows, err := q.RedeemCoupon(ctx, couponCode)
			if err != nil {
				return err
			}
			if rows == 0 {
				return domain.ErrCouponExhausted
			}
		}
		rows, err := q.BindProviderOrder(ctx, in.AttendeeID, order.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errOrderRaced
		}
		return nil
	})
	if errors.Is(err, errOrderRaced) {
		// The minted order is abandoned unpaid at the provider; surface
		// whatever the winning request bound.
		current, getErr := s.store.GetAttendee(ctx, in.AttendeeID)
		if getErr != nil || current.ProviderOrderID == nil {
			return nil, fmt.Errorf("resolve raced order for attendee %s: %w", in.AttendeeID, err)
		}
		return &domain.ProviderOrder{
			ID:       *current.ProviderOrderID,
			Amount:   amount,
			Currency: pricing.Currency,
			Receipt:  receipt,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	s.metrics.IncOrdersCreated()
	if couponCode != "" {
		s.metrics.IncCouponsRedeemed()
		s.events.CouponRedeemed(ctx, couponCode, in.AttendeeID)
	}
	return order, nil
}

func receiptFor(attendeeID string) string {
	return "receipt_" + attendeeID
}

// VerifyPayment authenticates a completion callback and transitions the
// owning attendee to COMPLETED. Verification and transition are one
// atomic step per order id: of two concurrent calls exactly one updates
// the row, and the other observes the completed state as success.
func (s *PaymentService) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (string, error) {
	start := time.Now()
	defer s.metrics.ObserveVerify(start)

	if !s.verifier.Verify(orderID, paymentID, signature) {
		s.metrics.IncSignatureFailures()
		s.logger.Warn("payment callback rejected", "order_id", orderID, "reason", "signature mismatch")
		return "", domain.ErrInvalidSignature
	}

	rows, err := s.store.CompletePayment(ctx, orderID, paymentID)
	if err != nil {
		return "", err
	}
	if rows == 0 {
		attendee, err := s.store.GetAttendeeByOrderID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", fmt.Errorf("no attendee holds order %s", orderID)
			}
			return "", err
		}
		if attendee.PaymentStatus == domain.PaymentCompleted {
			return "Payment already verified", nil
		}
		return "", fmt.Errorf("payment for order %s not completed", orderID)
	}

	s.metrics.IncPaymentsCompleted()
	s.events.PaymentCompleted(ctx, orderID, paymentID)
	s.logger.Info("payment completed", "order_id", orderID)
	return "Payment verified successfully", nil
}

// RecordAbandonment marks the attendee holding the order ABANDONED and
// stores the feedback text. Re-entrant, and a no-op for an attendee who
// completed payment first: completion and abandonment race on the
// client, and completion wins. An unknown order id is logged and
// swallowed so the checkout-exit flow is never blocked.
func (s *PaymentService) RecordAbandonment(ctx context.Context, orderID, feedback string) error {
	rows, err := s.store.MarkAbandoned(ctx, orderID, feedback)
	if err != nil {
		return err
	}
	if rows == 0 {
		attendee, err := s.store.GetAttendeeByOrderID(ctx, orderID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			s.logger.Warn("abandonment signal for unknown order", "order_id", orderID)
			return nil
		case err != nil:
			return err
		case attendee.PaymentStatus == domain.PaymentCompleted:
			return nil
		}
		return nil
	}

	s.metrics.IncCheckoutsAbandoned()
	s.events.CheckoutAbandoned(ctx, orderID, feedback)
	return nil
}

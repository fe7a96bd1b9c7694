package usecase

import (
	"context"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/domain"
)

// OrderCreator mints a payment-intent order with the external provider.
type OrderCreator interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*domain.ProviderOrder, error)
}

// SignatureVerifier authenticates a payment-completion callback.
type SignatureVerifier interface {
	Verify(orderID, paymentID, signature string) bool
}

// EventPublisher notifies downstream collaborators (email dispatch,
// analytics) about funnel transitions. Publishing is best-effort and
// must never fail the request that triggered it.
type EventPublisher interface {
	PaymentCompleted(ctx context.Context, orderID, paymentID string)
	CheckoutAbandoned(ctx context.Context, orderID, feedback string)
	CouponRedeemed(ctx context.Context, code, attendeeID string)
}

// NoopPublisher is used when event-driven delivery is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PaymentCompleted(context.Context, string, string)  {}
func (NoopPublisher) CheckoutAbandoned(context.Context, string, string) {}
func (NoopPublisher) CouponRedeemed(context.Context, string, string)    {}

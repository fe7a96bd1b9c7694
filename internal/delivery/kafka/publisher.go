package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/usecase"
)

// Publisher emits funnel events for downstream collaborators. Delivery
// is fire-and-forget: a broker outage is logged, never surfaced to the
// request that caused the event.
type Publisher struct {
	client *kgo.Client
	logger *slog.Logger
}

func NewPublisher(client *kgo.Client, logger *slog.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

var _ usecase.EventPublisher = (*Publisher)(nil)

func (p *Publisher) PaymentCompleted(ctx context.Context, orderID, paymentID string) {
	p.publish(ctx, TopicPaymentCompleted, orderID, Event{
		OrderID:   orderID,
		PaymentID: paymentID,
	})
}

func (p *Publisher) CheckoutAbandoned(ctx context.Context, orderID, feedback string) {
	p.publish(ctx, TopicCheckoutAbandoned, orderID, Event{
		OrderID:  orderID,
		Feedback: feedback,
	})
}

func (p *Publisher) CouponRedeemed(ctx context.Context, code, attendeeID string) {
	p.publish(ctx, TopicCouponRedeemed, code, Event{
		CouponCode: code,
		AttendeeID: attendeeID,
	})
}

func (p *Publisher) publish(ctx context.Context, topic, key string, ev Event) {
	ev.SchemaVersion = 1
	ev.EventID = uuid.New().String()
	ev.OccurredAt = time.Now().UTC()

	payload, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("failed to encode event", "topic", topic, "err", err)
		return
	}

	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	}
	// Keyed by order id (or code) so per-entity ordering holds within a
	// partition.
	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("failed to publish event", "topic", topic, "err", err)
		}
	})
}

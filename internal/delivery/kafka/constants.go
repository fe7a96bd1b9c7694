package kafka

const (
	TopicPaymentCompleted  = "registration.payment.completed"
	TopicCheckoutAbandoned = "registration.checkout.abandoned"
	TopicCouponRedeemed    = "registration.coupon.redeemed"
)

// Topics lists everything the publisher writes, for topic bootstrap.
var Topics = []string{
	TopicPaymentCompleted,
	TopicCheckoutAbandoned,
	TopicCouponRedeemed,
}

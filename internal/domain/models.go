package domain

import "time"

// TicketType identifies one of the fixed registration tiers.
type TicketType string

const (
	TicketEarlyBird TicketType = "EARLY_BIRD"
	TicketRegular   TicketType = "REGULAR"
	TicketStudent   TicketType = "STUDENT"
	TicketEOral     TicketType = "E_ORAL"
	TicketEPoster   TicketType = "E_POSTER"
	TicketListener  TicketType = "LISTENER"
)

func (t TicketType) Valid() bool {
	switch t {
	case TicketEarlyBird, TicketRegular, TicketStudent, TicketEOral, TicketEPoster, TicketListener:
		return true
	}
	return false
}

// PaymentStatus is the attendee payment lifecycle state.
// PENDING is assigned at registration; COMPLETED and ABANDONED are
// terminal for the checkout funnel, but ABANDONED may still move to
// COMPLETED if a late verification arrives.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentAbandoned PaymentStatus = "ABANDONED"
)

// DiscountType distinguishes percentage coupons from fixed-amount ones.
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

// AbandonReason classifies why a user left checkout before paying.
type AbandonReason string

const (
	ReasonPriceHigh      AbandonReason = "PRICE_HIGH"
	ReasonNotReady       AbandonReason = "NOT_READY"
	ReasonNeedApproval   AbandonReason = "NEED_APPROVAL"
	ReasonTechnicalIssue AbandonReason = "TECHNICAL_ISSUE"
	ReasonOther          AbandonReason = "OTHER"
)

func (r AbandonReason) Valid() bool {
	switch r {
	case ReasonPriceHigh, ReasonNotReady, ReasonNeedApproval, ReasonTechnicalIssue, ReasonOther:
		return true
	}
	return false
}

// Attendee is a registered participant. Invariant: HasPaid is true iff
// PaymentStatus is COMPLETED, and ProviderOrderID is set at most once.
type Attendee struct {
	ID                string
	FirstName         string
	LastName          string
	Email             string
	Org               string
	TicketType        TicketType
	PaymentStatus     PaymentStatus
	HasPaid           bool
	ProviderOrderID   *string
	ProviderPaymentID *string
	PaymentFeedback   *string
	CreatedAt         time.Time
}

// Coupon is a discount code. UsedCount only ever increases, and only
// through redemption at order-creation time.
type Coupon struct {
	Code          string
	DiscountType  DiscountType
	DiscountValue float64
	IsActive      bool
	ValidUntil    time.Time
	MaxUses       int
	UsedCount     int
	CreatedAt     time.Time
}

// CouponOffer is the validated view returned to clients. Internal
// counters are deliberately absent.
type CouponOffer struct {
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
}

// ExitFeedback is one abandonment event. Append-only.
type ExitFeedback struct {
	ID               int64         `json:"id"`
	Email            string        `json:"email"`
	TicketType       string        `json:"ticketType"`
	AbandonReason    AbandonReason `json:"abandonReason"`
	AdditionalNotes  string        `json:"additionalNotes"`
	WasOfferedCoupon bool          `json:"wasOfferedCoupon"`
	AcceptedCoupon   bool          `json:"acceptedCoupon"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// FeedbackStats summarizes recorded exit feedback.
type FeedbackStats struct {
	Total           int `json:"total"`
	PriceHigh       int `json:"priceHigh"`
	NotReady        int `json:"notReady"`
	NeedApproval    int `json:"needApproval"`
	TechnicalIssue  int `json:"technicalIssue"`
	Other           int `json:"other"`
	CouponsOffered  int `json:"couponsOffered"`
	CouponsAccepted int `json:"couponsAccepted"`
	AcceptanceRate  int `json:"acceptanceRate"`
}

// ProviderOrder is the payment intent minted by the external gateway.
type ProviderOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

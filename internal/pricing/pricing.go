// Package pricing turns a ticket selection into the exact minor-unit
// amount charged by the payment provider.
package pricing

import (
	"math"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/domain"
)

// Base prices in USD, mirroring the published registration tiers.
var basePrices = map[domain.TicketType]float64{
	domain.TicketEarlyBird: 299,
	domain.TicketRegular:   399,
	domain.TicketStudent:   199,
	domain.TicketEOral:     149,
	domain.TicketEPoster:   99,
	domain.TicketListener:  79,
}

const (
	// taxRate is the processing surcharge applied on the discounted subtotal.
	taxRate = 0.05
	// usdToINR is the fixed settlement conversion rate. The provider
	// charges in INR while tickets are quoted in USD.
	usdToINR = 84
	// minorUnitsPerINR converts rupees to paise.
	minorUnitsPerINR = 100

	Currency = "INR"
)

// BasePrice returns the USD list price for a ticket type.
func BasePrice(t domain.TicketType) (float64, error) {
	p, ok := basePrices[t]
	if !ok {
		return 0, domain.ErrInvalidTicketType
	}
	return p, nil
}

// Quote computes the settlement amount in paise for a ticket purchase.
//
// discountAmount is subtracted from the base price (clamped at zero)
// before the surcharge. customTotal, when positive, replaces the
// surcharged USD total outright: the checkout client sends the
// tax-inclusive figure it displayed so the charge matches it exactly.
// Rounding at the minor-unit boundary is half-to-even to avoid
// systematic bias across many orders.
func Quote(ticketType domain.TicketType, discountAmount, customTotal float64) (int64, error) {
	base, err := BasePrice(ticketType)
	if err != nil {
		return 0, err
	}

	subtotal := base - discountAmount
	if subtotal < 0 {
		subtotal = 0
	}

	total := subtotal * (1 + taxRate)
	if customTotal > 0 {
		total = customTotal
	}

	paise := math.RoundToEven(total * usdToINR * minorUnitsPerINR)
	return int64(paise), nil
}
